// =============================================================================
// Wage Determination Diff - Line Classifier
// =============================================================================
//
// Every non-empty, trimmed line of a wage determination falls into exactly
// one category. The tests run in strict precedence order; header and
// separator are the most specific and must be tried first.
//
//   | Kind        | Example                                      |
//   |-------------|----------------------------------------------|
//   | Header      | * OH20240001-001 01/05/2024                  |
//   | Separator   | ---------------------                        |
//   | GroupTitle  | CARPENTERS                                   |
//   | DataLine    | Electrician..........$ 25.00 5.00            |
//   | PlainText   | Power equipment operator, including          |
//   | Noise       | any other line carrying a lone "$" or ".."   |
//
// Classification is pure: the compiled patterns below are read-only.
//
// =============================================================================

package wdparser

import (
	"regexp"
	"strings"
)

// =============================================================================
// PATTERNS
// =============================================================================

var (
	headerPattern     = regexp.MustCompile(`^\s*(?:\*\s*)?([A-Z0-9]+-\d{3})\s+(\d{2}/\d{2}/\d{4})\s*$`)
	separatorPattern  = regexp.MustCompile(`^[-=]{3,}$`)
	groupTitlePattern = regexp.MustCompile(`^[A-Z][A-Z \-/:()']+$`)

	// dataLinePattern captures the title before the dotted leader and the
	// first two money amounts after the "$".
	dataLinePattern = regexp.MustCompile(`^(.*?)\.{2,}.*?\$\s*([\d,.]+\.\d{2})[^\d]*([\d,.]+\.\d{2})`)
)

// =============================================================================
// LINE KINDS
// =============================================================================

// LineKind is the category assigned to a line.
type LineKind int

const (
	// LineNoise carries exactly one of "$" or ".." and matches nothing else.
	// It leaves the parse context untouched.
	LineNoise LineKind = iota
	LineHeader
	LineSeparator
	LineGroupTitle
	LineData
	LinePlainText
)

func (k LineKind) String() string {
	switch k {
	case LineHeader:
		return "header"
	case LineSeparator:
		return "separator"
	case LineGroupTitle:
		return "group_title"
	case LineData:
		return "data"
	case LinePlainText:
		return "plain_text"
	default:
		return "noise"
	}
}

// Line is a classified line plus whatever the matching rule captured.
type Line struct {
	Kind LineKind

	// Text is the trimmed line.
	Text string

	// Code and Date are set for LineHeader.
	Code string
	Date string
}

// DataMatch is the result of applying the data-line pattern to a title.
type DataMatch struct {
	// Title is the raw text before the dotted leader, trimmed.
	Title string

	// Rate and Fringe are the two amounts with thousands separators removed.
	Rate   string
	Fringe string
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classify categorizes a single line. The line is trimmed first; callers
// are expected to skip lines that are empty after trimming.
func Classify(raw string) Line {
	text := strings.TrimSpace(raw)
	line := Line{Text: text}

	if m := headerPattern.FindStringSubmatch(text); m != nil {
		line.Kind = LineHeader
		line.Code = m[1]
		line.Date = m[2]
		return line
	}

	if separatorPattern.MatchString(text) {
		line.Kind = LineSeparator
		return line
	}

	hasDollar := strings.Contains(text, "$")
	hasLeader := strings.Contains(text, "..")

	if isGroupTitle(text) {
		line.Kind = LineGroupTitle
		return line
	}

	switch {
	case hasDollar && hasLeader:
		line.Kind = LineData
	case !hasDollar && !hasLeader:
		line.Kind = LinePlainText
	default:
		line.Kind = LineNoise
	}
	return line
}

// isGroupTitle reports whether text is an all-caps group heading.
func isGroupTitle(text string) bool {
	return groupTitlePattern.MatchString(text) &&
		!strings.Contains(text, "$") &&
		!strings.Contains(text, ".")
}

// MatchDataLine applies the strict data-line pattern to a (possibly
// fragment-prefixed) title. It returns false for lines that have "$" and
// ".." but no well-formed amount pair.
func MatchDataLine(text string) (DataMatch, bool) {
	m := dataLinePattern.FindStringSubmatch(text)
	if m == nil {
		return DataMatch{}, false
	}
	return DataMatch{
		Title:  strings.TrimSpace(m[1]),
		Rate:   stripThousands(m[2]),
		Fringe: stripThousands(m[3]),
	}, true
}

func stripThousands(amount string) string {
	return strings.ReplaceAll(amount, ",", "")
}
