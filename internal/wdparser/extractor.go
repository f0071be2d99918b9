// =============================================================================
// Wage Determination Diff - Extraction State Machine
// =============================================================================
//
// The Extractor consumes lines strictly in file order and turns data lines
// into WageRecords using the context accumulated from earlier lines:
//
//   Header     -> set code/date, clear group and pending fragment
//   Separator  -> clear group and pending fragment (code/date kept)
//   GroupTitle -> set group, clear pending fragment
//   PlainText  -> remember the line as the pending title fragment
//   DataLine   -> prefix the pending fragment, match, emit a record
//   Noise      -> nothing
//
// PENDING FRAGMENT:
//   Only one line of look-back is kept. When two plain-text lines arrive in
//   a row the first one is lost. This matches the documents the tool was
//   built against; it is counted in ParseStats.PendingOverwrites so it can
//   be spotted, but not "fixed".
//
// =============================================================================

package wdparser

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ginjaninja78/wagediff/internal/types"
)

// boilerplatePrefixes are column captions that leak into titles when the
// "Rates  Fringes" header shares a line with the first job. Order matters:
// the longest form is tried first and each is stripped at most once.
var boilerplatePrefixes = []string{"Rates Fringes", "Rates", "Fringes"}

// =============================================================================
// PARSE CONTEXT
// =============================================================================

// ParseContext is the state carried between lines of one file.
type ParseContext struct {
	Code string
	Date string

	// Group is the active all-caps group title, nil when none.
	Group *string

	// Pending is the plain-text line waiting to prefix the next data line.
	Pending *string
}

// ParseStats counts what happened to the lines of one file.
type ParseStats struct {
	// Lines is the number of non-empty lines seen.
	Lines int

	// Records is the number of records emitted.
	Records int

	// Dropped counts data lines whose amounts did not match the strict pattern.
	Dropped int

	// PendingOverwrites counts plain-text fragments lost to a following one.
	PendingOverwrites int

	// Noise counts lines that carried a lone "$" or "..".
	Noise int

	// Oversized counts lines skipped for exceeding the line length limit.
	Oversized int
}

// =============================================================================
// EXTRACTOR
// =============================================================================

// Extractor is the per-file state machine. It is not safe for concurrent
// use; parse each file with its own Extractor.
type Extractor struct {
	ctx    ParseContext
	stats  ParseStats
	logger *zap.Logger
}

// NewExtractor returns an Extractor in its initial state.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Context returns a copy of the current parse context.
func (e *Extractor) Context() ParseContext {
	return e.ctx
}

// Stats returns the counters accumulated so far.
func (e *Extractor) Stats() ParseStats {
	return e.stats
}

// Feed processes one raw line. It returns a record when the line was a
// well-formed data line.
func (e *Extractor) Feed(raw string) (types.WageRecord, bool) {
	line := Classify(raw)
	if line.Text == "" {
		return types.WageRecord{}, false
	}
	e.stats.Lines++

	switch line.Kind {
	case LineHeader:
		e.ctx.Code = line.Code
		e.ctx.Date = line.Date
		e.ctx.Group = nil
		e.ctx.Pending = nil

	case LineSeparator:
		e.ctx.Group = nil
		e.ctx.Pending = nil

	case LineGroupTitle:
		group := line.Text
		e.ctx.Group = &group
		e.ctx.Pending = nil

	case LinePlainText:
		if e.ctx.Pending != nil {
			e.stats.PendingOverwrites++
			e.logger.Debug("pending title fragment overwritten",
				zap.String("lost", *e.ctx.Pending),
				zap.String("kept", line.Text),
			)
		}
		pending := line.Text
		e.ctx.Pending = &pending

	case LineData:
		return e.emit(line.Text)

	default:
		e.stats.Noise++
	}

	return types.WageRecord{}, false
}

// emit handles a data line: joins the pending fragment, matches the
// amounts and derives job/subclass.
func (e *Extractor) emit(text string) (types.WageRecord, bool) {
	fullTitle := text
	if e.ctx.Pending != nil {
		fullTitle = strings.TrimSpace(*e.ctx.Pending + " " + text)
	}
	e.ctx.Pending = nil

	match, ok := MatchDataLine(fullTitle)
	if !ok {
		e.stats.Dropped++
		e.logger.Debug("data line dropped", zap.String("line", fullTitle))
		return types.WageRecord{}, false
	}

	job, subclass := e.jobAndSubclass(CleanTitle(match.Title))

	e.stats.Records++
	return types.WageRecord{
		Code:        e.ctx.Code,
		WDDate:      e.ctx.Date,
		Job:         job,
		JobSubclass: subclass,
		Rate:        match.Rate,
		Fringe:      match.Fringe,
	}, true
}

func (e *Extractor) jobAndSubclass(clean string) (string, string) {
	if e.ctx.Group != nil {
		group := *e.ctx.Group
		if strings.ToUpper(clean) == strings.ToUpper(group) {
			return clean, ""
		}
		return group, clean
	}
	return SplitJobAndSubclass(clean)
}

// =============================================================================
// TITLE HELPERS
// =============================================================================

// CleanTitle strips leading "Rates Fringes" / "Rates" / "Fringes"
// captions (case-insensitive) and trims the result.
func CleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	for _, prefix := range boilerplatePrefixes {
		if len(title) >= len(prefix) && strings.EqualFold(title[:len(prefix)], prefix) {
			title = strings.TrimSpace(title[len(prefix):])
		}
	}
	return title
}

// SplitJobAndSubclass splits "Electrician (Low Voltage)" into
// ("Electrician", "(Low Voltage)"). Titles without a trailing
// parenthesised part come back whole with an empty subclass.
func SplitJobAndSubclass(title string) (string, string) {
	i := strings.Index(title, "(")
	if i < 0 || !strings.HasSuffix(title, ")") {
		return strings.TrimSpace(title), ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i:])
}
