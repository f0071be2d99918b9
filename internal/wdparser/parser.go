// =============================================================================
// Wage Determination Diff - Record Table Builder
// =============================================================================
//
// Parse and ParseFile read a wage determination line by line, feed every
// line through an Extractor and collect the emitted records into a
// RecordTable in the order they were found.
//
// ENCODING:
//   The default "utf-8" drops invalid byte sequences instead of failing.
//   Any other WHATWG encoding label ("windows-1252", "iso-8859-1", ...) is
//   decoded through golang.org/x/text before classification.
//
// LINE ENDINGS:
//   "\n", "\r\n" and a bare "\r" all terminate a line. A line of
//   maxLineBytes or more is skipped and counted in ParseStats.Oversized;
//   only read errors fail a parse.
//
// =============================================================================

package wdparser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/wagediff/internal/types"
)

// ErrUnsupportedEncoding is returned when Options.Encoding names no known encoding.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// maxLineBytes bounds a single source line. Lines reaching it are skipped.
const maxLineBytes = 4 * 1024 * 1024

const byteOrderMark = "\ufeff"

// Options controls how a file is read.
type Options struct {
	// Encoding is a WHATWG label. Empty means "utf-8".
	Encoding string

	// Label is copied onto the resulting RecordTable.
	Label string

	// Logger receives debug events for dropped lines. Nil disables logging.
	Logger *zap.Logger
}

// Result bundles a parsed table with the statistics of its scan.
type Result struct {
	Table *types.RecordTable
	Stats ParseStats
}

// =============================================================================
// ENTRY POINTS
// =============================================================================

// ParseFile opens and parses a wage determination file. An unreadable
// file fails immediately; no partial table is returned.
func ParseFile(path string, opts Options) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	result, err := Parse(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	result.Table.SourceFile = path
	return result, nil
}

// Parse reads wage determination text from r.
func Parse(r io.Reader, opts Options) (*Result, error) {
	reader, utf8Input, err := decodingReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	extractor := NewExtractor(logger)
	table := &types.RecordTable{Label: opts.Label, Records: []types.WageRecord{}}

	splitter := &lineSplitter{max: maxLineBytes}
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(splitter.split)

	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if utf8Input {
			line = strings.ToValidUTF8(line, "")
		}
		if first {
			line = strings.TrimPrefix(line, byteOrderMark)
			first = false
		}

		if record, ok := extractor.Feed(line); ok {
			table.Append(record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	stats := extractor.Stats()
	stats.Oversized = splitter.oversized
	if stats.Oversized > 0 {
		logger.Warn("skipped oversized lines",
			zap.String("label", opts.Label),
			zap.Int("count", stats.Oversized),
			zap.Int("max_bytes", maxLineBytes))
	}
	logger.Debug("parsed wage determination",
		zap.String("label", opts.Label),
		zap.Int("lines", stats.Lines),
		zap.Int("records", stats.Records),
		zap.Int("dropped", stats.Dropped),
		zap.Int("pending_overwrites", stats.PendingOverwrites),
	)

	return &Result{Table: table, Stats: stats}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// decodingReader wraps r with a decoder for the named encoding. The bool
// reports whether the stream is treated as UTF-8 and still needs invalid
// bytes removed.
func decodingReader(r io.Reader, encoding string) (io.Reader, bool, error) {
	name := strings.ToLower(strings.TrimSpace(encoding))
	if name == "" || name == "utf-8" || name == "utf8" {
		return r, true, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
	return transform.NewReader(r, enc.NewDecoder()), false, nil
}

// scanAnyLines is a bufio.SplitFunc that ends lines at "\n", "\r\n" or "\r".
func scanAnyLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// "\r": look one byte ahead for a "\r\n" pair.
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if !atEOF {
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// lineSplitter splits like scanAnyLines but discards any line of max bytes
// or more instead of failing the scan with bufio.ErrTooLong. The scanner
// buffer limit must be at least max.
type lineSplitter struct {
	max       int
	skipping  bool
	oversized int
}

func (s *lineSplitter) split(data []byte, atEOF bool) (int, []byte, error) {
	advance, token, err := scanAnyLines(data, atEOF)
	if err != nil {
		return advance, token, err
	}
	if advance > 0 {
		if s.skipping {
			// Tail of an oversized line.
			s.skipping = false
			return advance, nil, nil
		}
		return advance, token, nil
	}
	if atEOF || (!s.skipping && len(data) < s.max) {
		return 0, nil, nil
	}

	if !s.skipping {
		s.skipping = true
		s.oversized++
	}
	// Keep a trailing "\r" that may start a "\r\n" pair.
	if data[len(data)-1] == '\r' {
		return len(data) - 1, nil, nil
	}
	return len(data), nil, nil
}
