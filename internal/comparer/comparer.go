// =============================================================================
// Wage Determination Diff - Comparer Module
// =============================================================================
//
// This module orchestrates a comparison of two wage determination revisions,
// from raw text files to the output workbook.
//
// COMPARISON PIPELINE:
//   1. Order the two files (old revision first)
//   2. Label each file from its name (".r3.txt" -> "r3")
//   3. Parse both files into record tables
//   4. Diff the tables into a change table
//   5. Write the workbook
//   6. Write the optional CSV, PDF and summary files
//
// CONCURRENCY:
//   The two files are parsed in their own goroutines, each with its own
//   extractor. Results are joined before the diff; if either parse fails
//   nothing is written.
//
// =============================================================================

package comparer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/wagediff/internal/config"
	"github.com/ginjaninja78/wagediff/internal/csvwriter"
	"github.com/ginjaninja78/wagediff/internal/differ"
	"github.com/ginjaninja78/wagediff/internal/report"
	"github.com/ginjaninja78/wagediff/internal/revision"
	"github.com/ginjaninja78/wagediff/internal/types"
	"github.com/ginjaninja78/wagediff/internal/wdparser"
	"github.com/ginjaninja78/wagediff/internal/workbook"
	"github.com/ginjaninja78/wagediff/pkg/utils"
)

// =============================================================================
// OPTIONS AND RESULTS
// =============================================================================

// Options tune a single comparison run.
type Options struct {
	// OutputPath is the workbook path. Empty generates one in output_dir.
	OutputPath string

	// Order decides which file is the old revision.
	Order revision.OrderRule

	// OldLabel and NewLabel replace the labels derived from file names.
	OldLabel string
	NewLabel string

	WriteCSV     bool
	WritePDF     bool
	WriteSummary bool
}

// OptionsFromConfig returns the options implied by cfg alone.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Order:        revision.OrderRule(cfg.OrderBy),
		WriteCSV:     cfg.WriteCSV,
		WritePDF:     cfg.WritePDF,
		WriteSummary: cfg.WriteSummary,
	}
}

// Comparison is the in-memory outcome of comparing two files.
type Comparison struct {
	OldFile string
	NewFile string

	OldTable *types.RecordTable
	NewTable *types.RecordTable
	Changes  *types.ChangeTable

	OldStats wdparser.ParseStats
	NewStats wdparser.ParseStats
}

// Result is the outcome of Run.
type Result struct {
	*Comparison

	// OutputFile is the workbook path.
	OutputFile string

	// CSVFiles holds old records, new records and changes, when written.
	CSVFiles []string

	PDFFile     string
	SummaryFile string

	ProcessingTime time.Duration
}

// =============================================================================
// COMPARER
// =============================================================================

// Comparer runs comparisons with one configuration.
type Comparer struct {
	cfg    *config.Config
	logger *zap.Logger
}

// New creates a Comparer. A nil logger discards output.
func New(cfg *config.Config, logger *zap.Logger) *Comparer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparer{cfg: cfg, logger: logger}
}

// Compare orders, labels, parses and diffs two files without writing
// anything.
func (c *Comparer) Compare(pathA, pathB string, opts Options) (*Comparison, error) {
	// =========================================================================
	// STEP 1: ORDER
	// =========================================================================

	ordered, err := revision.Order([]string{pathA, pathB}, opts.Order)
	if err != nil {
		return nil, fmt.Errorf("failed to order files: %w", err)
	}
	oldPath, newPath := ordered[0], ordered[1]

	// =========================================================================
	// STEP 2: LABEL
	// =========================================================================

	oldLabel := opts.OldLabel
	if oldLabel == "" {
		oldLabel = revision.LabelFor(oldPath, c.cfg.FallbackOldLabel)
	}
	newLabel := opts.NewLabel
	if newLabel == "" {
		newLabel = revision.LabelFor(newPath, c.cfg.FallbackNewLabel)
	}
	// Labels name workbook sheets next to the changes sheet.
	oldLabel, newLabel = revision.Disambiguate(oldLabel, newLabel, c.cfg.ChangesSheet)

	c.logger.Info("comparing revisions",
		zap.String("old", oldPath), zap.String("old_label", oldLabel),
		zap.String("new", newPath), zap.String("new_label", newLabel))

	// =========================================================================
	// STEP 3: PARSE
	// =========================================================================

	parsed, err := c.parseAll([]string{oldPath, newPath}, []string{oldLabel, newLabel})
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 4: DIFF
	// =========================================================================

	changes := differ.Diff(parsed[0].Table, parsed[1].Table, oldLabel, newLabel)

	counts := changes.CountByType()
	c.logger.Info("diff complete",
		zap.Int("added", counts[types.ChangeAdded]),
		zap.Int("removed", counts[types.ChangeRemoved]),
		zap.Int("modified", counts[types.ChangeModified]))

	return &Comparison{
		OldFile:  oldPath,
		NewFile:  newPath,
		OldTable: parsed[0].Table,
		NewTable: parsed[1].Table,
		Changes:  changes,
		OldStats: parsed[0].Stats,
		NewStats: parsed[1].Stats,
	}, nil
}

// Run compares two files and writes the workbook plus any optional
// outputs.
func (c *Comparer) Run(pathA, pathB string, opts Options) (*Result, error) {
	startTime := time.Now()

	cmp, err := c.Compare(pathA, pathB, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Comparison: cmp}

	// =========================================================================
	// STEP 5: WRITE WORKBOOK
	// =========================================================================

	outputPath, err := c.resolveOutputPath(opts.OutputPath, ".xlsx", map[string]string{
		"old": cmp.OldTable.Label,
		"new": cmp.NewTable.Label,
	})
	if err != nil {
		return nil, err
	}

	sheets := workbook.ComparisonSheets(cmp.OldTable, cmp.NewTable, cmp.Changes, c.cfg.ChangesSheet)
	if err := workbook.Write(outputPath, sheets, workbook.Options{CurrencyFormat: c.cfg.CurrencyFormat}); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	result.OutputFile = outputPath
	c.logger.Info("wrote workbook", zap.String("path", outputPath), zap.Int("sheets", len(sheets)))

	// =========================================================================
	// STEP 6: OPTIONAL OUTPUTS
	// =========================================================================

	if opts.WriteCSV {
		files, err := c.writeCSV(outputPath, cmp)
		if err != nil {
			return nil, err
		}
		result.CSVFiles = files
	}

	if opts.WritePDF {
		pdfPath := utils.CompanionPath(outputPath, "", ".pdf")
		err := report.WriteFile(pdfPath, report.Input{
			OldLabel:   cmp.OldTable.Label,
			NewLabel:   cmp.NewTable.Label,
			OldFile:    filepath.Base(cmp.OldFile),
			NewFile:    filepath.Base(cmp.NewFile),
			OldRecords: cmp.OldTable.Len(),
			NewRecords: cmp.NewTable.Len(),
			Changes:    cmp.Changes,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to write PDF report: %w", err)
		}
		result.PDFFile = pdfPath
		c.logger.Info("wrote PDF report", zap.String("path", pdfPath))
	}

	result.ProcessingTime = time.Since(startTime)

	if opts.WriteSummary {
		summaryPath := utils.CompanionPath(outputPath, "_summary", ".txt")
		if err := utils.WriteSummaryLog(summarize(result, startTime), summaryPath); err != nil {
			return nil, err
		}
		result.SummaryFile = summaryPath
		c.logger.Info("wrote summary", zap.String("path", summaryPath))
	}

	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

type parseOutcome struct {
	index  int
	result *wdparser.Result
	err    error
}

// parseAll parses every path in its own goroutine and returns results in
// argument order.
func (c *Comparer) parseAll(paths, labels []string) ([]*wdparser.Result, error) {
	var wg sync.WaitGroup
	outcomes := make(chan parseOutcome, len(paths))

	for i, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			res, err := wdparser.ParseFile(path, wdparser.Options{
				Encoding: c.cfg.Encoding,
				Label:    labels[index],
				Logger:   c.logger.With(zap.String("file", filepath.Base(path))),
			})
			outcomes <- parseOutcome{index: index, result: res, err: err}
		}(i, path)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]*wdparser.Result, len(paths))
	var firstErr error
	for outcome := range outcomes {
		if outcome.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to parse %s: %w", paths[outcome.index], outcome.err)
			}
			continue
		}
		results[outcome.index] = outcome.result
		c.logger.Info("parsed file",
			zap.String("path", paths[outcome.index]),
			zap.Int("records", outcome.result.Stats.Records),
			zap.Int("dropped", outcome.result.Stats.Dropped))
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// resolveOutputPath returns explicit when set, creating its directory,
// otherwise a generated name inside output_dir.
func (c *Comparer) resolveOutputPath(explicit, extension string, params map[string]string) (string, error) {
	if explicit != "" {
		if dir := filepath.Dir(explicit); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
		return explicit, nil
	}

	files := utils.NewFileManager(c.cfg.OutputDir, c.cfg.OutputFileFormat)
	if err := files.EnsureDirectories(); err != nil {
		return "", err
	}
	return files.OutputPath(params, extension), nil
}

func (c *Comparer) writeCSV(outputPath string, cmp *Comparison) ([]string, error) {
	oldPath := utils.CompanionPath(outputPath, "_"+cmp.OldTable.Label, ".csv")
	if err := csvwriter.WriteRecordsFile(oldPath, cmp.OldTable); err != nil {
		return nil, err
	}

	newPath := utils.CompanionPath(outputPath, "_"+cmp.NewTable.Label, ".csv")
	if err := csvwriter.WriteRecordsFile(newPath, cmp.NewTable); err != nil {
		return nil, err
	}

	changesPath := utils.CompanionPath(outputPath, "_changes", ".csv")
	if err := csvwriter.WriteChangesFile(changesPath, cmp.Changes); err != nil {
		return nil, err
	}

	files := []string{oldPath, newPath, changesPath}
	c.logger.Info("wrote CSV files", zap.Strings("paths", files))
	return files, nil
}

func summarize(result *Result, startTime time.Time) utils.ComparisonSummary {
	counts := result.Changes.CountByType()

	outputs := []string{result.OutputFile}
	outputs = append(outputs, result.CSVFiles...)
	if result.PDFFile != "" {
		outputs = append(outputs, result.PDFFile)
	}

	return utils.ComparisonSummary{
		StartTime: startTime,
		EndTime:   startTime.Add(result.ProcessingTime),
		Old:       revisionSummary(result.OldFile, result.OldTable, result.OldStats),
		New:       revisionSummary(result.NewFile, result.NewTable, result.NewStats),
		Added:     counts[types.ChangeAdded],
		Removed:   counts[types.ChangeRemoved],
		Modified:  counts[types.ChangeModified],
		Outputs:   outputs,
	}
}

func revisionSummary(path string, table *types.RecordTable, stats wdparser.ParseStats) utils.RevisionSummary {
	return utils.RevisionSummary{
		File:              path,
		Label:             table.Label,
		Lines:             stats.Lines,
		Records:           stats.Records,
		DroppedLines:      stats.Dropped,
		PendingOverwrites: stats.PendingOverwrites,
	}
}
