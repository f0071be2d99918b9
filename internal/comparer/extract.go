package comparer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ginjaninja78/wagediff/internal/csvwriter"
	"github.com/ginjaninja78/wagediff/internal/revision"
	"github.com/ginjaninja78/wagediff/internal/types"
	"github.com/ginjaninja78/wagediff/internal/validation"
	"github.com/ginjaninja78/wagediff/internal/wdparser"
	"github.com/ginjaninja78/wagediff/internal/workbook"
	"github.com/ginjaninja78/wagediff/pkg/utils"
)

// Output formats for Extract.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ExtractOptions tune a single-file extraction.
type ExtractOptions struct {
	// OutputPath is the output file. Empty generates one in output_dir.
	OutputPath string

	// Format is FormatXLSX (default) or FormatCSV.
	Format string

	// Label replaces the label derived from the file name.
	Label string

	// Lint runs record lint and writes its log next to the output.
	Lint bool

	// LintStrict implies Lint and makes warnings fail the lint result.
	LintStrict bool
}

// ExtractResult is the outcome of Extract.
type ExtractResult struct {
	Table *types.RecordTable
	Stats wdparser.ParseStats

	OutputFile string

	// Lint is nil unless ExtractOptions.Lint or LintStrict was set.
	Lint    *validation.ValidationResult
	LintLog string
}

// Extract parses one file and writes its record table as a one-sheet
// workbook or a CSV file.
func (c *Comparer) Extract(path string, opts ExtractOptions) (*ExtractResult, error) {
	format := opts.Format
	if format == "" {
		format = FormatXLSX
	}
	if format != FormatXLSX && format != FormatCSV {
		return nil, fmt.Errorf("unknown output format %q (expected xlsx or csv)", format)
	}

	label := opts.Label
	if label == "" {
		label = revision.LabelFor(path, c.cfg.FallbackOldLabel)
	}

	parsed, err := wdparser.ParseFile(path, wdparser.Options{
		Encoding: c.cfg.Encoding,
		Label:    label,
		Logger:   c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	result := &ExtractResult{Table: parsed.Table, Stats: parsed.Stats}
	c.logger.Info("parsed file",
		zap.String("path", path),
		zap.String("label", label),
		zap.Int("records", parsed.Stats.Records),
		zap.Int("dropped", parsed.Stats.Dropped))

	outputPath, err := c.resolveOutputPath(opts.OutputPath, "."+format, map[string]string{
		"old": label,
		"new": label,
	})
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		err = csvwriter.WriteRecordsFile(outputPath, parsed.Table)
	default:
		err = workbook.Write(outputPath, []workbook.Sheet{workbook.RecordSheet(parsed.Table)},
			workbook.Options{CurrencyFormat: c.cfg.CurrencyFormat})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	result.OutputFile = outputPath
	c.logger.Info("wrote records", zap.String("path", outputPath))

	if opts.Lint || opts.LintStrict {
		validator := validation.NewValidatorWithOptions(validation.ValidationOptions{
			TreatWarningsAsErrors: opts.LintStrict,
		})
		result.Lint = validator.ValidateAll(parsed.Table)
		for _, finding := range result.Lint.Errors {
			c.logger.Warn("lint finding", zap.String("finding", finding.Error()))
		}

		result.LintLog = utils.CompanionPath(outputPath, "_lint", ".txt")
		if err := validation.WriteErrorLog(result.Lint, result.LintLog); err != nil {
			return nil, err
		}
	}

	return result, nil
}
