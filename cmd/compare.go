// =============================================================================
// Wage Determination Diff - Compare Command
// =============================================================================
//
// This file defines the 'compare' command, the main command of the tool.
//
// COMMAND USAGE:
//   wagediff compare OLD NEW [flags]
//
// FLAGS:
//   --out        : Workbook path (default: generated in output_dir)
//   --order      : How to tell old from new: "mtime" or "name"
//   --csv        : Also write record and change tables as CSV
//   --pdf        : Also write the change table as a PDF report
//   --summary    : Also write a text summary
//   --label-old  : Label for the old revision (default: from file name)
//   --label-new  : Label for the new revision (default: from file name)
//
// PROCESSING PIPELINE:
//   1. Order the two files and label them
//   2. Parse both files concurrently
//   3. Diff the record tables
//   4. Write the workbook and optional outputs
//   5. Print a summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/wagediff/internal/comparer"
	"github.com/ginjaninja78/wagediff/internal/revision"
	"github.com/ginjaninja78/wagediff/internal/types"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	compareOut      string
	compareOrder    string
	compareCSV      bool
	comparePDF      bool
	compareSummary  bool
	compareLabelOld string
	compareLabelNew string
)

// compareCmd represents the 'compare' command.
var compareCmd = &cobra.Command{
	Use:   "compare OLD NEW",
	Short: "Compare two wage determination revisions",
	Long: `The compare command parses two wage determination text files and writes a
workbook with one sheet per revision and a "Changes" sheet listing every job
classification that was added, removed or had its rate or fringe modified.

The "Changes" sheet is omitted when the revisions are identical.

By default the least recently modified file is treated as the old revision;
use --order name to decide by file name instead.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	opts := comparer.OptionsFromConfig(appConfig)

	if cmd.Flags().Changed("order") {
		opts.Order = revision.OrderRule(compareOrder)
	}
	if !opts.Order.Valid() {
		return fmt.Errorf("invalid --order %q (expected mtime or name)", opts.Order)
	}

	opts.OutputPath = compareOut
	opts.OldLabel = compareLabelOld
	opts.NewLabel = compareLabelNew
	opts.WriteCSV = opts.WriteCSV || compareCSV
	opts.WritePDF = opts.WritePDF || comparePDF
	opts.WriteSummary = opts.WriteSummary || compareSummary

	result, err := comparer.New(appConfig, logger).Run(args[0], args[1], opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	counts := result.Changes.CountByType()

	fmt.Fprintln(out, "=== Comparison Complete ===")
	fmt.Fprintf(out, "Old:           %s (%s, %d records)\n", filepath.Base(result.OldFile), result.OldTable.Label, result.OldTable.Len())
	fmt.Fprintf(out, "New:           %s (%s, %d records)\n", filepath.Base(result.NewFile), result.NewTable.Label, result.NewTable.Len())
	fmt.Fprintf(out, "Changes:       %d added, %d removed, %d modified\n",
		counts[types.ChangeAdded], counts[types.ChangeRemoved], counts[types.ChangeModified])
	fmt.Fprintf(out, "Workbook:      %s\n", result.OutputFile)
	for _, path := range result.CSVFiles {
		fmt.Fprintf(out, "CSV:           %s\n", path)
	}
	if result.PDFFile != "" {
		fmt.Fprintf(out, "PDF:           %s\n", result.PDFFile)
	}
	if result.SummaryFile != "" {
		fmt.Fprintf(out, "Summary:       %s\n", result.SummaryFile)
	}
	fmt.Fprintf(out, "Time elapsed:  %s\n", result.ProcessingTime)

	return nil
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&compareOut, "out", "o", "", "Workbook path (default: generated in output_dir)")
	compareCmd.Flags().StringVar(&compareOrder, "order", string(revision.OrderByModTime), "Old/new rule: mtime or name")
	compareCmd.Flags().BoolVar(&compareCSV, "csv", false, "Also write CSV files")
	compareCmd.Flags().BoolVar(&comparePDF, "pdf", false, "Also write a PDF change report")
	compareCmd.Flags().BoolVar(&compareSummary, "summary", false, "Also write a text summary")
	compareCmd.Flags().StringVar(&compareLabelOld, "label-old", "", "Label for the old revision")
	compareCmd.Flags().StringVar(&compareLabelNew, "label-new", "", "Label for the new revision")
}
