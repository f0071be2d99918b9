package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/wagediff/internal/comparer"
)

var (
	extractOut    string
	extractFormat string
	extractLabel  string
	extractLint   bool

	extractLintStrict bool
)

// extractCmd represents the 'extract' command.
var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Extract the wage records of one determination",
	Long: `The extract command parses a single wage determination text file and writes
its records (Code, WD_Date, Job, Job_Subclass, Rate, Fringe) as a one-sheet
workbook or a CSV file.

With --lint, records that look wrong (no preceding header, malformed dates,
amounts without two decimal places) are reported and written to a log next
to the output. Lint findings fail the command only with --lint-strict, which
also counts warnings; the records are written either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	result, err := comparer.New(appConfig, logger).Extract(args[0], comparer.ExtractOptions{
		OutputPath: extractOut,
		Format:     extractFormat,
		Label:      extractLabel,
		Lint:       extractLint,
		LintStrict: extractLintStrict,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Extraction Complete ===")
	fmt.Fprintf(out, "Label:         %s\n", result.Table.Label)
	fmt.Fprintf(out, "Records:       %d\n", result.Table.Len())
	fmt.Fprintf(out, "Dropped lines: %d\n", result.Stats.Dropped)
	fmt.Fprintf(out, "Output:        %s\n", result.OutputFile)

	if result.Lint != nil {
		fmt.Fprintf(out, "Lint:          %d error(s), %d warning(s), see %s\n",
			result.Lint.ErrorCount, result.Lint.WarningCount, result.LintLog)

		if !result.Lint.IsValid && extractLintStrict {
			return fmt.Errorf("lint failed for %s: %d error(s), %d warning(s)",
				args[0], result.Lint.ErrorCount, result.Lint.WarningCount)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Output path (default: generated in output_dir)")
	extractCmd.Flags().StringVar(&extractFormat, "format", comparer.FormatXLSX, "Output format: xlsx or csv")
	extractCmd.Flags().StringVar(&extractLabel, "label", "", "Sheet label (default: from file name)")
	extractCmd.Flags().BoolVar(&extractLint, "lint", false, "Report suspicious records")
	extractCmd.Flags().BoolVar(&extractLintStrict, "lint-strict", false, "Like --lint, but fail on any finding")
}
