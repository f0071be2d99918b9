// =============================================================================
// Wage Determination Diff - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (wagediff)
//   ├── compareCmd (wagediff compare OLD NEW)
//   ├── extractCmd (wagediff extract FILE)
//   └── versionCmd (wagediff version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration (--config, .env, WAGEDIFF_* variables)
//   2. Builds the logger (--verbose forces debug level)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/wagediff/internal/config"
	"github.com/ginjaninja78/wagediff/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig and logger are set up by the root command before subcommands run.
var (
	appConfig   *config.Config
	logger      = zap.NewNop()
	closeLogger = func() error { return nil }
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wagediff",
	Short: "Wage Determination Diff - compare two revisions of a wage determination",
	Long: `wagediff reads plain-text prevailing wage determinations, extracts every
job classification with its hourly rate and fringe, and reports what changed
between two revisions as a styled Excel workbook.

Key Features:
  - Tolerant line-by-line extraction of rates and fringes
  - Added / Removed / Modified change table per job classification
  - Revision labels taken from file names (".r3.txt" -> "r3")
  - Optional CSV, PDF and summary outputs

Example Usage:
  wagediff compare OH1.r0.txt OH1.r1.txt      # Write the comparison workbook
  wagediff compare a.txt b.txt --order name  # Old file is the first by name
  wagediff extract OH1.r1.txt --format csv   # Records of one file as CSV`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return setup()
	},

	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogger()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger.
func setup() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	l, closer, err := logging.New(logging.Options{
		Level:  level,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	appConfig, logger, closeLogger = cfg, l, closer
	logger.Debug("configuration loaded", zap.String("config", cfgFile), zap.String("output_dir", cfg.OutputDir))
	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config: a missing file is fine, defaults apply.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"wagediff.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
