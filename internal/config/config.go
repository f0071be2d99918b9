// =============================================================================
// Wage Determination Diff - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values are resolved in
// this order, later sources winning:
//
//   1. Built-in defaults (applyDefaults)
//   2. The YAML config file (wagediff.yaml, or --config)
//   3. A .env file in the working directory, if present
//   4. WAGEDIFF_* environment variables
//
// A missing config file is not an error; the defaults are enough to run a
// comparison.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envPrefix prefixes every environment override.
const envPrefix = "WAGEDIFF_"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where workbooks, CSV files, reports and summaries go.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// OutputFileFormat names the generated files (without extension).
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {old}       - Old revision label
	//   {new}       - New revision label
	// Default: "wage_comparison_{timestamp}"
	OutputFileFormat string `yaml:"output_file_format"`

	// WriteCSV also writes each table as a CSV file next to the workbook.
	WriteCSV bool `yaml:"write_csv"`

	// WritePDF also renders the change table as a PDF report.
	WritePDF bool `yaml:"write_pdf"`

	// WriteSummary writes a plain-text summary of the run.
	WriteSummary bool `yaml:"write_summary"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// Encoding of the input text files. Invalid UTF-8 is dropped.
	// Common values: "utf-8", "windows-1252", "iso-8859-1"
	// Default: "utf-8"
	Encoding string `yaml:"encoding"`

	// OrderBy decides which file is the old revision: "mtime" or "name".
	// Default: "mtime"
	OrderBy string `yaml:"order_by"`

	// FallbackOldLabel labels the old file when its name carries no ".rN.txt".
	// Default: "Version_1"
	FallbackOldLabel string `yaml:"fallback_old_label"`

	// FallbackNewLabel labels the new file when its name carries no ".rN.txt".
	// Default: "Version_2"
	FallbackNewLabel string `yaml:"fallback_new_label"`

	// =========================================================================
	// WORKBOOK SETTINGS
	// =========================================================================

	// ChangesSheet names the sheet holding the change table.
	// Default: "Changes"
	ChangesSheet string `yaml:"changes_sheet"`

	// CurrencyFormat is the number format for Rate/Fringe columns.
	// Default: "$"#,##0.00
	CurrencyFormat string `yaml:"currency_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel: "debug", "info", "warn", "error". Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat: "console" or "json". Default: "console"
	LogFormat string `yaml:"log_format"`

	// LogFile receives log output. Empty means stderr.
	LogFile string `yaml:"log_file"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from configPath. A missing file yields the
// defaults (plus environment overrides).
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// Defaults only.
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	applyEnvOverrides(cfg)

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.OutputFileFormat == "" {
		cfg.OutputFileFormat = "wage_comparison_{timestamp}"
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "utf-8"
	}
	if cfg.OrderBy == "" {
		cfg.OrderBy = "mtime"
	}
	if cfg.FallbackOldLabel == "" {
		cfg.FallbackOldLabel = "Version_1"
	}
	if cfg.FallbackNewLabel == "" {
		cfg.FallbackNewLabel = "Version_2"
	}
	if cfg.ChangesSheet == "" {
		cfg.ChangesSheet = "Changes"
	}
	if cfg.CurrencyFormat == "" {
		cfg.CurrencyFormat = `"$"#,##0.00`
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
}

// applyEnvOverrides copies WAGEDIFF_* variables over file values.
func applyEnvOverrides(cfg *Config) {
	strs := map[string]*string{
		"OUTPUT_DIR":         &cfg.OutputDir,
		"OUTPUT_FILE_FORMAT": &cfg.OutputFileFormat,
		"ENCODING":           &cfg.Encoding,
		"ORDER_BY":           &cfg.OrderBy,
		"FALLBACK_OLD_LABEL": &cfg.FallbackOldLabel,
		"FALLBACK_NEW_LABEL": &cfg.FallbackNewLabel,
		"CHANGES_SHEET":      &cfg.ChangesSheet,
		"CURRENCY_FORMAT":    &cfg.CurrencyFormat,
		"LOG_LEVEL":          &cfg.LogLevel,
		"LOG_FORMAT":         &cfg.LogFormat,
		"LOG_FILE":           &cfg.LogFile,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"WRITE_CSV":     &cfg.WriteCSV,
		"WRITE_PDF":     &cfg.WritePDF,
		"WRITE_SUMMARY": &cfg.WriteSummary,
	}
	for key, dst := range bools {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks enum values. Directories are created by the caller when
// output is actually written.
func (c *Config) Validate() error {
	switch c.OrderBy {
	case "mtime", "name":
	default:
		return fmt.Errorf("order_by must be \"mtime\" or \"name\", got %q", c.OrderBy)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be \"console\" or \"json\", got %q", c.LogFormat)
	}

	if strings.ContainsAny(c.ChangesSheet, `:\/?*[]`) || len(c.ChangesSheet) > 31 {
		return fmt.Errorf("changes_sheet %q is not a valid sheet name", c.ChangesSheet)
	}

	return nil
}
