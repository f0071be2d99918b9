// =============================================================================
// Wage Determination Diff - File Manager Utility
// =============================================================================
//
// This module provides file utilities for the comparison commands:
//   - Output directory management
//   - Output file naming from a format string
//   - Companion file paths (CSV, PDF, summary next to the workbook)
//   - Comparison summary log generation
//
// NAMING:
//   Output names come from the configured output_file_format, for example
//   "wage_comparison_{timestamp}". The extension is added when missing.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager places generated files in one output directory.
type FileManager struct {
	// OutputDir is the directory where output files are placed.
	OutputDir string

	// FileNameFormat is the output_file_format setting.
	FileNameFormat string
}

// NewFileManager creates a new FileManager.
func NewFileManager(outputDir, fileNameFormat string) *FileManager {
	return &FileManager{
		OutputDir:      outputDir,
		FileNameFormat: fileNameFormat,
	}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// OutputPath returns a generated file name inside OutputDir.
func (fm *FileManager) OutputPath(params map[string]string, extension string) string {
	return filepath.Join(fm.OutputDir, GenerateOutputFileName(fm.FileNameFormat, params, extension))
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands a name format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {time}      - Current time (HHMMSS)
//     {<key>}     - Any key of params, e.g. {old} and {new} labels
//   - params: A map of placeholder values.
//   - extension: Added unless the result already ends with it.
//
// EXAMPLE:
//
//	format: "{old}_to_{new}_{date}"
//	params: {"old": "r0", "new": "r1"}
//	output: "r0_to_r1_20240115.xlsx"
func GenerateOutputFileName(format string, params map[string]string, extension string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = sanitizeFileName(value)
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if extension != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(extension)) {
		result += extension
	}

	return result
}

// CompanionPath swaps the extension of path, e.g. out.xlsx -> out.csv.
// suffix is inserted before the new extension.
func CompanionPath(path, suffix, extension string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + suffix + extension
}

// sanitizeFileName replaces path separators and other characters that
// are not portable in file names.
func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}

// =============================================================================
// SUMMARY LOG GENERATION
// =============================================================================

// RevisionSummary describes one parsed input file.
type RevisionSummary struct {
	File              string
	Label             string
	Lines             int
	Records           int
	DroppedLines      int
	PendingOverwrites int
}

// ComparisonSummary contains the information for one comparison run.
type ComparisonSummary struct {
	StartTime time.Time
	EndTime   time.Time

	Old RevisionSummary
	New RevisionSummary

	Added    int
	Removed  int
	Modified int

	// Outputs lists every file the run wrote, workbook first.
	Outputs []string
}

// WriteSummaryLog writes a comparison summary to summaryPath.
func WriteSummaryLog(summary ComparisonSummary, summaryPath string) error {
	file, err := os.Create(summaryPath)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	header := fmt.Sprintf("Wage Determination Diff - Comparison Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String())
	writer.WriteString(header)

	for _, rev := range []struct {
		title string
		info  RevisionSummary
	}{{"Old Revision", summary.Old}, {"New Revision", summary.New}} {
		writer.WriteString(rev.title + ":\n")
		writer.WriteString(fmt.Sprintf("  File:               %s\n", rev.info.File))
		writer.WriteString(fmt.Sprintf("  Label:              %s\n", rev.info.Label))
		writer.WriteString(fmt.Sprintf("  Lines:              %d\n", rev.info.Lines))
		writer.WriteString(fmt.Sprintf("  Records:            %d\n", rev.info.Records))
		writer.WriteString(fmt.Sprintf("  Dropped Lines:      %d\n", rev.info.DroppedLines))
		writer.WriteString(fmt.Sprintf("  Pending Overwrites: %d\n\n", rev.info.PendingOverwrites))
	}

	changes := fmt.Sprintf("Changes:\n"+
		"  Added:    %d\n"+
		"  Removed:  %d\n"+
		"  Modified: %d\n\n",
		summary.Added,
		summary.Removed,
		summary.Modified)
	writer.WriteString(changes)

	if len(summary.Outputs) > 0 {
		writer.WriteString("Output Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, out := range summary.Outputs {
			writer.WriteString(fmt.Sprintf("  %s\n", out))
		}
		writer.WriteString("\n")
	}

	footer := "================================================================================\n" +
		"End of Summary\n"
	writer.WriteString(footer)

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush summary file: %w", err)
	}

	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// GetFileModTime returns the modification time of a file.
func GetFileModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
