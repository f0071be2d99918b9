// =============================================================================
// Wage Determination Diff - Record Lint
// =============================================================================
//
// This module checks parsed wage records for values that look wrong. The
// parser keeps anything its line patterns match, so lint is advisory: it
// reports findings and never changes a table.
//
// CHECKS (per record):
//   - Job must not be empty                               (error)
//   - Code must match the header grammar, e.g. OH1-001    (warning)
//   - WD_Date must be a real MM/DD/YYYY date              (warning)
//   - Rate and Fringe must be decimals with 2 places      (warning)
//
// An empty Code or WD_Date means the record was emitted before any
// header line was seen.
//
// ERROR HANDLING:
//   - Findings are collected, not returned as a Go error
//   - Each finding carries the record row, field and value
//   - Findings are warnings (suspicious) or errors (unusable)
//
// =============================================================================

package validation

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/wagediff/internal/types"
)

// Finding severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]+-\d{3}$`)

// dateLayout is MM/DD/YYYY in Go reference-time form.
const dateLayout = "01/02/2006"

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError is a single lint finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the column name, e.g. "WD_Date".
	Field string

	// Value is the offending value.
	Value string

	// Rule names the check that failed.
	Rule string

	// Message is a human-readable description.
	Message string

	// Row is the 1-based record position in its table.
	Row int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Row %d, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.Row,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the findings for one table.
type ValidationResult struct {
	// Label is the label of the table that was checked.
	Label string

	// IsValid is true if there are no errors (warnings allowed).
	IsValid bool

	Errors []*ValidationError

	ErrorCount   int
	WarningCount int

	RecordsValidated int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// TreatWarningsAsErrors makes any warning mark the result invalid.
	TreatWarningsAsErrors bool
}

// Validator lints record tables.
type Validator struct {
	options ValidationOptions
}

// NewValidator creates a Validator with default options.
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithOptions creates a Validator with custom options.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// ValidateAll lints every record of table.
func (v *Validator) ValidateAll(table *types.RecordTable) *ValidationResult {
	result := &ValidationResult{
		IsValid: true,
		Errors:  make([]*ValidationError, 0),
	}
	if table == nil {
		return result
	}

	result.Label = table.Label
	result.RecordsValidated = len(table.Records)

	for i, record := range table.Records {
		for _, finding := range v.ValidateRecord(record, i+1) {
			result.Errors = append(result.Errors, finding)

			if finding.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false
				continue
			}

			result.WarningCount++
			if v.options.TreatWarningsAsErrors {
				result.IsValid = false
			}
		}
	}

	return result
}

// ValidateRecord lints one record. row is used for reporting only.
func (v *Validator) ValidateRecord(record types.WageRecord, row int) []*ValidationError {
	var findings []*ValidationError

	add := func(severity, field, value, rule, message string) {
		findings = append(findings, &ValidationError{
			Severity: severity,
			Field:    field,
			Value:    value,
			Rule:     rule,
			Message:  message,
			Row:      row,
		})
	}

	if strings.TrimSpace(record.Job) == "" {
		add(SeverityError, "Job", record.Job, "required", "Job title is empty")
	}

	if msg := validateCode(record.Code); msg != "" {
		add(SeverityWarning, "Code", record.Code, "code", msg)
	}
	if msg := validateDate(record.WDDate); msg != "" {
		add(SeverityWarning, "WD_Date", record.WDDate, "date", msg)
	}
	if msg := validateAmount(record.Rate); msg != "" {
		add(SeverityWarning, "Rate", record.Rate, "decimal(2)", msg)
	}
	if msg := validateAmount(record.Fringe); msg != "" {
		add(SeverityWarning, "Fringe", record.Fringe, "decimal(2)", msg)
	}

	return findings
}

// =============================================================================
// FIELD CHECKS
// =============================================================================

func validateCode(value string) string {
	if value == "" {
		return "No determination header precedes this record"
	}
	if !codePattern.MatchString(value) {
		return fmt.Sprintf("Value '%s' is not a determination code", value)
	}
	return ""
}

func validateDate(value string) string {
	if value == "" {
		return "No determination header precedes this record"
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return fmt.Sprintf("Value '%s' is not a valid MM/DD/YYYY date", value)
	}
	return ""
}

// validateAmount accepts non-negative decimals with exactly two places.
func validateAmount(value string) string {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Sprintf("Value '%s' is not a valid decimal number", value)
	}
	if d.IsNegative() {
		return fmt.Sprintf("Value '%s' is negative", value)
	}
	if d.Exponent() != -2 {
		return fmt.Sprintf("Value '%s' does not have exactly 2 decimal places", value)
	}
	return ""
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats findings for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes the findings of result to filePath.
func WriteErrorLog(result *ValidationResult, filePath string) error {
	var builder strings.Builder

	builder.WriteString("=============================================================================\n")
	builder.WriteString("RECORD LINT LOG\n")
	builder.WriteString("=============================================================================\n\n")
	builder.WriteString(fmt.Sprintf("Timestamp: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	builder.WriteString(fmt.Sprintf("Table: %s\n", result.Label))
	builder.WriteString(fmt.Sprintf("Records: %d\n", result.RecordsValidated))
	builder.WriteString(fmt.Sprintf("Errors: %d, Warnings: %d\n\n", result.ErrorCount, result.WarningCount))
	builder.WriteString(FormatErrors(result.Errors))

	if err := os.WriteFile(filePath, []byte(builder.String()), 0644); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}
