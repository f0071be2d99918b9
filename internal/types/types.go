// =============================================================================
// Wage Determination Diff - Shared Types
// =============================================================================
//
// This package contains the record and change tables shared by the parser,
// the differ and every writer (workbook, CSV, PDF). Keeping them here avoids
// import cycles between those packages.
//
// COLUMN ORDER:
//   Record tables:  Code, WD_Date, Job, Job_Subclass, Rate, Fringe
//   Change tables:  Job, Job_Subclass, Change_Type,
//                   Rate_<old>, Rate_<new>, Fringe_<old>, Fringe_<new>
//
// =============================================================================

package types

// =============================================================================
// WAGE RECORDS
// =============================================================================

// RecordColumns is the column order of a record table.
var RecordColumns = []string{"Code", "WD_Date", "Job", "Job_Subclass", "Rate", "Fringe"}

// WageRecord is one rate line of a wage determination.
//
// Rate and Fringe are kept as text exactly as written in the source, minus
// thousands separators. WDDate is never parsed into a time.Time.
type WageRecord struct {
	// Code is the determination code from the last header line, e.g. "OH20240001-001".
	Code string `csv:"Code"`

	// WDDate is the MM/DD/YYYY date from the last header line.
	WDDate string `csv:"WD_Date"`

	// Job is the job title (or the active group title).
	Job string `csv:"Job"`

	// JobSubclass is the refinement of Job; may be empty.
	JobSubclass string `csv:"Job_Subclass"`

	// Rate is the hourly base rate, e.g. "25.00".
	Rate string `csv:"Rate"`

	// Fringe is the hourly fringe amount, e.g. "5.00".
	Fringe string `csv:"Fringe"`
}

// Key returns the (Job, Job_Subclass) pair used to join two revisions.
func (r WageRecord) Key() RecordKey {
	return RecordKey{Job: r.Job, JobSubclass: r.JobSubclass}
}

// Values returns the record fields in RecordColumns order.
func (r WageRecord) Values() []string {
	return []string{r.Code, r.WDDate, r.Job, r.JobSubclass, r.Rate, r.Fringe}
}

// RecordKey is the join key of the differ. Comparison is exact and case-sensitive.
type RecordKey struct {
	Job         string
	JobSubclass string
}

// RecordTable is the ordered result of parsing one file.
// Duplicate keys are legal and preserved.
type RecordTable struct {
	// Label is the revision label ("r3", "Version_1", ...). It names the sheet.
	Label string

	// SourceFile is the path the table was parsed from. Empty for in-memory input.
	SourceFile string

	// Records holds the records in the order they appear in the source text.
	Records []WageRecord
}

// Len returns the number of records.
func (t *RecordTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Append adds a record at the end of the table.
func (t *RecordTable) Append(r WageRecord) {
	t.Records = append(t.Records, r)
}

// Columns returns the header row of the table.
func (t *RecordTable) Columns() []string {
	cols := make([]string, len(RecordColumns))
	copy(cols, RecordColumns)
	return cols
}

// Rows returns the table body as strings, in Columns order.
func (t *RecordTable) Rows() [][]string {
	rows := make([][]string, 0, t.Len())
	if t == nil {
		return rows
	}
	for _, r := range t.Records {
		rows = append(rows, r.Values())
	}
	return rows
}

// =============================================================================
// CHANGE RECORDS
// =============================================================================

// ChangeType classifies a key in the diff.
type ChangeType string

const (
	ChangeAdded    ChangeType = "Added"
	ChangeRemoved  ChangeType = "Removed"
	ChangeModified ChangeType = "Modified"
)

// ChangeRecord is one row of the change table. The side a key is missing
// from has empty Rate/Fringe strings.
type ChangeRecord struct {
	Job         string
	JobSubclass string
	ChangeType  ChangeType
	OldRate     string
	NewRate     string
	OldFringe   string
	NewFringe   string
}

// Values returns the record fields in ChangeTable.Columns order.
func (c ChangeRecord) Values() []string {
	return []string{c.Job, c.JobSubclass, string(c.ChangeType), c.OldRate, c.NewRate, c.OldFringe, c.NewFringe}
}

// ChangeTable is the derived diff of two record tables.
type ChangeTable struct {
	// OldLabel and NewLabel suffix the Rate_/Fringe_ columns.
	OldLabel string
	NewLabel string

	Changes []ChangeRecord
}

// Len returns the number of change rows.
func (t *ChangeTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Changes)
}

// Empty reports whether the diff found no differences.
func (t *ChangeTable) Empty() bool {
	return t.Len() == 0
}

// Columns returns the header row, with revision-suffixed amount columns.
func (t *ChangeTable) Columns() []string {
	return []string{
		"Job",
		"Job_Subclass",
		"Change_Type",
		"Rate_" + t.OldLabel,
		"Rate_" + t.NewLabel,
		"Fringe_" + t.OldLabel,
		"Fringe_" + t.NewLabel,
	}
}

// Rows returns the table body as strings, in Columns order.
func (t *ChangeTable) Rows() [][]string {
	rows := make([][]string, 0, t.Len())
	if t == nil {
		return rows
	}
	for _, c := range t.Changes {
		rows = append(rows, c.Values())
	}
	return rows
}

// CountByType tallies change rows per ChangeType.
func (t *ChangeTable) CountByType() map[ChangeType]int {
	counts := make(map[ChangeType]int, 3)
	if t == nil {
		return counts
	}
	for _, c := range t.Changes {
		counts[c.ChangeType]++
	}
	return counts
}
