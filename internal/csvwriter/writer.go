// Package csvwriter writes record and change tables as CSV.
//
// Record tables use the csv struct tags on types.WageRecord. Change tables
// have a header that depends on the revision labels, so they are written
// row by row through the same gocsv writer.
package csvwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/ginjaninja78/wagediff/internal/types"
)

// WriteRecords writes the header row and every record of table.
func WriteRecords(w io.Writer, table *types.RecordTable) error {
	records := make([]types.WageRecord, 0, table.Len())
	if table != nil {
		records = append(records, table.Records...)
	}

	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// WriteChanges writes the change table with its label-specific header.
// An empty table still produces the header row.
func WriteChanges(w io.Writer, table *types.ChangeTable) error {
	out := gocsv.NewSafeCSVWriter(csv.NewWriter(w))

	if err := out.Write(table.Columns()); err != nil {
		return fmt.Errorf("failed to write change header: %w", err)
	}
	for _, row := range table.Rows() {
		if err := out.Write(row); err != nil {
			return fmt.Errorf("failed to write change row: %w", err)
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("failed to flush changes: %w", err)
	}
	return nil
}

// WriteRecordsFile writes table to a new file at path.
func WriteRecordsFile(path string, table *types.RecordTable) error {
	return writeFile(path, func(w io.Writer) error { return WriteRecords(w, table) })
}

// WriteChangesFile writes table to a new file at path.
func WriteChangesFile(path string, table *types.ChangeTable) error {
	return writeFile(path, func(w io.Writer) error { return WriteChanges(w, table) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file: %w", err)
	}
	return nil
}
