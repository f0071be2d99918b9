package workbook

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/wagediff/internal/types"
)

func sampleTables() (*types.RecordTable, *types.RecordTable) {
	oldTable := &types.RecordTable{Label: "r0", Records: []types.WageRecord{
		{Code: "OH1-001", WDDate: "01/05/2024", Job: "Electrician", Rate: "25.00", Fringe: "5.00"},
		{Code: "OH1-001", WDDate: "01/05/2024", Job: "Laborer", Rate: "1040.50", Fringe: "8.00"},
	}}
	newTable := &types.RecordTable{Label: "r1", Records: []types.WageRecord{
		{Code: "OH1-001", WDDate: "02/01/2024", Job: "Electrician", Rate: "26.00", Fringe: "5.00"},
	}}
	return oldTable, newTable
}

func TestCurrencyColumns(t *testing.T) {
	assert.Equal(t, []int{4, 5}, CurrencyColumns(types.RecordColumns))
	assert.Equal(t, []int{3, 4, 5, 6}, CurrencyColumns([]string{"Job", "Job_Subclass", "Change_Type", "Rate_r0", "Rate_r1", "Fringe_r0", "Fringe_r1"}))
	assert.Empty(t, CurrencyColumns([]string{"rate", "Job"}))
}

func TestComparisonSheets_OmitsEmptyChanges(t *testing.T) {
	oldTable, newTable := sampleTables()

	sheets := ComparisonSheets(oldTable, newTable, &types.ChangeTable{OldLabel: "r0", NewLabel: "r1"}, "Changes")
	require.Len(t, sheets, 2)
	assert.Equal(t, "r0", sheets[0].Name)
	assert.Equal(t, "r1", sheets[1].Name)

	changes := &types.ChangeTable{OldLabel: "r0", NewLabel: "r1", Changes: []types.ChangeRecord{
		{Job: "Laborer", ChangeType: types.ChangeRemoved, OldRate: "1040.50", OldFringe: "8.00"},
	}}
	sheets = ComparisonSheets(oldTable, newTable, changes, "Changes")
	require.Len(t, sheets, 3)
	assert.Equal(t, "Changes", sheets[2].Name)
}

func TestWrite_RoundTrip(t *testing.T) {
	oldTable, newTable := sampleTables()
	changes := &types.ChangeTable{OldLabel: "r0", NewLabel: "r1", Changes: []types.ChangeRecord{
		{Job: "Electrician", ChangeType: types.ChangeModified, OldRate: "25.00", NewRate: "26.00", OldFringe: "5.00", NewFringe: "5.00"},
		{Job: "Laborer", ChangeType: types.ChangeRemoved, OldRate: "1040.50", OldFringe: "8.00"},
	}}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Write(path, ComparisonSheets(oldTable, newTable, changes, "Changes"), Options{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"r0", "r1", "Changes"}, f.GetSheetList())

	rows, err := f.GetRows("r0", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, types.RecordColumns, rows[0])
	assert.Equal(t, "Electrician", rows[1][2])
	assert.Equal(t, "25", rows[1][4])
	assert.Equal(t, "1040.5", rows[2][4])

	rows, err = f.GetRows("Changes", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Job", "Job_Subclass", "Change_Type", "Rate_r0", "Rate_r1", "Fringe_r0", "Fringe_r1"}, rows[0])
	assert.Equal(t, "Removed", rows[2][2])

	newRate, err := f.GetCellValue("Changes", "E3")
	require.NoError(t, err)
	assert.Equal(t, "", newRate, "missing side stays blank")
}

func TestWrite_Styling(t *testing.T) {
	oldTable, newTable := sampleTables()

	f, err := Build(ComparisonSheets(oldTable, newTable, &types.ChangeTable{}, "Changes"), Options{})
	require.NoError(t, err)
	defer f.Close()

	headerStyleID, err := f.GetCellStyle("r0", "A1")
	require.NoError(t, err)
	headerStyle, err := f.GetStyle(headerStyleID)
	require.NoError(t, err)
	require.NotNil(t, headerStyle.Font)
	assert.True(t, headerStyle.Font.Bold)

	rateStyleID, err := f.GetCellStyle("r0", "E2")
	require.NoError(t, err)
	rateStyle, err := f.GetStyle(rateStyleID)
	require.NoError(t, err)
	require.NotNil(t, rateStyle.CustomNumFmt)
	assert.Equal(t, DefaultCurrencyFormat, *rateStyle.CustomNumFmt)

	// "Electrician" is the longest Job value: 11 + 2.
	width, err := f.GetColWidth("r0", "C")
	require.NoError(t, err)
	assert.Equal(t, 13.0, width)
}

func TestWrite_HeaderOnlySheetIsUnstyled(t *testing.T) {
	empty := &types.RecordTable{Label: "Version_1"}

	f, err := Build([]Sheet{RecordSheet(empty)}, Options{})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Version_1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.RecordColumns, rows[0])

	styleID, err := f.GetCellStyle("Version_1", "A1")
	require.NoError(t, err)
	assert.Equal(t, 0, styleID)
}

func TestWrite_UnparsableAmountStaysText(t *testing.T) {
	sheet := Sheet{
		Name:    "odd",
		Columns: []string{"Job", "Rate"},
		Rows:    [][]string{{"Diver", "n/a"}},
	}

	f, err := Build([]Sheet{sheet}, Options{})
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue("odd", "B2")
	require.NoError(t, err)
	assert.Equal(t, "n/a", value)
}

func TestBuild_NoSheets(t *testing.T) {
	_, err := Build(nil, Options{})
	assert.ErrorIs(t, err, ErrNoSheets)
}

func TestBuild_SheetNamesDifferingOnlyInCase(t *testing.T) {
	for _, names := range [][]string{{"R1", "r1"}, {"v", "V"}, {"r2", "CHANGES", "changes"}} {
		t.Run(strings.Join(names, "_"), func(t *testing.T) {
			sheets := make([]Sheet, len(names))
			for i, name := range names {
				sheets[i] = Sheet{Name: name, Columns: []string{"Job"}, Rows: [][]string{{"Laborer"}}}
			}
			_, err := Build(sheets, Options{})
			assert.ErrorIs(t, err, ErrDuplicateSheet)
		})
	}
}
