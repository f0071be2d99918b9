package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("{old}_to_{new}", map[string]string{"old": "r0", "new": "r1"}, ".xlsx")
	assert.Equal(t, "r0_to_r1.xlsx", name)

	name = GenerateOutputFileName("keep.xlsx", nil, ".xlsx")
	assert.Equal(t, "keep.xlsx", name)

	name = GenerateOutputFileName("wage_comparison_{timestamp}", nil, ".xlsx")
	assert.Regexp(t, regexp.MustCompile(`^wage_comparison_\d{8}_\d{6}\.xlsx$`), name)

	name = GenerateOutputFileName("{uuid}", nil, "")
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`), name)

	name = GenerateOutputFileName("{old}", map[string]string{"old": "a/b:c"}, ".csv")
	assert.Equal(t, "a_b_c.csv", name)
}

func TestCompanionPath(t *testing.T) {
	assert.Equal(t, "out/cmp.csv", CompanionPath("out/cmp.xlsx", "", ".csv"))
	assert.Equal(t, "out/cmp_r0.csv", CompanionPath("out/cmp.xlsx", "_r0", ".csv"))
	assert.Equal(t, "cmp_summary.txt", CompanionPath("cmp", "_summary", ".txt"))
}

func TestFileManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	fm := NewFileManager(dir, "{old}_{new}")

	require.NoError(t, fm.EnsureDirectories())
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "r1_r2.xlsx"), fm.OutputPath(map[string]string{"old": "r1", "new": "r2"}, ".xlsx"))
}

func TestWriteSummaryLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.txt")
	start := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	err := WriteSummaryLog(ComparisonSummary{
		StartTime: start,
		EndTime:   start.Add(1500 * time.Millisecond),
		Old:       RevisionSummary{File: "OH1.r0.txt", Label: "r0", Records: 10, DroppedLines: 1},
		New:       RevisionSummary{File: "OH1.r1.txt", Label: "r1", Records: 11},
		Added:     1,
		Modified:  2,
		Outputs:   []string{"out/cmp.xlsx"},
	}, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Duration:       1.5s")
	assert.Contains(t, text, "File:               OH1.r0.txt")
	assert.Contains(t, text, "Dropped Lines:      1")
	assert.Contains(t, text, "Modified: 2")
	assert.Contains(t, text, "  out/cmp.xlsx\n")
}

func TestGetFileModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	when := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, when, when))

	got, err := GetFileModTime(path)
	require.NoError(t, err)
	assert.True(t, got.Equal(when))

	_, err = GetFileModTime(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
