package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, dir, name, body string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	oldPath := writeInput(t, dir, "OH1.r0.txt", "* OH1-001 01/05/2024\nElectrician..........$ 25.00 5.00\n", base)
	newPath := writeInput(t, dir, "OH1.r1.txt", "* OH1-001 02/01/2024\nElectrician..........$ 26.00 5.00\n", base.Add(time.Hour))
	outPath := filepath.Join(dir, "out", "cmp.xlsx")

	out, err := execute(t, "compare", newPath, oldPath,
		"--config", filepath.Join(dir, "none.yaml"),
		"--out", outPath,
		"--csv")
	require.NoError(t, err)

	assert.Contains(t, out, "Old:           OH1.r0.txt (r0, 1 records)")
	assert.Contains(t, out, "Changes:       0 added, 0 removed, 1 modified")
	assert.FileExists(t, outPath)
	assert.FileExists(t, filepath.Join(dir, "out", "cmp_changes.csv"))
}

func TestCompareCommand_InvalidOrder(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "compare", "a.txt", "b.txt", "--config", filepath.Join(dir, "none.yaml"), "--order", "size")
	assert.ErrorContains(t, err, "invalid --order")
}

func TestCompareCommand_WrongArgCount(t *testing.T) {
	_, err := execute(t, "compare", "only-one.txt")
	assert.Error(t, err)
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "OH1.r2.txt", "Diver..........$ 40.00 9.00\n", time.Now())
	outPath := filepath.Join(dir, "diver.csv")

	out, err := execute(t, "extract", input,
		"--config", filepath.Join(dir, "none.yaml"),
		"--out", outPath,
		"--format", "csv",
		"--lint")
	require.NoError(t, err)

	assert.Contains(t, out, "Records:       1")
	assert.Contains(t, out, "0 error(s), 2 warning(s)")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "Code,WD_Date,Job,Job_Subclass,Rate,Fringe\n,,Diver,,40.00,9.00\n", string(data))
}

func TestExtractCommand_LintStrict(t *testing.T) {
	t.Cleanup(func() { extractLintStrict = false })

	dir := t.TempDir()
	input := writeInput(t, dir, "OH1.r2.txt", "Diver..........$ 40.00 9.00\n", time.Now())
	outPath := filepath.Join(dir, "diver.xlsx")

	out, err := execute(t, "extract", input,
		"--config", filepath.Join(dir, "none.yaml"),
		"--out", outPath,
		"--format", "xlsx",
		"--lint-strict")
	assert.ErrorContains(t, err, "lint failed")

	assert.Contains(t, out, "0 error(s), 2 warning(s)")
	assert.FileExists(t, outPath)
	assert.FileExists(t, filepath.Join(dir, "diver_lint.txt"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    "+Version)
}
