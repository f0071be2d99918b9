package wdparser

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDetermination = `General Decision Number: OH20240001 01/05/2024

* OH20240001-001 01/05/2024

                                  Rates Fringes
Asbestos worker..........$ 35.10 21.40
ELECTRICIANS
Electricians.......................$ 38.50 22.75
Low voltage wiring.................$ 31.20  9.85
----------------------------------------------------------------
Power equipment operator,
including cranes...................$ 1,040.00 15.00
Painter (Brush).....................$ 22.00 20%
Laborer..............................$ 20.00 8.00

OH20240001-002 02/01/2024
Laborer..............................$ 21.00 8.00
`

func TestParse_Sample(t *testing.T) {
	result, err := Parse(strings.NewReader(sampleDetermination), Options{Label: "r1"})
	require.NoError(t, err)

	table := result.Table
	assert.Equal(t, "r1", table.Label)
	require.Len(t, table.Records, 6)

	assert.Equal(t, "Asbestos worker", table.Records[0].Job)
	assert.Equal(t, "OH20240001-001", table.Records[0].Code)
	assert.Equal(t, "35.10", table.Records[0].Rate)

	assert.Equal(t, "Electricians", table.Records[1].Job)
	assert.Equal(t, "", table.Records[1].JobSubclass)

	assert.Equal(t, "ELECTRICIANS", table.Records[2].Job)
	assert.Equal(t, "Low voltage wiring", table.Records[2].JobSubclass)
	assert.Equal(t, "9.85", table.Records[2].Fringe)

	assert.Equal(t, "Power equipment operator, including cranes", table.Records[3].Job)
	assert.Equal(t, "1040.00", table.Records[3].Rate)

	assert.Equal(t, "Laborer", table.Records[4].Job)
	assert.Equal(t, "OH20240001-001", table.Records[4].Code)

	assert.Equal(t, "Laborer", table.Records[5].Job)
	assert.Equal(t, "OH20240001-002", table.Records[5].Code)
	assert.Equal(t, "02/01/2024", table.Records[5].WDDate)

	assert.Equal(t, 1, result.Stats.Dropped)
}

func TestParse_Empty(t *testing.T) {
	result, err := Parse(strings.NewReader(""), Options{})
	require.NoError(t, err)

	assert.NotNil(t, result.Table.Records)
	assert.Equal(t, 0, result.Table.Len())
}

func TestParse_LineEndings(t *testing.T) {
	for name, sep := range map[string]string{"lf": "\n", "crlf": "\r\n", "cr": "\r"} {
		t.Run(name, func(t *testing.T) {
			input := strings.Join([]string{
				"OH20240001-001 01/05/2024",
				"Power equipment operator,",
				"including cranes.......$ 40.00 15.00",
			}, sep)

			result, err := Parse(strings.NewReader(input), Options{})
			require.NoError(t, err)
			require.Len(t, result.Table.Records, 1)
			assert.Equal(t, "Power equipment operator, including cranes", result.Table.Records[0].Job)
			assert.Equal(t, "OH20240001-001", result.Table.Records[0].Code)
		})
	}
}

func TestParse_ByteOrderMark(t *testing.T) {
	input := "\ufeffOH20240001-001 01/05/2024\nLaborer.......$ 20.00 8.00\n"

	result, err := Parse(strings.NewReader(input), Options{})
	require.NoError(t, err)
	require.Len(t, result.Table.Records, 1)
	assert.Equal(t, "OH20240001-001", result.Table.Records[0].Code)
}

func TestParse_Encoding(t *testing.T) {
	// 0x96 is an en dash in Windows-1252 and invalid on its own in UTF-8.
	input := "Carpenter \x96 Rough.......$ 28.00 10.00\n"

	t.Run("utf-8 drops invalid bytes", func(t *testing.T) {
		result, err := Parse(strings.NewReader(input), Options{})
		require.NoError(t, err)
		require.Len(t, result.Table.Records, 1)
		assert.Equal(t, "Carpenter  Rough", result.Table.Records[0].Job)
	})

	t.Run("windows-1252 decodes", func(t *testing.T) {
		result, err := Parse(strings.NewReader(input), Options{Encoding: "windows-1252"})
		require.NoError(t, err)
		require.Len(t, result.Table.Records, 1)
		assert.Equal(t, "Carpenter – Rough", result.Table.Records[0].Job)
	})

	t.Run("unknown encoding", func(t *testing.T) {
		_, err := Parse(strings.NewReader(input), Options{Encoding: "klingon"})
		assert.True(t, errors.Is(err, ErrUnsupportedEncoding))
	})
}

func TestParse_RoundTripsAmounts(t *testing.T) {
	amounts := []struct{ rate, fringe, wantRate, wantFringe string }{
		{"0.01", "0.00", "0.01", "0.00"},
		{"25.00", "5.00", "25.00", "5.00"},
		{"1,234.56", "7,890.12", "1234.56", "7890.12"},
		{"1,000,000.99", "10.10", "1000000.99", "10.10"},
	}

	for _, a := range amounts {
		t.Run(a.rate, func(t *testing.T) {
			line := "Job title..........$ " + a.rate + " " + a.fringe
			result, err := Parse(strings.NewReader(line), Options{})
			require.NoError(t, err)
			require.Len(t, result.Table.Records, 1)
			assert.Equal(t, a.wantRate, result.Table.Records[0].Rate)
			assert.Equal(t, a.wantFringe, result.Table.Records[0].Fringe)
		})
	}
}

func TestParseFile(t *testing.T) {
	t.Run("reads file and records source", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wages.r2.txt")
		require.NoError(t, os.WriteFile(path, []byte(sampleDetermination), 0644))

		result, err := ParseFile(path, Options{Label: "r2"})
		require.NoError(t, err)
		assert.Equal(t, path, result.Table.SourceFile)
		assert.Equal(t, "r2", result.Table.Label)
		assert.Len(t, result.Table.Records, 6)
	})

	t.Run("missing file fails", func(t *testing.T) {
		result, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt"), Options{})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestScanAnyLines(t *testing.T) {
	adv, tok, err := scanAnyLines([]byte("abc\r"), false)
	require.NoError(t, err)
	assert.Equal(t, 0, adv, "bare trailing CR must wait for more input")
	assert.Nil(t, tok)

	adv, tok, err = scanAnyLines([]byte("abc\r"), true)
	require.NoError(t, err)
	assert.Equal(t, 4, adv)
	assert.Equal(t, "abc", string(tok))

	adv, tok, err = scanAnyLines([]byte("abc\r\ndef"), false)
	require.NoError(t, err)
	assert.Equal(t, 5, adv)
	assert.Equal(t, "abc", string(tok))
}

func TestLineSplitter_SkipsOversizedLines(t *testing.T) {
	input := "short\n" + strings.Repeat("x", 40) + "\r\nnext\r" + strings.Repeat("y", 30)

	splitter := &lineSplitter{max: 16}
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 4), 16)
	scanner.Split(splitter.split)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())

	assert.Equal(t, []string{"short", "next"}, lines)
	assert.Equal(t, 2, splitter.oversized)
}

func TestParse_OversizedLineIsSkipped(t *testing.T) {
	input := "* OH1-001 01/05/2024\n" +
		strings.Repeat("x", maxLineBytes+100) + "\n" +
		"Electrician..........$ 25.00 5.00\n"

	result, err := Parse(strings.NewReader(input), Options{Label: "r1"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Oversized)
	require.Equal(t, 1, result.Table.Len())
	assert.Equal(t, "Electrician", result.Table.Records[0].Job)
	assert.Equal(t, "OH1-001", result.Table.Records[0].Code)
}
