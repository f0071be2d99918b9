// Package revision names and orders the two files of a comparison.
package revision

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ginjaninja78/wagediff/pkg/utils"
)

var labelPattern = regexp.MustCompile(`(?i)\.(r\d+)\.txt$`)

// OrderRule decides which of two files is the older revision.
type OrderRule string

const (
	// OrderByModTime puts the least recently modified file first.
	OrderByModTime OrderRule = "mtime"

	// OrderByName sorts on the base file name.
	OrderByName OrderRule = "name"
)

// Valid reports whether r is a known rule.
func (r OrderRule) Valid() bool {
	return r == OrderByModTime || r == OrderByName
}

// LabelFor extracts "r3" from "wages.r3.txt". Names without the
// ".r<digits>.txt" suffix return fallback unchanged.
func LabelFor(path, fallback string) string {
	m := labelPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return fallback
	}
	return m[1]
}

// Disambiguate keeps two labels distinct from each other and from every
// reserved name so they can name separate sheets and columns. Sheet names
// compare case-insensitively, so "R1" and "r1" collide.
func Disambiguate(oldLabel, newLabel string, reserved ...string) (string, string) {
	oldLabel = Avoid(oldLabel, reserved...)
	taken := append(append([]string(nil), reserved...), oldLabel)
	return oldLabel, Avoid(newLabel, taken...)
}

// Avoid returns label, or label suffixed "_2", "_3", ... when it equals
// one of taken ignoring case.
func Avoid(label string, taken ...string) string {
	candidate := label
	for n := 2; collides(candidate, taken); n++ {
		candidate = fmt.Sprintf("%s_%d", label, n)
	}
	return candidate
}

func collides(label string, taken []string) bool {
	for _, name := range taken {
		if strings.EqualFold(label, name) {
			return true
		}
	}
	return false
}

// Order returns paths sorted oldest revision first. Ties keep the
// argument order. OrderByModTime stats every file and fails if one is
// unreadable.
func Order(paths []string, rule OrderRule) ([]string, error) {
	ordered := make([]string, len(paths))
	copy(ordered, paths)

	switch rule {
	case OrderByName:
		sort.SliceStable(ordered, func(i, j int) bool {
			return filepath.Base(ordered[i]) < filepath.Base(ordered[j])
		})
		return ordered, nil

	case OrderByModTime, "":
		modTimes := make(map[string]int64, len(ordered))
		for _, p := range ordered {
			modTime, err := utils.GetFileModTime(p)
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", p, err)
			}
			modTimes[p] = modTime.UnixNano()
		}
		sort.SliceStable(ordered, func(i, j int) bool {
			return modTimes[ordered[i]] < modTimes[ordered[j]]
		})
		return ordered, nil

	default:
		return nil, fmt.Errorf("unknown order rule %q", rule)
	}
}
