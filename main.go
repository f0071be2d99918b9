// =============================================================================
// Wage Determination Diff - Main Entry Point
// =============================================================================
//
// USAGE:
//   wagediff compare OLD NEW   - Compare two revisions and write a workbook
//   wagediff extract FILE      - Write the records of one revision
//   wagediff version           - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Parsing, diffing and output writers
//   - pkg/       : Shared file utilities
//   - magefiles/ : Build targets (mage)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/wagediff/cmd"
)

func main() {
	cmd.Execute()
}
