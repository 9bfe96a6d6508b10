package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// Cells carry padding only, so output piped to a file stays free of
// escape codes.
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// newTable returns a table with a rule under the header and no column
// separators.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle })
}

func printTable(w io.Writer, t *table.Table) {
	fmt.Fprintln(w, t.String())
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func checkMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
