package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SummaryRow is one labeled count in a run summary.
type SummaryRow struct {
	Label string
	Count int
}

var (
	summaryBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	summaryTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6"))
	summaryLabel = lipgloss.NewStyle().
			Width(18)
	summaryZero = lipgloss.NewStyle().
			Faint(true)
)

// RenderSummary renders a bordered end-of-run summary block. Rows with a
// zero count are dimmed rather than dropped so runs stay comparable.
func RenderSummary(title string, rows []SummaryRow) string {
	lines := []string{summaryTitle.Render(title)}
	for _, row := range rows {
		line := fmt.Sprintf("%s%d", summaryLabel.Render(row.Label), row.Count)
		if row.Count == 0 {
			line = summaryZero.Render(line)
		}
		lines = append(lines, line)
	}
	return summaryBorder.Render(strings.Join(lines, "\n"))
}
