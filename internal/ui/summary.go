package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// SummaryStats are the counters shown after a check run.
type SummaryStats struct {
	Files    int
	Cached   int
	Literals int
	Invalid  int
	Errors   int
}

// Summary renders the closing line of `constlit check`. Styling is dropped
// when color is false.
func Summary(s SummaryStats, color bool) string {
	text := fmt.Sprintf("%d files (%d cached), %d constant literals, %d invalid, %d errors",
		s.Files, s.Cached, s.Literals, s.Invalid, s.Errors)
	if !color {
		return text
	}
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	if s.Invalid > 0 || s.Errors > 0 {
		style = style.Foreground(lipgloss.Color("1"))
	}
	return style.Render(text)
}
