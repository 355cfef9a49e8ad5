package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// styles are the terminal styles for diagnostics written to stderr.
type styles struct {
	Key     lipgloss.Style
	Dim     lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// newStyles builds styles for w. Colors are dropped when w is not a
// terminal or NO_COLOR is set (https://no-color.org/).
func newStyles(w io.Writer) styles {
	if os.Getenv("NO_COLOR") != "" {
		return styles{
			Key:     lipgloss.NewStyle(),
			Dim:     lipgloss.NewStyle(),
			Success: lipgloss.NewStyle(),
			Warning: lipgloss.NewStyle(),
			Error:   lipgloss.NewStyle(),
		}
	}

	r := lipgloss.NewRenderer(w)
	return styles{
		Key:     r.NewStyle().Foreground(lipgloss.Color("6")), // Cyan
		Dim:     r.NewStyle().Foreground(lipgloss.Color("8")), // Gray
		Success: r.NewStyle().Foreground(lipgloss.Color("2")), // Green
		Warning: r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		Error:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}
