package editor

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	success lipgloss.Style
	cancel  lipgloss.Style
	failure lipgloss.Style
}

// newStyles renders for w, so output that is not a terminal stays plain.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		success: r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		cancel:  r.NewStyle().Foreground(lipgloss.Color("220")),
		failure: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// status prints a styled headline, plain detail lines and a blank line.
func (e *Editor) status(style lipgloss.Style, headline string, details ...string) {
	e.console.Println(style.Render(headline))
	for _, d := range details {
		e.console.Println(d)
	}
	e.console.Println()
}
