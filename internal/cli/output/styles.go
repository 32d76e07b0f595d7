package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Key     lipgloss.Style
}

// NewStyles builds styles bound to w. Without a TTY every style renders
// as plain text.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if !isTTY {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Info:    r.NewStyle().Foreground(lipgloss.Color("14")),
		Key:     r.NewStyle().Foreground(lipgloss.Color("8")).Width(20),
	}
}
