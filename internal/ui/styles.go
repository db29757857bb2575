package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette follows the kit menu: accent for names and triggers, muted
// for paths and secondary info, symbols instead of colored status words
var (
	// Accent style for script names, shortcuts, variable names
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	// Muted style for paths and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for headings
	Bold = lipgloss.NewStyle().Bold(true)
)

const (
	SymbolOK      = "✓"
	SymbolMissing = "✗"
	SymbolWarning = "!"
)

// ColorEnabled reports whether styled output should be written to w.
// Only terminals get styles; NO_COLOR disables them everywhere
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer renders text with or without styles
type Printer struct {
	Color bool
}

// NewPrinter returns a Printer that styles output only when w is a terminal
func NewPrinter(w io.Writer) Printer {
	return Printer{Color: ColorEnabled(w)}
}

func (p Printer) render(style lipgloss.Style, s string) string {
	if !p.Color {
		return s
	}
	return style.Render(s)
}

// Accent renders s with the accent style
func (p Printer) Accent(s string) string { return p.render(Accent, s) }

// Muted renders s with the muted style
func (p Printer) Muted(s string) string { return p.render(Muted, s) }

// Bold renders s in bold
func (p Printer) Bold(s string) string { return p.render(Bold, s) }
