package ui

import (
	"fmt"
	"strings"

	"github.com/eddmann/kitmeta/internal/index"
	"github.com/eddmann/kitmeta/internal/snippet"
	"github.com/eddmann/kitmeta/internal/theme"
)

// ThemeReport renders a theme validation result for the terminal
func (p Printer) ThemeReport(path string, res theme.ValidationResult, appearance, opacity string) string {
	var b strings.Builder

	status := SymbolOK + " valid"
	if !res.Valid {
		status = SymbolMissing + " invalid"
	}
	fmt.Fprintf(&b, "%s %s\n", p.Bold(path), status)

	if appearance == "" {
		appearance = "(unset)"
	}
	fmt.Fprintf(&b, "  %s %s\n", p.Muted("appearance:"), appearance)
	fmt.Fprintf(&b, "  %s %s\n", p.Muted("opacity:"), opacity)

	if len(res.Missing) > 0 {
		b.WriteString("\n  Missing required variables:\n")
		for _, v := range res.Missing {
			fmt.Fprintf(&b, "    %s %s\n", SymbolMissing, p.Accent(string(v)))
		}
	}
	if len(res.Warnings) > 0 {
		b.WriteString("\n  Warnings:\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "    %s %s\n", SymbolWarning, w)
		}
	}
	return b.String()
}

// ScriptList renders indexed scripts one per line: command, name, trigger
// details and the script path
func (p Printer) ScriptList(entries []index.Entry) string {
	if len(entries) == 0 {
		return "  (none)\n"
	}

	width := 0
	for _, e := range entries {
		if len(e.Command) > width {
			width = len(e.Command)
		}
	}

	var b strings.Builder
	for _, e := range entries {
		md := e.Metadata
		line := fmt.Sprintf("  %-*s", width, e.Command)
		line = p.Accent(line)

		var details []string
		if md.Name != "" {
			details = append(details, md.Name)
		}
		details = append(details, "["+string(md.Type)+"]")
		if md.FriendlyShortcut != "" {
			details = append(details, md.FriendlyShortcut)
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", line, strings.Join(details, " "), p.Muted(e.Path))
	}
	return b.String()
}

// SnippetList renders snippets as trigger and first body line
func (p Printer) SnippetList(snippets []snippet.Snippet) string {
	if len(snippets) == 0 {
		return "  (none)\n"
	}

	var b strings.Builder
	for _, s := range snippets {
		trigger := s.Expand
		if s.Postfix {
			trigger = "*" + trigger
		}
		if trigger == "" {
			trigger = "(no trigger)"
		}
		first, _, _ := strings.Cut(s.Text, "\n")
		fmt.Fprintf(&b, "  %s  %s  %s\n", p.Accent(trigger), first, p.Muted(s.FilePath))
	}
	return b.String()
}
