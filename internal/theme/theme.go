// Package theme reads and checks the CSS custom properties that make up a
// theme
package theme

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/eddmann/kitmeta/internal/platform"
)

// DefaultOpacity is used when a theme has no --opacity-<platform> variable
const DefaultOpacity = "0.5"

// Variable is a CSS custom property name, including the leading "--"
type Variable string

// RequiredVariables must all appear in a valid theme
var RequiredVariables = []Variable{
	"--appearance",
	"--color-text",
	"--color-primary",
	"--color-secondary",
	"--color-background",
}

// RecommendedVariables only produce warnings when absent
var RecommendedVariables = []Variable{
	"--opacity-mac",
	"--opacity-win",
	"--opacity-other",
	"--ui-bg-opacity",
	"--ui-border-opacity",
	"--mono-font",
}

var (
	appearanceRegex = regexp.MustCompile(`--appearance:\s*(\w+)`)
	rootRegex       = regexp.MustCompile(`:root\s*\{`)
)

// ValidationResult reports missing required variables and non-blocking
// warnings
type ValidationResult struct {
	Valid    bool       `json:"valid" yaml:"valid"`
	Missing  []Variable `json:"missing" yaml:"missing"`
	Warnings []string   `json:"warnings" yaml:"warnings"`
}

// ResolveOpacity returns the value of --opacity-<platform>, or
// DefaultOpacity
func ResolveOpacity(css string, p platform.Platform) string {
	re, err := regexp.Compile(`--opacity-` + regexp.QuoteMeta(string(p)) + `:\s*([\d.]+)`)
	if err != nil {
		return DefaultOpacity
	}
	if m := re.FindStringSubmatch(css); m != nil {
		return m[1]
	}
	return DefaultOpacity
}

// ExtractAppearance returns "light" or "dark", or "" for anything else
func ExtractAppearance(css string) string {
	m := appearanceRegex.FindStringSubmatch(css)
	if m == nil {
		return ""
	}
	switch m[1] {
	case "light", "dark":
		return m[1]
	}
	return ""
}

// ExtractCSSVariable returns the value of variable, preferring a quoted
// value and falling back to the unquoted text up to ";"
func ExtractCSSVariable(css string, variable Variable) (string, bool) {
	name := regexp.QuoteMeta(string(variable))

	quoted := regexp.MustCompile(name + `:\s*"([^"]*)"`)
	if m := quoted.FindStringSubmatch(css); m != nil {
		return m[1], true
	}

	unquoted := regexp.MustCompile(name + `:\s*([^;]+)`)
	if m := unquoted.FindStringSubmatch(css); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// ValidateThemeCSS checks that every required variable is mentioned in css.
// Warnings for recommended variables and a missing :root block are reported
// regardless of validity
func ValidateThemeCSS(css string) ValidationResult {
	res := ValidationResult{
		Missing:  []Variable{},
		Warnings: []string{},
	}

	for _, v := range RequiredVariables {
		if !strings.Contains(css, string(v)) {
			res.Missing = append(res.Missing, v)
		}
	}
	res.Valid = len(res.Missing) == 0

	for _, v := range RecommendedVariables {
		if !strings.Contains(css, string(v)) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("recommended variable %s is not defined", v))
		}
	}
	if !rootRegex.MatchString(css) {
		res.Warnings = append(res.Warnings, "no :root selector found; variables may not apply globally")
	}
	return res
}
