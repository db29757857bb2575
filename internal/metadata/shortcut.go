package metadata

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/eddmann/kitmeta/internal/platform"
)

// modifierAliases maps the spellings people write in a Shortcut comment to a
// canonical modifier
var modifierAliases = map[string]string{
	"cmd":     "command",
	"command": "command",
	"ctrl":    "control",
	"control": "control",
	"cntrl":   "control",
	"ctl":     "control",
	"option":  "option",
	"opt":     "option",
	"alt":     "option",
	"shift":   "shift",
	"shft":    "shift",
}

// friendlyOrder is the order modifiers appear in a friendly shortcut
var friendlyOrder = []struct {
	name  string
	short string
}{
	{"Command", "cmd"},
	{"Control", "ctrl"},
	{"Alt", "alt"},
	{"Option", "opt"},
	{"Shift", "shift"},
}

func modifierName(token string, p platform.Platform) string {
	switch modifierAliases[strings.ToLower(token)] {
	case "command":
		if p.IsMac() {
			return "Command"
		}
		return "Control"
	case "control":
		return "Control"
	case "option":
		if p.IsMac() {
			return "Option"
		}
		return "Alt"
	case "shift":
		return "Shift"
	}
	return token
}

// NormalizeShortcut rewrites modifier names for the platform and joins
// whitespace-separated parts with "+". Each whitespace-separated part gets an
// upper-case first letter; keys inside a "+"-joined part keep their case, so
// "cmd+shift+p" becomes "Command+Shift+p" on a Mac while "cmd shift p"
// becomes "Command+Shift+P"
func NormalizeShortcut(shortcut string, p platform.Platform) string {
	var parts []string
	for _, word := range strings.Fields(shortcut) {
		keys := strings.Split(word, "+")
		for i, k := range keys {
			keys[i] = modifierName(k, p)
		}
		parts = append(parts, upperFirst(strings.Join(keys, "+")))
	}
	return strings.Join(parts, "+")
}

// FriendlyShortcut turns a normalized shortcut back into the lowercase form
// shown in menus, e.g. "Control+Shift+p" → "ctrl+shift+p"
func FriendlyShortcut(shortcut string) string {
	if shortcut == "" {
		return ""
	}
	parts := strings.Split(shortcut, "+")
	key := parts[len(parts)-1]

	mods := make(map[string]bool, len(parts)-1)
	for _, m := range parts[:len(parts)-1] {
		mods[m] = true
	}

	var b strings.Builder
	for _, m := range friendlyOrder {
		if mods[m.name] {
			b.WriteString(m.short)
			b.WriteByte('+')
		}
	}
	b.WriteString(strings.ToLower(key))
	return b.String()
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
