package metadata

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	tabRegex     = regexp.MustCompile("onTab\\(\\s*(?:'([^']+)'|\"([^\"]+)\"|`([^`]+)`)")
	previewRegex = regexp.MustCompile(`preview\s*[:=]\s*true`)
)

// Postprocess normalizes raw metadata and derives the fields that come from
// the script body (tabs, hasPreview) rather than its comments. It never
// fails: a missing or malformed field is simply left out. Type is always set
func Postprocess(raw Raw, contents string, opts Options) Metadata {
	m := Metadata{
		Name:        raw.String("name"),
		Description: raw.String("description"),
		Author:      raw.String("author"),
		Twitter:     raw.String("twitter"),
		Emoji:       raw.String("emoji"),
		Menu:        raw.String("menu"),
		Snippet:     raw.String("snippet"),
		Expand:      raw.String("expand"),
		Pass:        raw.String("pass"),
		Log:         raw.String("log"),
		Keyword:     raw.String("keyword"),
		Enter:       raw.String("enter"),
		Exclude:     raw.String("exclude"),
		MCP:         raw.String("mcp"),
		Watch:       raw.String("watch"),
		System:      raw.String("system"),
		Shortcode:   strings.ToLower(raw.String("shortcode")),
		Trigger:     strings.ToLower(raw.String("trigger")),
		Alias:       strings.ToLower(raw.String("alias")),
	}

	if s := raw.String("shortcut"); s != "" {
		m.Shortcut = NormalizeShortcut(s, opts.Platform)
		m.FriendlyShortcut = FriendlyShortcut(m.Shortcut)
	}

	if img := raw.String("image"); img != "" {
		m.Img = expandHome(img, opts.HomeDir)
	}

	m.Schedule = raw.String("schedule")
	if m.Schedule == "" {
		m.Schedule = raw.String("cron")
	}

	m.Background = truthy(raw["background"])
	m.Index = parseIndex(raw["index"])
	if raw.Has("longrunning") {
		lr := parseLongRunning(raw["longrunning"])
		m.LongRunning = &lr
	}

	m.Type = processType(m)
	m.Tabs = Tabs(contents)
	if previewRegex.MatchString(contents) {
		yes := true
		m.HasPreview = &yes
	}
	return m
}

// processType picks the first trigger present in priority order
func processType(m Metadata) ProcessType {
	switch {
	case m.Schedule != "":
		return Schedule
	case m.Watch != "":
		return Watch
	case m.System != "":
		return System
	case m.Background:
		return Background
	}
	return Prompt
}

// Tabs returns the first string argument of every onTab( call in source
// order. This is a plain text scan, so calls inside comments and strings are
// matched too
func Tabs(contents string) []string {
	matches := tabRegex.FindAllStringSubmatch(contents, -1)
	if len(matches) == 0 {
		return nil
	}
	tabs := make([]string, 0, len(matches))
	for _, m := range matches {
		for _, g := range m[1:] {
			if g != "" {
				tabs = append(tabs, g)
				break
			}
		}
	}
	return tabs
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s != "" && s != "false"
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		return t != 0
	}
	return false
}

func parseIndex(v any) *int {
	var n int
	switch t := v.(type) {
	case int:
		n = t
	case int64:
		n = int(t)
	case float64:
		if t != float64(int(t)) {
			return nil
		}
		n = int(t)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		n = i
	default:
		return nil
	}
	return &n
}

func parseLongRunning(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true")
	}
	return false
}

// expandHome resolves a leading "~" against home. Other paths are returned
// unchanged
func expandHome(path, home string) string {
	if home == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	if path == "~" {
		return home
	}
	if path[1] != '/' && path[1] != filepath.Separator {
		return path
	}
	return filepath.Join(home, path[2:])
}
