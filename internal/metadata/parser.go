package metadata

import (
	"bufio"
	"regexp"
	"strings"
)

// maxLineSize bounds a single scanned line. Longer lines (minified bundles)
// end the scan and whatever was collected so far is returned
const maxLineSize = 4 * 1024 * 1024

// shapeRegex is the generic "// Key: value" comment shape. Keys may contain
// hyphens here; whether a key is accepted as metadata is decided separately
var shapeRegex = regexp.MustCompile(`^(?://|#)[ \t]*([\w-]+)[ \t]*:[ \t]*(.*)$`)

// knownKeys lists the comment keys that become metadata. Anything else is
// treated as an ordinary comment
var knownKeys = map[string]bool{
	"name":        true,
	"description": true,
	"author":      true,
	"twitter":     true,
	"shortcut":    true,
	"shortcode":   true,
	"trigger":     true,
	"alias":       true,
	"image":       true,
	"schedule":    true,
	"watch":       true,
	"system":      true,
	"background":  true,
	"index":       true,
	"longrunning": true,
	"emoji":       true,
	"menu":        true,
	"snippet":     true,
	"expand":      true,
	"pass":        true,
	"log":         true,
	"keyword":     true,
	"enter":       true,
	"exclude":     true,
	"cron":        true,
	"mcp":         true,
}

// IsKnownKey reports whether key (any case) is a recognized metadata key
func IsKnownKey(key string) bool {
	return knownKeys[strings.ToLower(key)]
}

// line is one classified source line
type line struct {
	shape bool   // matches the generic comment shape
	key   string // lowercased key, set only when the line is metadata
	value string
}

func classify(text string) line {
	text = strings.TrimSuffix(text, "\r")
	m := shapeRegex.FindStringSubmatch(text)
	if m == nil {
		return line{}
	}
	l := line{shape: true}

	key := m[1]
	if strings.ContainsRune(key, '-') {
		return l
	}
	key = strings.ToLower(key)
	if !knownKeys[key] {
		return l
	}
	value := strings.TrimSpace(m[2])
	if value == "" {
		return l
	}
	l.key, l.value = key, value
	return l
}

// IsHeaderLine reports whether text has the generic "// Key: value" shape,
// regardless of whether the key is a known metadata key
func IsHeaderLine(text string) bool {
	return classify(text).shape
}

// GetMetadata scans every line of contents for "// Key: value" (or
// "# Key: value") comments and returns the recognized keys, lowercased, with
// trimmed values. The first occurrence of a key wins. Malformed lines are
// skipped; GetMetadata never fails
func GetMetadata(contents string) Raw {
	raw := Raw{}

	scanner := bufio.NewScanner(strings.NewReader(contents))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		l := classify(scanner.Text())
		if l.key == "" {
			continue
		}
		if _, seen := raw[l.key]; seen {
			continue
		}
		raw[l.key] = l.value
	}
	// A scanner error (line too long) leaves the partial result in place
	return raw
}
