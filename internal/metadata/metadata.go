// Package metadata turns the comment header and exported metadata object of
// a script into a normalized Metadata record
package metadata

import (
	"os"
	"strconv"
	"strings"

	"github.com/eddmann/kitmeta/internal/platform"
)

// ProcessType is how the host runs a script
type ProcessType string

const (
	Prompt     ProcessType = "prompt"
	Schedule   ProcessType = "schedule"
	Watch      ProcessType = "watch"
	System     ProcessType = "system"
	Background ProcessType = "background"
)

// Metadata is the normalized configuration of a script
type Metadata struct {
	Name             string   `json:"name,omitempty" yaml:"name,omitempty"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
	Author           string   `json:"author,omitempty" yaml:"author,omitempty"`
	Twitter          string   `json:"twitter,omitempty" yaml:"twitter,omitempty"`
	Shortcut         string   `json:"shortcut,omitempty" yaml:"shortcut,omitempty"`
	FriendlyShortcut string   `json:"friendlyShortcut,omitempty" yaml:"friendlyShortcut,omitempty"`
	Shortcode        string   `json:"shortcode,omitempty" yaml:"shortcode,omitempty"`
	Trigger          string   `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	Alias            string   `json:"alias,omitempty" yaml:"alias,omitempty"`
	Img              string   `json:"img,omitempty" yaml:"img,omitempty"`
	Schedule         string   `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	Watch            string   `json:"watch,omitempty" yaml:"watch,omitempty"`
	System           string   `json:"system,omitempty" yaml:"system,omitempty"`
	Background       bool     `json:"background,omitempty" yaml:"background,omitempty"`
	Index            *int     `json:"index,omitempty" yaml:"index,omitempty"`
	LongRunning      *bool    `json:"longRunning,omitempty" yaml:"longRunning,omitempty"`
	Emoji            string   `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Menu             string   `json:"menu,omitempty" yaml:"menu,omitempty"`
	Snippet          string   `json:"snippet,omitempty" yaml:"snippet,omitempty"`
	Expand           string   `json:"expand,omitempty" yaml:"expand,omitempty"`
	Pass             string   `json:"pass,omitempty" yaml:"pass,omitempty"`
	Log              string   `json:"log,omitempty" yaml:"log,omitempty"`
	Keyword          string   `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Enter            string   `json:"enter,omitempty" yaml:"enter,omitempty"`
	Exclude          string   `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	MCP              string   `json:"mcp,omitempty" yaml:"mcp,omitempty"`
	Tabs             []string `json:"tabs,omitempty" yaml:"tabs,omitempty"`

	// HasPreview is nil when the source says nothing about a preview
	HasPreview *bool `json:"hasPreview,omitempty" yaml:"hasPreview,omitempty"`

	Type ProcessType `json:"type,omitempty" yaml:"type,omitempty"`
}

// Options carries the environment the postprocessor depends on
type Options struct {
	Platform platform.Platform
	// HomeDir expands "~" in image paths. Empty leaves paths untouched
	HomeDir string
}

// DefaultOptions uses the current platform and the user's home directory
func DefaultOptions() Options {
	home, _ := os.UserHomeDir()
	return Options{
		Platform: platform.Current(),
		HomeDir:  home,
	}
}

// Raw holds unnormalized metadata keyed by lowercased field name. Values are
// strings from comments and may also be bools or numbers from an exported
// object or sidecar file
type Raw map[string]any

// Merge layers raws in increasing precedence: a key present in a later layer
// replaces the same key from earlier layers
func Merge(layers ...Raw) Raw {
	out := Raw{}
	for _, layer := range layers {
		for k, v := range layer {
			out[strings.ToLower(k)] = v
		}
	}
	return out
}

// String returns the trimmed text of key. A bare true becomes "true"; false,
// missing keys and unsupported value types yield ""
func (r Raw) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case bool:
		if v {
			return "true"
		}
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// Has reports whether key is present, whatever its value
func (r Raw) Has(key string) bool {
	_, ok := r[key]
	return ok
}
