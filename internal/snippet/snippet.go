// Package snippet parses text-expansion snippet files: a "// Key: value"
// header followed by the text to expand
package snippet

import (
	"html"
	"strings"

	"github.com/eddmann/kitmeta/internal/metadata"
)

// Snippet is a parsed snippet file
type Snippet struct {
	FilePath string            `json:"filePath,omitempty" yaml:"filePath,omitempty"`
	Metadata metadata.Metadata `json:"metadata" yaml:"metadata"`
	// Snippet is the body: every line from the first line that is not a
	// "// Key: value" comment
	Snippet string `json:"snippet" yaml:"snippet"`
	// Expand is the trigger text without a leading "*"
	Expand string `json:"expand" yaml:"expand"`
	// Postfix is set when the trigger was written as "*text"
	Postfix bool   `json:"postfix" yaml:"postfix"`
	Tag     string `json:"tag" yaml:"tag"`
	Text    string `json:"text" yaml:"text"`
	Preview string `json:"preview" yaml:"preview"`
}

// GetSnippet splits contents into metadata and body. Metadata is read from
// the whole file like a script's, with the process type removed
func GetSnippet(contents string, opts metadata.Options) Snippet {
	raw := metadata.GetMetadata(contents)
	md := metadata.Postprocess(raw, contents, opts)
	md.Type = ""

	lines := strings.Split(contents, "\n")
	start := len(lines)
	for i, l := range lines {
		if !metadata.IsHeaderLine(l) {
			start = i
			break
		}
	}
	body := strings.Join(lines[start:], "\n")

	expand := md.Expand
	if expand == "" {
		expand = md.Snippet
	}
	postfix := strings.HasPrefix(expand, "*")
	if postfix {
		expand = strings.TrimPrefix(expand, "*")
	}

	text := strings.TrimSpace(body)
	return Snippet{
		Metadata: md,
		Snippet:  body,
		Expand:   expand,
		Postfix:  postfix,
		Tag:      md.Snippet,
		Text:     text,
		Preview:  html.EscapeString(text),
	}
}
