package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eddmann/kitmeta/internal/jsast"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

// outputFormat returns the --format value, or def when the flag is unset.
// Commands without a text view pass allowText false
func outputFormat(def string, allowText bool) (string, error) {
	f := formatFlag
	if f == "" {
		f = def
	}
	switch f {
	case formatJSON, formatYAML:
		return f, nil
	case formatText:
		if allowText {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q", f)
}

// render writes v to w as indented JSON or YAML
func render(w io.Writer, v any, format string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

// readSource reads a script from path, or from stdin when path is "-".
// Stdin is parsed as TypeScript, which also accepts plain JavaScript
func readSource(path string) ([]byte, jsast.Language, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, jsast.TypeScript, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, jsast.TypeScript, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, jsast.TypeScript, fmt.Errorf("failed to read script: %w", err)
	}
	return data, jsast.LanguageForPath(path), nil
}
