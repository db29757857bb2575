package metadata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/eddmann/kitmeta/internal/jsast"
)

// Provider yields one layer of raw metadata for a script
type Provider interface {
	Provide(contents string) Raw
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(contents string) Raw

// Provide calls f(contents)
func (f ProviderFunc) Provide(contents string) Raw {
	return f(contents)
}

// Comments reads "// Key: value" comment lines
var Comments Provider = ProviderFunc(GetMetadata)

// Parse runs providers in increasing precedence, merges their layers at the
// raw-field level and normalizes the result once
func Parse(contents string, opts Options, providers ...Provider) Metadata {
	layers := make([]Raw, 0, len(providers))
	for _, p := range providers {
		layers = append(layers, p.Provide(contents))
	}
	return Postprocess(Merge(layers...), contents, opts)
}

// ParseScript is the standard pipeline: comment metadata overridden by an
// exported metadata object
func ParseScript(contents string, opts Options) Metadata {
	return Parse(contents, opts, Comments, Exported{})
}

// Exported reads a top-level `export const metadata = {...}` object literal.
// Only literal property values are used; keys are lowercased so that
// longRunning in code matches the longrunning comment key
type Exported struct {
	Language jsast.Language
}

// Provide parses contents and returns the exported object's literal fields.
// Source with syntax errors still yields whatever the partial tree holds
func (e Exported) Provide(contents string) Raw {
	if !strings.Contains(contents, "metadata") {
		return nil
	}
	tree, _ := jsast.Parse(context.Background(), []byte(contents), e.Language)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	obj, ok := tree.ExportedConst("metadata")
	if !ok {
		return nil
	}

	raw := Raw{}
	for _, p := range obj.Props {
		key := strings.ToLower(p.Key)
		switch p.Value.Kind {
		case jsast.KindString, jsast.KindNumber:
			raw[key] = p.Value.Text
		case jsast.KindBool:
			raw[key] = p.Value.Bool
		}
	}
	return raw
}

// Sidecar holds metadata from a TOML file stored next to a script, e.g.
//
//	name = "Say Hello"
//	shortcut = "cmd shift h"
//	background = true
//
// Nested tables and arrays are ignored
type Sidecar struct {
	raw Raw
}

// ParseSidecar decodes a sidecar TOML document
func ParseSidecar(data []byte) (*Sidecar, error) {
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse sidecar: %w", err)
	}

	raw := Raw{}
	for k, v := range doc {
		switch v.(type) {
		case string, bool, int64, float64:
			raw[strings.ToLower(k)] = v
		}
	}
	return &Sidecar{raw: raw}, nil
}

// Provide returns the sidecar's fields. The script contents are not used
func (s *Sidecar) Provide(string) Raw {
	if s == nil {
		return nil
	}
	return s.raw
}

// SidecarPath returns the sidecar location for a script: the script path
// with its extension replaced by ".toml"
func SidecarPath(script string) string {
	return strings.TrimSuffix(script, filepath.Ext(script)) + ".toml"
}

// ParseFile reads a script and runs the full pipeline on it: comments, then
// the sidecar when one exists, then the exported object parsed with the
// grammar matching the file extension
func ParseFile(path string, opts Options) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read script: %w", err)
	}

	providers := []Provider{Comments}

	sidecarData, err := os.ReadFile(SidecarPath(path))
	switch {
	case err == nil:
		sc, err := ParseSidecar(sidecarData)
		if err != nil {
			return Metadata{}, fmt.Errorf("%s: %w", SidecarPath(path), err)
		}
		providers = append(providers, sc)
	case !errors.Is(err, fs.ErrNotExist):
		return Metadata{}, fmt.Errorf("failed to read sidecar: %w", err)
	}

	providers = append(providers, Exported{Language: jsast.LanguageForPath(path)})
	return Parse(string(data), opts, providers...), nil
}
