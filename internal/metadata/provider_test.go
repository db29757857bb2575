package metadata

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/eddmann/kitmeta/internal/platform"
)

func TestParseScript_ExportOverridesComments(t *testing.T) {
	content := `// Name: Comment Name
// Description: Only in comments
// Emoji: 🐢
// Shortcut: opt x
// Index: 3

export const metadata = {
  name: "Export Name",
  emoji: "🚀",
  shortcut: "cmd shift e",
  longRunning: true,
  index: -1,
}

await arg("anything")
`
	got := ParseScript(content, Options{Platform: platform.Mac})

	if got.Name != "Export Name" {
		t.Errorf("Name = %q, want Export Name", got.Name)
	}
	if got.Description != "Only in comments" {
		t.Errorf("Description = %q, want comment value", got.Description)
	}
	if got.Emoji != "🚀" {
		t.Errorf("Emoji = %q, want 🚀", got.Emoji)
	}
	if got.Shortcut != "Command+Shift+E" || got.FriendlyShortcut != "cmd+shift+e" {
		t.Errorf("Shortcut = %q / %q, want normalized export value", got.Shortcut, got.FriendlyShortcut)
	}
	if got.LongRunning == nil || !*got.LongRunning {
		t.Errorf("LongRunning = %v, want true", got.LongRunning)
	}
	if got.Index == nil || *got.Index != -1 {
		t.Errorf("Index = %v, want exported -1", got.Index)
	}
	if got.Type != Prompt {
		t.Errorf("Type = %q, want prompt", got.Type)
	}
}

func TestParseScript_ExportDrivesType(t *testing.T) {
	content := `// Name: Nightly
export const metadata: Metadata = {
  schedule: "0 2 * * *",
  background: true,
}
`
	got := ParseScript(content, Options{Platform: platform.Other})
	if got.Type != Schedule {
		t.Errorf("Type = %q, want schedule", got.Type)
	}
	if got.Schedule != "0 2 * * *" || !got.Background {
		t.Errorf("Schedule = %q Background = %v", got.Schedule, got.Background)
	}
}

func TestParseScript_CommentsOnly(t *testing.T) {
	got := ParseScript("// Name: Plain\n// Watch: ~/inbox\n", Options{Platform: platform.Mac})
	want := Metadata{Name: "Plain", Watch: "~/inbox", Type: Watch}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseScript() = %+v, want %+v", got, want)
	}
}

func TestExported_NonLiteralValuesIgnored(t *testing.T) {
	raw := Exported{}.Provide(`
const n = "dynamic"
export const metadata = {
  name: n,
  description: ` + "`built ${n}`" + `,
  author: "Static",
  tags: ["a"],
}
`)
	want := Raw{"author": "Static"}
	if !reflect.DeepEqual(raw, want) {
		t.Errorf("Provide() = %+v, want %+v", raw, want)
	}
}

func TestExported_BrokenSourceDoesNotPanic(t *testing.T) {
	raw := Exported{}.Provide("export const metadata = { name: \"Half\", \n  const (")
	if name, ok := raw["name"]; ok && name != "Half" {
		t.Errorf("name = %v, want Half or absent", name)
	}
}

func TestParse_ProviderPrecedence(t *testing.T) {
	first := ProviderFunc(func(string) Raw { return Raw{"name": "first", "author": "a"} })
	second := ProviderFunc(func(string) Raw { return Raw{"Name": "second"} })

	got := Parse("", Options{Platform: platform.Mac}, first, second)
	if got.Name != "second" {
		t.Errorf("Name = %q, want second", got.Name)
	}
	if got.Author != "a" {
		t.Errorf("Author = %q, want a", got.Author)
	}
}

func TestSidecar(t *testing.T) {
	sc, err := ParseSidecar([]byte(`
name = "From Sidecar"
Index = -1
background = true
tags = ["ignored"]

[nested]
key = "ignored"
`))
	if err != nil {
		t.Fatalf("ParseSidecar() error = %v", err)
	}

	want := Raw{"name": "From Sidecar", "index": int64(-1), "background": true}
	if got := sc.Provide(""); !reflect.DeepEqual(got, want) {
		t.Errorf("Provide() = %+v, want %+v", got, want)
	}

	md := Parse("// Name: From Comment\n", Options{Platform: platform.Mac}, Comments, sc)
	if md.Name != "From Sidecar" || md.Index == nil || *md.Index != -1 || md.Type != Background {
		t.Errorf("Parse() = %+v", md)
	}
}

func TestSidecar_Invalid(t *testing.T) {
	if _, err := ParseSidecar([]byte(`name = [unterminated`)); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestMerge(t *testing.T) {
	got := Merge(Raw{"name": "a", "emoji": "x"}, nil, Raw{"EMOJI": "y"})
	want := Raw{"name": "a", "emoji": "y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %+v, want %+v", got, want)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hello.ts")
	os.WriteFile(script, []byte(`// Name: Comment
// Author: kit
export const metadata: Metadata = { emoji: "👋" }
`), 0644)

	opts := Options{Platform: platform.Mac}

	t.Run("without sidecar", func(t *testing.T) {
		md, err := ParseFile(script, opts)
		if err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		if md.Name != "Comment" || md.Emoji != "👋" || md.Type != Prompt {
			t.Errorf("ParseFile() = %+v", md)
		}
	})

	t.Run("sidecar sits between comments and export", func(t *testing.T) {
		os.WriteFile(filepath.Join(dir, "hello.toml"), []byte("name = \"Sidecar\"\nemoji = \"x\"\nwatch = \"~/notes\"\n"), 0644)
		md, err := ParseFile(script, opts)
		if err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		if md.Name != "Sidecar" || md.Emoji != "👋" || md.Author != "kit" || md.Type != Watch {
			t.Errorf("ParseFile() = %+v", md)
		}
	})

	t.Run("invalid sidecar is an error", func(t *testing.T) {
		os.WriteFile(filepath.Join(dir, "hello.toml"), []byte("name = "), 0644)
		if _, err := ParseFile(script, opts); err == nil {
			t.Error("expected error for invalid sidecar")
		}
	})

	t.Run("missing script", func(t *testing.T) {
		if _, err := ParseFile(filepath.Join(dir, "nope.ts"), opts); err == nil {
			t.Error("expected error for missing script")
		}
	})
}

func TestSidecarPath(t *testing.T) {
	if got := SidecarPath("/kenv/scripts/hello.ts"); got != "/kenv/scripts/hello.toml" {
		t.Errorf("SidecarPath() = %q", got)
	}
}
