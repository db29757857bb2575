package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eddmann/kitmeta/internal/platform"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		env          map[string]string
		wantKenv     string
		wantSnippets string
		wantPlatform platform.Platform
		wantErr      bool
	}{
		{
			name:         "defaults without a file",
			env:          map[string]string{"KITMETA_HOME": "/home/kit", "KITMETA_PLATFORM": "win"},
			wantKenv:     "/home/kit/.kenv",
			wantSnippets: "/home/kit/.kenv/snippets",
			wantPlatform: platform.Windows,
		},
		{
			name: "file values",
			file: `kenv = "~/work/.kenv"
platform = "mac"
home = "/Users/kit"
`,
			wantKenv:     "/Users/kit/work/.kenv",
			wantSnippets: "/Users/kit/work/.kenv/snippets",
			wantPlatform: platform.Mac,
		},
		{
			name: "environment beats file",
			file: `kenv = "/from/file"
platform = "mac"
snippets = "/from/file/snips"
`,
			env:          map[string]string{"KITMETA_KENV": "/from/env", "KITMETA_PLATFORM": "other"},
			wantKenv:     "/from/env",
			wantSnippets: "/from/file/snips",
			wantPlatform: platform.Other,
		},
		{
			name:    "invalid platform",
			file:    `platform = "amiga"`,
			wantErr: true,
		},
		{
			name:    "invalid toml",
			file:    `kenv = `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.toml")
			if tt.file != "" {
				if err := os.WriteFile(path, []byte(tt.file), 0644); err != nil {
					t.Fatal(err)
				}
			}

			cfg, err := Load(path)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if cfg.Kenv != tt.wantKenv {
				t.Errorf("Kenv = %q, want %q", cfg.Kenv, tt.wantKenv)
			}
			if cfg.Snippets != tt.wantSnippets {
				t.Errorf("Snippets = %q, want %q", cfg.Snippets, tt.wantSnippets)
			}
			if cfg.Platform != tt.wantPlatform {
				t.Errorf("Platform = %q, want %q", cfg.Platform, tt.wantPlatform)
			}
		})
	}
}

func TestConfig_MetadataOptions(t *testing.T) {
	t.Setenv("KITMETA_HOME", "/Users/kit")
	t.Setenv("KITMETA_PLATFORM", "mac")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}

	opts := cfg.MetadataOptions()
	if opts.Platform != platform.Mac || opts.HomeDir != "/Users/kit" {
		t.Errorf("MetadataOptions() = %+v", opts)
	}
}

func TestConfig_Set(t *testing.T) {
	t.Setenv("KITMETA_PLATFORM", "mac")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := cfg.Set("kenv", "/srv/kenv"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cfg.Set("colour", "blue"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := cfg.Set("platform", "beos"); err == nil {
		t.Error("expected error for invalid platform")
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after Set error = %v", err)
	}
	if reloaded.Kenv != "/srv/kenv" {
		t.Errorf("Kenv = %q, want /srv/kenv", reloaded.Kenv)
	}
	if reloaded.Get("kenv") != "/srv/kenv" {
		t.Errorf("Get(kenv) = %q", reloaded.Get("kenv"))
	}
	if s := reloaded.Settings(); s["kenv"] != "/srv/kenv" || len(s) != len(Keys) {
		t.Errorf("Settings() = %v", s)
	}
}

func TestConfig_SetWritesOnlyFileKeys(t *testing.T) {
	t.Setenv("KITMETA_HOME", "/home/kit")
	t.Setenv("KITMETA_PLATFORM", "win")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("kenv = \"/srv/kenv\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Set("snippets", "/tmp/snips"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	written := string(data)
	for _, want := range []string{"kenv", "/srv/kenv", "snippets", "/tmp/snips"} {
		if !strings.Contains(written, want) {
			t.Errorf("config file missing %q:\n%s", want, written)
		}
	}
	for _, unwanted := range []string{"home", "platform"} {
		if strings.Contains(written, unwanted) {
			t.Errorf("config file persisted %q:\n%s", unwanted, written)
		}
	}

	t.Setenv("KITMETA_HOME", "")
	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if home, _ := os.UserHomeDir(); reloaded.Home != home {
		t.Errorf("Home = %q, want the user home %q", reloaded.Home, home)
	}
	if reloaded.Get("snippets") != "/tmp/snips" {
		t.Errorf("Get(snippets) = %q", reloaded.Get("snippets"))
	}
}
