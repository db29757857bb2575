package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/eddmann/kitmeta/internal/metadata"
	"github.com/eddmann/kitmeta/internal/platform"
)

const (
	fileType  = "toml"
	envPrefix = "KITMETA"
)

// Keys lists the settings kitmeta reads
var Keys = []string{"kenv", "platform", "home", "snippets"}

// Config holds the resolved user settings
type Config struct {
	// Kenv is the script environment indexed when no directory is given
	Kenv string
	// Snippets is the directory scanned by the snippets command
	Snippets string
	Platform platform.Platform
	// Home replaces the user's home directory in "~" expansion
	Home string

	v    *viper.Viper
	path string
}

// Load reads the config file at path, if any, with KITMETA_* environment
// variables taking precedence over it
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	p, err := platform.Parse(v.GetString("platform"))
	if err != nil {
		return nil, fmt.Errorf("invalid platform in config: %w", err)
	}

	// The home default stays out of viper so that Set never persists it
	home := v.GetString("home")
	if home == "" {
		if home, err = os.UserHomeDir(); err != nil {
			home = "."
		}
	}

	cfg := &Config{
		Home:     home,
		Platform: p,
		v:        v,
		path:     path,
	}
	cfg.Kenv = expand(v.GetString("kenv"), cfg.Home)
	if cfg.Kenv == "" {
		cfg.Kenv = filepath.Join(cfg.Home, ".kenv")
	}
	cfg.Snippets = expand(v.GetString("snippets"), cfg.Home)
	if cfg.Snippets == "" {
		cfg.Snippets = filepath.Join(cfg.Kenv, "snippets")
	}
	return cfg, nil
}

func expand(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// MetadataOptions returns the postprocessing options for this config
func (c *Config) MetadataOptions() metadata.Options {
	return metadata.Options{Platform: c.Platform, HomeDir: c.Home}
}

// Get returns a raw config value by key. Returns empty string if not set
func (c *Config) Get(key string) string {
	return c.v.GetString(key)
}

// Settings returns every known key with its raw value. An unset home
// reports the resolved home directory
func (c *Config) Settings() map[string]string {
	out := make(map[string]string, len(Keys))
	for _, k := range Keys {
		out[k] = c.v.GetString(k)
	}
	if out["home"] == "" {
		out["home"] = c.Home
	}
	return out
}

// Set validates and writes a config key-value pair to the config file.
// Only keys already in the file and the new key are written; environment
// overrides and defaults are not persisted
func (c *Config) Set(key, value string) error {
	if !isKey(key) {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(sortedKeys(), ", "))
	}
	if key == "platform" {
		if _, err := platform.Parse(value); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	file := viper.New()
	file.SetConfigFile(c.path)
	file.SetConfigType(fileType)
	if _, err := os.Stat(c.path); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", c.path, err)
		}
	}

	file.Set(key, value)
	if err := file.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	c.v.Set(key, value)
	return nil
}

func isKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

func sortedKeys() []string {
	keys := append([]string(nil), Keys...)
	sort.Strings(keys)
	return keys
}
