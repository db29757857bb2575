package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cache manages the kitmeta cache directory
type Cache struct {
	baseDir string
}

// New creates a new cache manager
func New(baseDir string) *Cache {
	return &Cache{baseDir: baseDir}
}

// Default returns a cache using the default directory (~/.kitmeta)
func Default() (*Cache, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return New(filepath.Join(home, ".kitmeta")), nil
}

// BaseDir returns the base cache directory
func (c *Cache) BaseDir() string {
	return c.baseDir
}

// ConfigFile returns the path of the user config file, which lives next to
// the cached data
func (c *Cache) ConfigFile() string {
	return filepath.Join(c.baseDir, "config.toml")
}

// IndexDir returns the directory holding one script index per kenv
func (c *Cache) IndexDir() string {
	return filepath.Join(c.baseDir, "index")
}

// IndexDirFor returns the index directory for a kenv path
func (c *Cache) IndexDirFor(kenv string) string {
	return filepath.Join(c.IndexDir(), HashKey(kenv))
}

// HashKey creates a cache key from a kenv path. Paths are cleaned and made
// absolute so that "~/.kenv" and "~/.kenv/" share an index
func HashKey(kenv string) string {
	key := filepath.Clean(kenv)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}
	key = strings.TrimRight(key, string(filepath.Separator))
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// EnsureDirs creates all necessary cache directories
func (c *Cache) EnsureDirs() error {
	dirs := []string{
		c.IndexDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// CleanIndex removes every cached script index
func (c *Cache) CleanIndex() error {
	return os.RemoveAll(c.IndexDir())
}

// CleanAll removes the entire cache
func (c *Cache) CleanAll() error {
	return os.RemoveAll(c.baseDir)
}

// ListIndexes returns the hash keys of all cached indexes
func (c *Cache) ListIndexes() ([]string, error) {
	entries, err := os.ReadDir(c.IndexDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var hashes []string
	for _, entry := range entries {
		if entry.IsDir() {
			hashes = append(hashes, entry.Name())
		}
	}
	return hashes, nil
}

// Size returns the total size of the cache in bytes
func (c *Cache) Size() (int64, error) {
	var size int64
	err := filepath.Walk(c.baseDir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	if os.IsNotExist(err) {
		return 0, nil
	}
	return size, err
}
