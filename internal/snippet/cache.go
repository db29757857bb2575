package snippet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eddmann/kitmeta/internal/metadata"
)

// Cache keeps parsed snippets keyed by file path and invalidates an entry
// when the file's modification time or size changes. Loads of the same path
// are serialized; loads of different paths run in parallel
type Cache struct {
	opts   metadata.Options
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	mu      sync.Mutex
	modTime time.Time
	size    int64
	snippet *Snippet
}

// Option configures a Cache
type Option func(*Cache)

// WithLogger sets the logger used for files skipped during ScanDir
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache creates an empty cache
func NewCache(opts metadata.Options, options ...Option) *Cache {
	c := &Cache{
		opts:    opts,
		logger:  slog.Default(),
		entries: make(map[string]*entry),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

func (c *Cache) entry(path string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[path]
	if !ok {
		e = &entry{}
		c.entries[path] = e
	}
	return e
}

func (c *Cache) forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Load returns the parsed snippet at path, reusing the cached result when
// the file is unchanged
func (c *Cache) Load(path string) (Snippet, error) {
	e := c.entry(path)
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		c.forget(path)
		return Snippet{}, fmt.Errorf("failed to stat snippet: %w", err)
	}

	if e.snippet != nil && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		c.hits.Add(1)
		return *e.snippet, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Snippet{}, fmt.Errorf("failed to read snippet: %w", err)
	}
	c.misses.Add(1)

	s := GetSnippet(string(data), c.opts)
	s.FilePath = path
	e.snippet = &s
	e.modTime = info.ModTime()
	e.size = info.Size()
	return s, nil
}

// Stats returns the number of cache hits and misses so far
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached paths
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// ScanDir loads every visible regular file directly inside dir, in
// parallel, and returns the snippets sorted by path. Files that fail to load
// are logged and skipped
func (c *Cache) ScanDir(ctx context.Context, dir string) ([]Snippet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snippet directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	jobs := make(chan string)
	var (
		mu       sync.Mutex
		snippets []Snippet
		wg       sync.WaitGroup
	)

	workers := runtime.NumCPU()
	if workers > len(paths) {
		workers = len(paths)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				s, err := c.Load(path)
				if err != nil {
					c.logger.Warn("skipping snippet", "path", path, "error", err)
					continue
				}
				mu.Lock()
				snippets = append(snippets, s)
				mu.Unlock()
			}
		}()
	}

	var cancelErr error
feed:
	for _, p := range paths {
		select {
		case <-ctx.Done():
			cancelErr = ctx.Err()
			break feed
		case jobs <- p:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelErr != nil {
		return nil, cancelErr
	}

	sort.Slice(snippets, func(i, j int) bool {
		return snippets[i].FilePath < snippets[j].FilePath
	})
	return snippets, nil
}
