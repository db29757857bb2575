package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/gosimple/slug"
	"github.com/schollz/progressbar/v3"

	"github.com/eddmann/kitmeta/internal/cache"
	"github.com/eddmann/kitmeta/internal/metadata"
)

const (
	// FormatVersion is written into every scripts.json
	FormatVersion = "1.0.0"
	// FormatConstraint is the range of cached formats this build can read
	FormatConstraint = "^1.0"
)

var (
	ErrNoCache      = errors.New("no cached index available")
	ErrIncompatible = errors.New("cached index has an incompatible format")
	ErrOptions      = errors.New("cached index was built for other options")

	// Extensions lists the script file extensions picked up by Build
	Extensions = []string{".js", ".ts", ".mjs", ".mts"}
)

// Entry is one indexed script
type Entry struct {
	Path     string            `json:"path" yaml:"path"`
	Command  string            `json:"command" yaml:"command"`
	Metadata metadata.Metadata `json:"metadata" yaml:"metadata"`
}

type indexFile struct {
	Version  string    `json:"version"`
	Kenv     string    `json:"kenv"`
	Platform string    `json:"platform"`
	Home     string    `json:"home"`
	BuiltAt  time.Time `json:"builtAt"`
	Scripts  []Entry   `json:"scripts"`
}

// Index manages cached script indexes, one per kenv directory
type Index struct {
	cache    *cache.Cache
	opts     metadata.Options
	logger   *slog.Logger
	progress bool
	workers  int
}

// Option configures an Index
type Option func(*Index)

// WithLogger sets the logger used for skipped scripts and cache decisions
func WithLogger(l *slog.Logger) Option {
	return func(idx *Index) {
		if l != nil {
			idx.logger = l
		}
	}
}

// WithProgress shows a progress bar on stderr while building
func WithProgress(show bool) Option {
	return func(idx *Index) {
		idx.progress = show
	}
}

// WithWorkers bounds the number of scripts parsed at once
func WithWorkers(n int) Option {
	return func(idx *Index) {
		if n > 0 {
			idx.workers = n
		}
	}
}

// New creates a new Index storing its files in c
func New(c *cache.Cache, opts metadata.Options, options ...Option) *Index {
	idx := &Index{
		cache:   c,
		opts:    opts,
		logger:  slog.Default(),
		workers: runtime.NumCPU(),
	}
	for _, o := range options {
		o(idx)
	}
	return idx
}

// Get returns the indexed scripts of dir, rebuilding when the cache is
// missing, incompatible, built for another platform or home, or older than
// any script
func (idx *Index) Get(ctx context.Context, dir string) ([]Entry, error) {
	entries, err := idx.Load(dir)
	if err == nil && !idx.IsStale(dir) {
		idx.logger.Debug("using cached index", "kenv", dir, "scripts", len(entries))
		return entries, nil
	}
	if err != nil {
		idx.logger.Debug("rebuilding index", "kenv", dir, "reason", err)
	}

	fresh, buildErr := idx.Build(ctx, dir)
	if buildErr != nil {
		// A stale index beats no index, but one built for other options does not
		if err == nil {
			idx.logger.Warn("using stale index", "kenv", dir, "error", buildErr)
			return entries, nil
		}
		return nil, buildErr
	}
	return fresh, nil
}

// Build parses every script of dir and writes the result to the cache.
// Scripts that cannot be read are logged and skipped
func (idx *Index) Build(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	builtAt := time.Now()

	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if idx.progress && len(paths) > 0 {
		bar = progressbar.Default(int64(len(paths)), "Indexing scripts")
	}

	jobs := make(chan string)
	var (
		mu      sync.Mutex
		entries []Entry
		wg      sync.WaitGroup
	)

	workers := idx.workers
	if workers > len(paths) {
		workers = len(paths)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				md, err := metadata.ParseFile(path, idx.opts)
				if bar != nil {
					_ = bar.Add(1)
				}
				if err != nil {
					idx.logger.Warn("skipping script", "path", path, "error", err)
					continue
				}
				mu.Lock()
				entries = append(entries, Entry{Path: path, Command: Command(path), Metadata: md})
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

	if bar != nil {
		_ = bar.Finish()
	}
	if cancelErr != nil {
		return nil, cancelErr
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	if entries == nil {
		entries = []Entry{}
	}

	if err := idx.write(dir, builtAt, entries); err != nil {
		return nil, fmt.Errorf("failed to write index: %w", err)
	}
	idx.logger.Debug("built index", "kenv", dir, "scripts", len(entries))

	return entries, nil
}

// Load reads the cached index for dir without checking freshness. Records
// hold postprocessed metadata, so an index built for another platform or
// home directory is rejected with ErrOptions, which wraps ErrIncompatible
func (idx *Index) Load(dir string) ([]Entry, error) {
	data, err := os.ReadFile(idx.indexFile(dir))
	if err != nil {
		return nil, ErrNoCache
	}

	var f indexFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}

	if err := checkFormat(f.Version); err != nil {
		return nil, err
	}

	if f.Platform != string(idx.opts.Platform) || f.Home != idx.opts.HomeDir {
		return nil, fmt.Errorf("%w: %w: built for platform %q home %q", ErrIncompatible, ErrOptions, f.Platform, f.Home)
	}

	return f.Scripts, nil
}

func checkFormat(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrIncompatible, version)
	}
	c, err := semver.NewConstraint(FormatConstraint)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatible, v, FormatConstraint)
	}
	return nil
}

// IsStale reports whether any script, sidecar or script directory of dir
// changed after the cached index was built
func (idx *Index) IsStale(dir string) bool {
	data, err := os.ReadFile(idx.timestampFile(dir))
	if err != nil {
		return true
	}

	builtAt, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(data)))
	if err != nil {
		return true
	}

	newest, err := newestModTime(dir)
	if err != nil {
		return true
	}
	return newest.After(builtAt)
}

func (idx *Index) write(dir string, builtAt time.Time, entries []Entry) error {
	cacheDir := idx.cache.IndexDirFor(dir)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(indexFile{
		Version:  FormatVersion,
		Kenv:     dir,
		Platform: string(idx.opts.Platform),
		Home:     idx.opts.HomeDir,
		BuiltAt:  builtAt,
		Scripts:  entries,
	}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(idx.indexFile(dir), data, 0644); err != nil {
		return err
	}

	// Update timestamp
	return os.WriteFile(idx.timestampFile(dir), []byte(builtAt.Format(time.RFC3339Nano)), 0644)
}

// Info summarizes one cached index
type Info struct {
	Kenv     string
	Platform string
	Version  string
	BuiltAt  time.Time
	Scripts  int
}

// ReadInfo reads the header of the index stored in cacheDir, one of the
// per-kenv directories of the cache
func ReadInfo(cacheDir string) (Info, error) {
	data, err := os.ReadFile(filepath.Join(cacheDir, "scripts.json"))
	if err != nil {
		return Info{}, ErrNoCache
	}
	var f indexFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Info{}, fmt.Errorf("failed to decode index: %w", err)
	}
	return Info{Kenv: f.Kenv, Platform: f.Platform, Version: f.Version, BuiltAt: f.BuiltAt, Scripts: len(f.Scripts)}, nil
}

func (idx *Index) indexFile(dir string) string {
	return filepath.Join(idx.cache.IndexDirFor(dir), "scripts.json")
}

func (idx *Index) timestampFile(dir string) string {
	return filepath.Join(idx.cache.IndexDirFor(dir), "built_at")
}

// Command derives the command name of a script from its file name
func Command(path string) string {
	base := filepath.Base(path)
	return slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
}

// IsScript reports whether name has a script extension
func IsScript(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// scriptDirs returns dir and its scripts subdirectory when present
func scriptDirs(dir string) []string {
	dirs := []string{dir}
	sub := filepath.Join(dir, "scripts")
	if info, err := os.Stat(sub); err == nil && info.IsDir() {
		dirs = append(dirs, sub)
	}
	return dirs
}

// Discover lists the visible script files directly inside dir and
// dir/scripts, sorted by path
func Discover(dir string) ([]string, error) {
	var paths []string
	for _, d := range scriptDirs(dir) {
		entries, err := os.ReadDir(d)
		if err != nil {
			return nil, fmt.Errorf("failed to read script directory: %w", err)
		}
		for _, e := range entries {
			name := e.Name()
			if !e.Type().IsRegular() || strings.HasPrefix(name, ".") || !IsScript(name) {
				continue
			}
			paths = append(paths, filepath.Join(d, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func newestModTime(dir string) (time.Time, error) {
	var newest time.Time
	bump := func(info fs.FileInfo) {
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}

	for _, d := range scriptDirs(dir) {
		info, err := os.Stat(d)
		if err != nil {
			return time.Time{}, err
		}
		bump(info)

		entries, err := os.ReadDir(d)
		if err != nil {
			return time.Time{}, err
		}
		for _, e := range entries {
			name := e.Name()
			if !IsScript(name) && filepath.Ext(name) != ".toml" {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			bump(info)
		}
	}
	return newest, nil
}
