package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"rostercheck/internal/fileutil"
	"rostercheck/internal/logging"
	"rostercheck/internal/textutil"
)

const (
	cacheExt       = ".json"
	lockExt        = ".lock"
	defaultPrefix  = "wcl"
	defaultWrites  = 10
	defaultWriteMs = 100
)

var errLockBusy = errors.New("cache entry locked by another writer")

// Key identifies one cached response: the API operation plus the query it was
// issued with.
type Key struct {
	Operation string
	Query     string
}

func (k Key) String() string {
	return k.Operation + "." + k.Query
}

// Content is a response body and the moment it was captured.
type Content struct {
	Body       []byte
	CapturedAt time.Time
	FromCache  bool
}

// CacheOptions tunes the cache write retry policy.
type CacheOptions struct {
	Prefix        string
	WriteAttempts int
	WriteBase     time.Duration
	Logger        *slog.Logger
	Sleep         SleepFunc
	Now           func() time.Time
}

// Cache stores raw response bodies as files named
// <prefix>.<operation>.<sanitized query>.json. Freshness is the file mtime.
type Cache struct {
	dir           string
	prefix        string
	writeAttempts int
	writeBase     time.Duration
	logger        *slog.Logger
	sleep         SleepFunc
	now           func() time.Time
}

// NewCache creates the cache directory when needed.
func NewCache(dir string, opts CacheOptions) (*Cache, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("cache directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	c := &Cache{
		dir:           dir,
		prefix:        strings.Trim(strings.TrimSpace(opts.Prefix), "."),
		writeAttempts: opts.WriteAttempts,
		writeBase:     opts.WriteBase,
		logger:        logging.NewComponentLogger(opts.Logger, "cache"),
		sleep:         opts.Sleep,
		now:           opts.Now,
	}
	if c.prefix == "" {
		c.prefix = defaultPrefix
	}
	if c.writeAttempts <= 0 {
		c.writeAttempts = defaultWrites
	}
	if c.writeBase < 0 {
		c.writeBase = defaultWriteMs * time.Millisecond
	}
	if c.sleep == nil {
		c.sleep = SleepWithContext
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Dir exposes the backing directory for inspection.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the file backing key.
func (c *Cache) Path(key Key) string {
	name := c.prefix + "." + textutil.SanitizeCacheKey(key.Operation) + "." + textutil.SanitizeCacheKey(key.Query) + cacheExt
	return filepath.Join(c.dir, name)
}

// Load returns the cached body for key when its age does not exceed maxAge.
// A missing or expired entry reports ok=false without error.
func (c *Cache) Load(key Key, maxAge time.Duration) (Content, bool, error) {
	path := c.Path(key)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Content{}, false, nil
		}
		return Content{}, false, fmt.Errorf("stat cache entry: %w", err)
	}
	moment := info.ModTime().UTC()
	age := c.now().Sub(moment)
	if age > maxAge {
		c.logger.Debug("cache entry expired",
			logging.String("key", key.String()),
			logging.Duration("age", age.Round(time.Second)),
			logging.Duration("max_age", maxAge))
		return Content{}, false, nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Content{}, false, nil
		}
		return Content{}, false, fmt.Errorf("read cache entry: %w", err)
	}
	return Content{Body: body, CapturedAt: moment, FromCache: true}, true, nil
}

// Store writes body for key, retrying with attempt² × WriteBase backoff. The
// returned error is the last failure once every attempt has been used.
func (c *Cache) Store(ctx context.Context, key Key, body []byte) error {
	path := c.Path(key)
	var lastErr error
	for attempt := 0; attempt < c.writeAttempts; attempt++ {
		lastErr = c.storeOnce(path, body)
		if lastErr == nil {
			return nil
		}
		if attempt < c.writeAttempts-1 {
			c.logger.Debug("cache write failed; retrying",
				logging.String("key", key.String()),
				logging.Int("attempt", attempt+1),
				logging.Error(lastErr))
			if err := c.sleep(ctx, quadraticBackoff(attempt, c.writeBase)); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("store %s: %w", key, lastErr)
}

func (c *Cache) storeOnce(path string, body []byte) error {
	lock := flock.New(path + lockExt)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock cache entry: %w", err)
	}
	if !ok {
		return errLockBusy
	}
	defer func() { _ = lock.Unlock() }()
	return fileutil.WriteFileAtomic(path, body, 0o644)
}

// Invalidate removes the entry for key so the next fetch goes to the network.
func (c *Cache) Invalidate(key Key) error {
	if err := os.Remove(c.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("invalidate cache entry: %w", err)
	}
	return nil
}

// Stats summarizes the entries currently in the cache directory.
type Stats struct {
	Entries     int
	Bytes       int64
	Oldest      time.Time
	Newest      time.Time
	ByOperation map[string]int
}

// Stats scans the cache directory for entries written with this prefix.
func (c *Cache) Stats() (Stats, error) {
	stats := Stats{ByOperation: make(map[string]int)}
	err := c.walk(func(path, operation string, info fs.FileInfo) error {
		stats.Entries++
		stats.Bytes += info.Size()
		stats.ByOperation[operation]++
		mod := info.ModTime().UTC()
		if stats.Oldest.IsZero() || mod.Before(stats.Oldest) {
			stats.Oldest = mod
		}
		if mod.After(stats.Newest) {
			stats.Newest = mod
		}
		return nil
	})
	return stats, err
}

// Prune deletes entries older than olderThan and returns how many were removed.
func (c *Cache) Prune(olderThan time.Duration) (int, error) {
	cutoff := c.now().Add(-olderThan)
	removed := 0
	err := c.walk(func(path, _ string, info fs.FileInfo) error {
		if !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", filepath.Base(path), err)
		}
		_ = os.Remove(path + lockExt)
		removed++
		return nil
	})
	return removed, err
}

func (c *Cache) walk(visit func(path, operation string, info fs.FileInfo) error) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read cache dir: %w", err)
	}
	head := c.prefix + "."
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, head) || !strings.HasSuffix(name, cacheExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		operation, _, _ := strings.Cut(strings.TrimPrefix(name, head), ".")
		if err := visit(filepath.Join(c.dir, name), operation, info); err != nil {
			return err
		}
	}
	return nil
}
