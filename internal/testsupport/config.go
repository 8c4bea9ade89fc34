package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"rostercheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Retry and rate-limit intervals are zeroed so tests never sleep.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.API.ApplicationID = "test-app"
	cfgVal.Cache.Dir = filepath.Join(base, "cache")
	cfgVal.Fetch.MinIntervalMillis = 0
	cfgVal.Fetch.RetryBaseMillis = 0
	cfgVal.Fetch.CacheWriteBaseMillis = 0
	cfgVal.Fetch.MaxAttempts = 3
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := os.MkdirAll(builder.cfg.Cache.Dir, 0o755); err != nil {
		t.Fatalf("mkdir cache dir: %v", err)
	}
	return builder.cfg
}

// WithFakeAPI points the API base URL and the expected values URL at api.
func WithFakeAPI(api *FakeAPI) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.BaseURL = api.BaseURL()
		b.cfg.Performance.ExpectedValuesURL = api.ExpectedValuesURL()
	}
}

// WithPerformance enables the performance figures.
func WithPerformance() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Performance.Enabled = true
	}
}

// WithParallelism overrides the player worker count and pool size.
func WithParallelism(workers, pool int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Resolve.Parallelism = workers
		b.cfg.Resolve.PoolSize = pool
	}
}

// WithSQLiteExport enables the SQLite export.
func WithSQLiteExport() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.SQLiteExport = true
	}
}

// WithMetricsTextfile writes run metrics under the test directory.
func WithMetricsTextfile(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.MetricsTextfile = filepath.Join(b.baseDir, name)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Cache.Dir)
}

// WriteFile writes content to name under dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
