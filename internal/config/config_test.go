package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"rostercheck/internal/config"
)

func TestLoadDefaultConfigWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("WG_APPLICATION_ID", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantPath := filepath.Join(tempHome, ".config", "rostercheck", "config.toml")
	if resolved != wantPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, wantPath)
	}
	if cfg.API.ApplicationID != "demo" {
		t.Fatalf("expected demo application id, got %q", cfg.API.ApplicationID)
	}
	if cfg.Resolve.Parallelism != 4 || cfg.Resolve.PoolSize != 16 {
		t.Fatalf("unexpected resolve defaults: %+v", cfg.Resolve)
	}
	if cfg.Fetch.MaxAttempts != 10 {
		t.Fatalf("expected 10 attempts, got %d", cfg.Fetch.MaxAttempts)
	}
	if cfg.ClanMaxAge() != 24*time.Hour {
		t.Fatalf("unexpected clan max age: %v", cfg.ClanMaxAge())
	}
	if cfg.AccountMaxAge() != 7*24*time.Hour {
		t.Fatalf("unexpected account max age: %v", cfg.AccountMaxAge())
	}
	if cfg.MembershipMaxAge() != 2*time.Hour {
		t.Fatalf("unexpected membership max age: %v", cfg.MembershipMaxAge())
	}
	if cfg.RetryBase() != 2*time.Second || cfg.CacheWriteBase() != 100*time.Millisecond {
		t.Fatalf("unexpected retry bases: %v %v", cfg.RetryBase(), cfg.CacheWriteBase())
	}
	if !filepath.IsAbs(cfg.Cache.Dir) {
		t.Fatalf("expected absolute cache dir, got %q", cfg.Cache.Dir)
	}
}

func TestLoadCustomPathExpandsAndOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("WG_APPLICATION_ID", "")

	path := filepath.Join(t.TempDir(), "custom.toml")
	content := `
[api]
application_id = "file-app"
base_url = "http://localhost:9999/wotx/"

[cache]
dir = "~/roster-cache"
prefix = ".test."

[resolve]
parallelism = 2
pool_size = 0

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected custom path to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.API.ApplicationID != "file-app" {
		t.Fatalf("unexpected application id %q", cfg.API.ApplicationID)
	}
	if cfg.API.BaseURL != "http://localhost:9999/wotx" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.API.BaseURL)
	}
	if cfg.Cache.Dir != filepath.Join(tempHome, "roster-cache") {
		t.Fatalf("unexpected cache dir %q", cfg.Cache.Dir)
	}
	if cfg.Cache.Prefix != "test" {
		t.Fatalf("expected prefix dots trimmed, got %q", cfg.Cache.Prefix)
	}
	if cfg.Resolve.PoolSize != 8 {
		t.Fatalf("expected pool size derived from parallelism, got %d", cfg.Resolve.PoolSize)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestEnvVarOverridesApplicationID(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WG_APPLICATION_ID", "env-app")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api]\napplication_id = \"file-app\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.ApplicationID != "env-app" {
		t.Fatalf("expected env application id, got %q", cfg.API.ApplicationID)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_application_id_here") {
		t.Fatalf("sample config missing placeholder application id: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Resolve.Parallelism != 4 {
		t.Fatalf("expected sample parallelism 4, got %d", cfg.Resolve.Parallelism)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty application id", func(c *config.Config) { c.API.ApplicationID = "" }},
		{"relative base url", func(c *config.Config) { c.API.BaseURL = "wotx" }},
		{"zero timeout", func(c *config.Config) { c.API.TimeoutSeconds = 0 }},
		{"prefix with separator", func(c *config.Config) { c.Cache.Prefix = "a/b" }},
		{"zero clan max age", func(c *config.Config) { c.Cache.ClanMaxAgeHours = 0 }},
		{"negative interval", func(c *config.Config) { c.Fetch.MinIntervalMillis = -1 }},
		{"zero attempts", func(c *config.Config) { c.Fetch.MaxAttempts = 0 }},
		{"zero parallelism", func(c *config.Config) { c.Resolve.Parallelism = 0 }},
		{"pool smaller than parallelism", func(c *config.Config) { c.Resolve.PoolSize = 2 }},
		{"performance without url", func(c *config.Config) {
			c.Performance.Enabled = true
			c.Performance.ExpectedValuesURL = " "
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
