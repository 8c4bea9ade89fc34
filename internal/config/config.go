package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// API contains configuration for the game-statistics service.
type API struct {
	ApplicationID  string `toml:"application_id"`
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Cache contains configuration for the on-disk response cache.
type Cache struct {
	Dir                  string `toml:"dir"`
	Prefix               string `toml:"prefix"`
	ClanMaxAgeHours      int    `toml:"clan_max_age_hours"`
	AccountMaxAgeHours   int    `toml:"account_max_age_hours"`
	MembershipMaxAgeMins int    `toml:"membership_max_age_minutes"`
	TankStatsMaxAgeMins  int    `toml:"tank_stats_max_age_minutes"`
	ReferenceMaxAgeHours int    `toml:"reference_max_age_hours"`
}

// Fetch contains the transport policy shared by every remote lookup.
type Fetch struct {
	MinIntervalMillis    int `toml:"min_interval_ms"`
	MaxAttempts          int `toml:"max_attempts"`
	RetryBaseMillis      int `toml:"retry_base_ms"`
	CacheWriteAttempts   int `toml:"cache_write_attempts"`
	CacheWriteBaseMillis int `toml:"cache_write_base_ms"`
}

// Resolve contains concurrency settings for the player resolution pass.
type Resolve struct {
	Parallelism int `toml:"parallelism"`
	PoolSize    int `toml:"pool_size"`
}

// Performance contains configuration for the optional performance figures.
type Performance struct {
	Enabled           bool   `toml:"enabled"`
	ExpectedValuesURL string `toml:"expected_values_url"`
}

// Output contains optional artifacts written next to the validated file.
type Output struct {
	SQLiteExport    bool   `toml:"sqlite_export"`
	MetricsTextfile string `toml:"metrics_textfile"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for rostercheck.
//
// Configuration sections by subsystem:
//   - API: game-statistics service credentials and endpoint
//   - Cache: response cache location and per-operation max ages
//   - Fetch: rate limiting and retry policy
//   - Resolve: player resolution worker pool sizing
//   - Performance: optional per-player performance figures
//   - Output: SQLite export and metrics textfile
//   - Logging: log format, level, and optional log directory
type Config struct {
	API         API         `toml:"api"`
	Cache       Cache       `toml:"cache"`
	Fetch       Fetch       `toml:"fetch"`
	Resolve     Resolve     `toml:"resolve"`
	Performance Performance `toml:"performance"`
	Output      Output      `toml:"output"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("rostercheck.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the cache and log directories when configured.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Cache.Dir, c.Logging.Dir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ClanMaxAge is the cache window for clan searches.
func (c *Config) ClanMaxAge() time.Duration {
	return time.Duration(c.Cache.ClanMaxAgeHours) * time.Hour
}

// AccountMaxAge is the cache window for exact gamer tag searches.
func (c *Config) AccountMaxAge() time.Duration {
	return time.Duration(c.Cache.AccountMaxAgeHours) * time.Hour
}

// MembershipMaxAge is the cache window for current clan membership lookups.
func (c *Config) MembershipMaxAge() time.Duration {
	return time.Duration(c.Cache.MembershipMaxAgeMins) * time.Minute
}

// TankStatsMaxAge is the cache window for per-player tank statistics.
func (c *Config) TankStatsMaxAge() time.Duration {
	return time.Duration(c.Cache.TankStatsMaxAgeMins) * time.Minute
}

// ReferenceMaxAge is the cache window for vehicle and WN8 reference data.
func (c *Config) ReferenceMaxAge() time.Duration {
	return time.Duration(c.Cache.ReferenceMaxAgeHours) * time.Hour
}

// MinInterval is the minimum spacing between two network requests.
func (c *Config) MinInterval() time.Duration {
	return time.Duration(c.Fetch.MinIntervalMillis) * time.Millisecond
}

// RetryBase is the unit multiplied by attempt² between network retries.
func (c *Config) RetryBase() time.Duration {
	return time.Duration(c.Fetch.RetryBaseMillis) * time.Millisecond
}

// CacheWriteBase is the unit multiplied by attempt² between cache write retries.
func (c *Config) CacheWriteBase() time.Duration {
	return time.Duration(c.Fetch.CacheWriteBaseMillis) * time.Millisecond
}

// HTTPTimeout bounds a single request to the game-statistics service.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
