package config

import "os"

const (
	defaultConfigPath           = "~/.config/rostercheck/config.toml"
	defaultApplicationID        = "demo"
	defaultBaseURL              = "https://api-xbox-console.worldoftanks.com/wotx"
	defaultUserAgent            = "rostercheck/dev"
	defaultTimeoutSeconds       = 30
	defaultCachePrefix          = "wcl"
	defaultClanMaxAgeHours      = 24
	defaultAccountMaxAgeHours   = 24 * 7
	defaultMembershipMaxAgeMins = 120
	defaultTankStatsMaxAgeMins  = 360
	defaultReferenceMaxAgeHours = 24 * 7
	defaultMinIntervalMillis    = 100
	defaultMaxAttempts          = 10
	defaultRetryBaseMillis      = 2000
	defaultCacheWriteAttempts   = 10
	defaultCacheWriteBaseMillis = 100
	defaultParallelism          = 4
	defaultPoolSize             = defaultParallelism * 4
	defaultExpectedValuesURL    = "https://static.modxvm.com/wn8-data-exp/json/wn8exp.json"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			ApplicationID:  defaultApplicationID,
			BaseURL:        defaultBaseURL,
			UserAgent:      defaultUserAgent,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Cache: Cache{
			Dir:                  os.TempDir(),
			Prefix:               defaultCachePrefix,
			ClanMaxAgeHours:      defaultClanMaxAgeHours,
			AccountMaxAgeHours:   defaultAccountMaxAgeHours,
			MembershipMaxAgeMins: defaultMembershipMaxAgeMins,
			TankStatsMaxAgeMins:  defaultTankStatsMaxAgeMins,
			ReferenceMaxAgeHours: defaultReferenceMaxAgeHours,
		},
		Fetch: Fetch{
			MinIntervalMillis:    defaultMinIntervalMillis,
			MaxAttempts:          defaultMaxAttempts,
			RetryBaseMillis:      defaultRetryBaseMillis,
			CacheWriteAttempts:   defaultCacheWriteAttempts,
			CacheWriteBaseMillis: defaultCacheWriteBaseMillis,
		},
		Resolve: Resolve{
			Parallelism: defaultParallelism,
			PoolSize:    defaultPoolSize,
		},
		Performance: Performance{
			ExpectedValuesURL: defaultExpectedValuesURL,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
