package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateResolve(); err != nil {
		return err
	}
	return c.validatePerformance()
}

func (c *Config) validateAPI() error {
	if c.API.ApplicationID == "" {
		return errors.New("api.application_id is required (or set WG_APPLICATION_ID)")
	}
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url %q is not an absolute url", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds <= 0 {
		return errors.New("api.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if strings.ContainsAny(c.Cache.Prefix, `/\`) {
		return fmt.Errorf("cache.prefix %q must not contain path separators", c.Cache.Prefix)
	}
	return ensurePositiveMap(map[string]int{
		"cache.clan_max_age_hours":         c.Cache.ClanMaxAgeHours,
		"cache.account_max_age_hours":      c.Cache.AccountMaxAgeHours,
		"cache.membership_max_age_minutes": c.Cache.MembershipMaxAgeMins,
		"cache.tank_stats_max_age_minutes": c.Cache.TankStatsMaxAgeMins,
		"cache.reference_max_age_hours":    c.Cache.ReferenceMaxAgeHours,
	})
}

func (c *Config) validateFetch() error {
	if c.Fetch.MinIntervalMillis < 0 {
		return errors.New("fetch.min_interval_ms must not be negative")
	}
	if c.Fetch.RetryBaseMillis < 0 || c.Fetch.CacheWriteBaseMillis < 0 {
		return errors.New("fetch retry base intervals must not be negative")
	}
	return ensurePositiveMap(map[string]int{
		"fetch.max_attempts":         c.Fetch.MaxAttempts,
		"fetch.cache_write_attempts": c.Fetch.CacheWriteAttempts,
	})
}

func (c *Config) validateResolve() error {
	if c.Resolve.Parallelism <= 0 {
		return errors.New("resolve.parallelism must be positive")
	}
	if c.Resolve.PoolSize < c.Resolve.Parallelism {
		return fmt.Errorf("resolve.pool_size (%d) must be at least resolve.parallelism (%d)", c.Resolve.PoolSize, c.Resolve.Parallelism)
	}
	return nil
}

func (c *Config) validatePerformance() error {
	if !c.Performance.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Performance.ExpectedValuesURL) == "" {
		return errors.New("performance.expected_values_url must be set when performance.enabled is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
