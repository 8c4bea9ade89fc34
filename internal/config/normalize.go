package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAPI()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeResolve()
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeAPI() {
	c.API.ApplicationID = strings.TrimSpace(c.API.ApplicationID)
	if value, ok := os.LookupEnv("WG_APPLICATION_ID"); ok && strings.TrimSpace(value) != "" {
		c.API.ApplicationID = strings.TrimSpace(value)
	}
	if c.API.ApplicationID == "" {
		c.API.ApplicationID = defaultApplicationID
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	c.API.UserAgent = strings.TrimSpace(c.API.UserAgent)
	if c.API.UserAgent == "" {
		c.API.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.Dir) == "" {
		c.Cache.Dir = os.TempDir()
	}
	var err error
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return fmt.Errorf("cache.dir: %w", err)
	}
	c.Cache.Prefix = strings.Trim(strings.TrimSpace(c.Cache.Prefix), ".")
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = defaultCachePrefix
	}
	return nil
}

func (c *Config) normalizeResolve() {
	if c.Resolve.PoolSize == 0 && c.Resolve.Parallelism > 0 {
		c.Resolve.PoolSize = c.Resolve.Parallelism * 4
	}
}

func (c *Config) normalizeOutput() error {
	c.Output.MetricsTextfile = strings.TrimSpace(c.Output.MetricsTextfile)
	if c.Output.MetricsTextfile == "" {
		return nil
	}
	var err error
	if c.Output.MetricsTextfile, err = expandPath(c.Output.MetricsTextfile); err != nil {
		return fmt.Errorf("output.metrics_textfile: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
