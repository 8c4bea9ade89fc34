// Package config loads, normalizes, and validates rostercheck configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// WG_APPLICATION_ID. The Config type centralizes every knob the CLI and the
// validation pipeline need, so the cache directory, API credentials, and
// fetch policy are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
