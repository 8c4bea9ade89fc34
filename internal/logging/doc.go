// Package logging assembles structured slog loggers and formatting helpers used
// across rostercheck.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context helpers so pass code can tag log lines with the run id,
// the current pass, and the source line being processed. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
