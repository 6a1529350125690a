// Package logging assembles structured slog loggers and formatting helpers used
// across bisub.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so translation code can tag log
// lines with run IDs, chunk numbers, and providers automatically. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// CLI logs go to stderr so translated output can be piped from stdout.
package logging
