// Package logging assembles structured slog loggers and formatting helpers used
// across salita services.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so request handlers can
// automatically tag log lines with user IDs, request IDs, and game types. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
