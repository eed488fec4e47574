// Package logging assembles structured slog loggers and formatting helpers
// used across postforge.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes attribute helpers so pipeline code tags log lines with
// component names and event types consistently. The package also provides a
// no-op logger for tests and wiring code that cannot fail, plus retention
// pruning used by the maintenance tick.
package logging
