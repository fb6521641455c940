// Package logging assembles structured slog loggers and formatting helpers used
// across taiyaku.
//
// It owns the configurable console/JSON handlers, routes file output through a
// size-rotated writer, and exposes context-aware helpers so dispatcher and
// transport code can tag log lines with operation names, script IDs, and
// correlation IDs. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
