// Package logging wraps the standard library slog package with
// resticmon-specific defaults: structured JSON output to stderr,
// LOG_LEVEL-based level configuration, module/version context on every
// record, and source location tracking for debug logs.
//
// Typical usage in main:
//
//	logging.SetDefaultStructuredLogger("resticmond", version)
//	slog.Info("starting", "port", 8001)
package logging
