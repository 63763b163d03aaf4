// Package logging provides structured logging for gpiostatus.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used by the status server, the refresh controller, and the
// CLI. It is silent by default so that curated terminal output stays clean.
//
// # Log Levels
//
//   - Debug: Raw command output, request bodies, timer activity
//   - Info: Refreshes, HTTP requests, settings saves
//   - Warn: Rejected saves, stale responses, missing host commands
//   - Error: Startup failures, unexpected provider errors
//
// # Structured Logging
//
//	logging.Info("Refresh completed",
//	    zap.Uint64("seq", 3),
//	    zap.String("state", "rendered"),
//	)
//
// # Configuration
//
// Initialize logging once at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is given the GPIOSTATUS_LOG_LEVEL environment variable is
// consulted. When that is also empty a no-op logger is installed.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
