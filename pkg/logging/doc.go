// Package logging configures the structured logger shared by the server and
// client binaries. It wraps logrus with environment-based configuration:
//
//   - LOG_LEVEL: minimum level (debug, info, warn, error, fatal). Default: info
//   - LOG_FORMAT: output format (json, text). Default: text
//
// Initialize once at startup and pass entries down:
//
//	log := logging.NewLoggerFromEnv().WithField("component", "server")
//	log.WithField("addr", addr).Info("server listening")
//
// Keep per-tick paths at debug level or below; the tick loop runs at ~64Hz
// and an info-level line per tick floods the output.
package logging
