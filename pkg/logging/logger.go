package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level names accepted by Config.Level and the LOG_LEVEL variable.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
	FatalLevel = "fatal"
)

// Format names accepted by Config.Format and the LOG_FORMAT variable.
const (
	JSONFormat = "json"
	TextFormat = "text"
)

// Config holds logger configuration.
type Config struct {
	// Level sets the minimum log level.
	Level string

	// Format sets the output format (json or text).
	Format string

	// AddCaller adds file and line number to log entries.
	AddCaller bool

	// EnableColor enables colored output for text format.
	EnableColor bool
}

// DefaultConfig returns the configuration used when nothing overrides it:
// colored text at info level, with caller reporting on.
func DefaultConfig() Config {
	return Config{
		Level:       InfoLevel,
		Format:      TextFormat,
		AddCaller:   true,
		EnableColor: true,
	}
}

// NewLogger creates a configured logrus instance writing to stdout.
func NewLogger(config Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(parseLogLevel(config.Level))

	switch config.Format {
	case JSONFormat:
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "caller",
			},
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FullTimestamp:   true,
			ForceColors:     config.EnableColor,
			DisableColors:   !config.EnableColor,
		})
	}

	logger.SetReportCaller(config.AddCaller)
	logger.SetOutput(os.Stdout)

	return logger
}

// NewLoggerFromEnv creates a logger from DefaultConfig overridden by the
// LOG_LEVEL and LOG_FORMAT environment variables.
func NewLoggerFromEnv() *logrus.Logger {
	config := DefaultConfig()

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Level = strings.ToLower(level)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		config.Format = strings.ToLower(format)
	}

	return NewLogger(config)
}

func parseLogLevel(level string) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// ComponentLogger returns an entry tagged with the owning component
// (server, client, transport), the field every process-level log carries.
func ComponentLogger(logger *logrus.Logger, component string) *logrus.Entry {
	return logger.WithField("component", component)
}

// PeerLogger returns an entry tagged with a peer's connection id, for
// per-connection diagnostics in the transport and lifecycle code.
func PeerLogger(logger *logrus.Logger, peerID uint64) *logrus.Entry {
	return logger.WithField("peerID", peerID)
}
