// Package stagehand drives timed, interruptible screen transitions.
//
// A frame source delivers ticks to a scheduler, interpolators produce fading
// values on those ticks and a manager decides which screen enters and which
// leaves. The subpackages can be used on their own; this package wires them
// from a config file for the common case.
package stagehand

import (
	"log/slog"
	"os"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/constants"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/internal"
)

// Options configures logging.
type Options struct {
	LogPath  string // Full path for log file including filename (creates parent directories)
	LogLevel string // Application log level ("debug", "info", "warn", "error")
}

// Init sets up logging. Call it before Open.
// STAGEHAND_DEBUG raises the internal logger to debug and
// STAGEHAND_LOG_LEVEL overrides options.LogLevel.
func Init(options Options) {
	if options.LogPath != "" {
		internal.SetLogPath(options.LogPath)
	}

	if os.Getenv(constants.DebugEnvVar) != "" {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else {
		internal.SetInternalLogLevel(slog.LevelError)
	}

	applyLogLevel(options.LogLevel)
}

// applyLogLevel sets the application level unless STAGEHAND_LOG_LEVEL pins it.
func applyLogLevel(level string) {
	if v := os.Getenv(constants.LogLevelEnvVar); v != "" {
		level = v
	}
	internal.SetRawLogLevel(level)
}

// Close flushes and closes the log file.
func Close() {
	internal.CloseLogger()
}

// SetLogPath sets the full path for the log file, including filename.
// Call before Init() to take effect during initialization.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}
