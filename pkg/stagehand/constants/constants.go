// Package constants defines shared constants and configuration values
// used throughout the stagehand packages.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// DebugEnvVar raises the internal logger to debug level when set.
const DebugEnvVar = "STAGEHAND_DEBUG"

// LogLevelEnvVar overrides the application log level (e.g. "debug", "warn").
const LogLevelEnvVar = "STAGEHAND_LOG_LEVEL"

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv("ENVIRONMENT") == Development
}

// NominalFrameIntervalMs is the frame interval, in milliseconds, that
// interpolator step sizes are computed against (60 frames per second).
const NominalFrameIntervalMs = 50.0 / 3.0

// Default timing constants.
const (
	DefaultAnimationDuration = 400 * time.Millisecond // Fade in/out duration for screen transitions
	DefaultMillisPerChar     = 17                     // Text reveal pacing
	DefaultTimerStepModulo   = 10                     // Timer emits "tick" every N scheduler ticks
	DefaultResizeDebounce    = 50 * time.Millisecond  // Viewport resize coalescing window
	DefaultTickInterval      = time.Second / 60       // Wall-clock ticker interval for headless sources
)

// DefaultKeepRatio is the height/width ratio kept by the viewport on desktop.
const DefaultKeepRatio = 640.0 / 1024.0
