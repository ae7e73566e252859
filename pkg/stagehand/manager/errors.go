package manager

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrUnknownScreenType indicates a descriptor names a type missing from the registry.
	ErrUnknownScreenType = errors.New("unknown screen type")

	// ErrDuplicateScreen indicates two descriptors share a screen id.
	ErrDuplicateScreen = errors.New("duplicate screen id")

	// ErrDisposed is returned by operations on a disposed manager.
	ErrDisposed = errors.New("manager disposed")

	// ErrNotInitialized is returned by Reset before Initialize has run.
	ErrNotInitialized = errors.New("manager not initialized")
)

// NavigationError reports a failure to build or reach a navigation target.
// Failures during Initialize abort it; nothing is retried.
type NavigationError struct {
	Op       string // Operation that failed (e.g., "initialize", "create")
	ScreenID string // Screen involved, if any
	Err      error  // Underlying error
}

func (e *NavigationError) Error() string {
	switch {
	case e.ScreenID != "" && e.Err != nil:
		return fmt.Sprintf("stagehand: %s %q: %v", e.Op, e.ScreenID, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("stagehand: %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("stagehand: %s", e.Op)
	}
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// NewNavigationError creates a new navigation error.
func NewNavigationError(op, screenID string, err error) *NavigationError {
	return &NavigationError{Op: op, ScreenID: screenID, Err: err}
}

// IsNavigationError checks if an error is a navigation error.
func IsNavigationError(err error) bool {
	var navErr *NavigationError
	return errors.As(err, &navErr)
}
