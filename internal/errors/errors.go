package errors

import "errors"

// Sentinel errors for common failure modes.
var (
	ErrDuplicateID        = errors.New("duplicate id")
	ErrUnsupportedVersion = errors.New("unsupported export version")
	ErrCycleDetected      = errors.New("move would create a folder cycle")
	ErrRequestFailed      = errors.New("request failed")
	ErrTimeout            = errors.New("operation timed out")
	ErrUserCancelled      = errors.New("user cancelled operation")
	ErrNoPatchChunks      = errors.New("no recognizable patch chunks")
)

// ValidationError represents a field validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
