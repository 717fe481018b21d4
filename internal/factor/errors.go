package factor

import "errors"

// Sentinel errors for consistent error handling.
var (
	ErrInvalidRank      = errors.New("factor: invalid rank")
	ErrNumericalFailure = errors.New("factor: numerical failure")
	ErrUnsupported      = errors.New("factor: unsupported operation")
	ErrCancelled        = errors.New("factor: cancelled")
)
