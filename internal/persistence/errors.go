package persistence

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a ProgressStore when a character has no saved
// progress yet.
var ErrNotFound = errors.New("progress not found")

// SaveError wraps a failed write with the attempt number.
type SaveError struct {
	SaveID  string
	Attempt int
	Err     error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s attempt %d: %v", e.SaveID, e.Attempt, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// LoadError wraps a failed fetch with the source that failed.
type LoadError struct {
	Source string // "graph" or "progress"
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
