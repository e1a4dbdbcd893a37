package graphfile

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for files whose extension names no known
// graph format.
var ErrUnsupportedFormat = errors.New("unsupported graph format")

// SchemaError reports a graph document that failed schema validation.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("graph %s does not match schema: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
