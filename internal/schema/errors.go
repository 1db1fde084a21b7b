package schema

import (
	"errors"
	"fmt"
)

// ErrCodeInvalidArgument prefixes InvalidArgumentError messages.
const ErrCodeInvalidArgument = "INVALID_ARGUMENT"

// InvalidArgumentError reports an entity of the wrong kind (or nil) passed
// where a specific kind is required, e.g. flattening something that is not
// a Stack.
type InvalidArgumentError struct {
	// Op names the operation that rejected the argument.
	Op string

	// Message is a human-readable description.
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", ErrCodeInvalidArgument, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s", ErrCodeInvalidArgument, e.Message)
}

// NewInvalidArgumentError creates an InvalidArgumentError.
func NewInvalidArgumentError(op, format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// IsInvalidArgument returns true if err is (or wraps) an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var ie *InvalidArgumentError
	return errors.As(err, &ie)
}
