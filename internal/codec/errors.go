package codec

import (
	"errors"
	"fmt"
)

// ErrorCode classifies codec failures.
type ErrorCode string

const (
	// ErrCodeUnknownFormat means a file extension or format name is not
	// one of the supported document formats.
	ErrCodeUnknownFormat ErrorCode = "UNKNOWN_FORMAT"

	// ErrCodeMalformed means the bytes are not a valid document.
	ErrCodeMalformed ErrorCode = "MALFORMED_DOCUMENT"

	// ErrCodeUnsupportedKind means the document or value has a kind the
	// codec cannot represent.
	ErrCodeUnsupportedKind ErrorCode = "UNSUPPORTED_KIND"
)

// Error is returned by every codec operation that fails on its input.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func malformed(err error, format string, args ...any) *Error {
	return &Error{Code: ErrCodeMalformed, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsMalformed returns true if err is (or wraps) a malformed-document error.
func IsMalformed(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == ErrCodeMalformed
}

// IsUnknownFormat returns true if err is (or wraps) an unknown-format error.
func IsUnknownFormat(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == ErrCodeUnknownFormat
}
