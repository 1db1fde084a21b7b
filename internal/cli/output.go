package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Differences found, or an operation failed on valid input
	ExitCommandError = 2 // Command error (bad flags, unreadable input, missing database)
)

// Error codes reported in JSON output.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeUsage        = "E002" // Bad flags or arguments
	ErrCodeReadFailed   = "E003" // Input could not be read or decoded
	ErrCodeInvalidInput = "E004" // Input decoded but unsuitable for the command
	ErrCodeNotFound     = "E005" // Snapshot not found
	ErrCodeStoreFailed  = "E006" // Snapshot database error
	ErrCodeWriteFailed  = "E007" // Output could not be written
	ErrCodeConfig       = "E008" // Configuration file invalid
	ErrCodeDifferences  = "E009" // diff found differences
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	ErrCode string // E0xx code for JSON output, defaults to ErrCodeGeneric
	Message string
	Err     error // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, errCode, message string) *ExitError {
	return &ExitError{Code: code, ErrCode: errCode, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, errCode, message string, err error) *ExitError {
	return &ExitError{Code: code, ErrCode: errCode, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// GetErrCode extracts the E0xx code from an error.
func GetErrCode(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.ErrCode != "" {
		return exitErr.ErrCode
	}
	return ErrCodeGeneric
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for diagnostic output (defaults to Writer)
	Verbose   bool
	RunID     string
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`           // "ok" or "error"
	Data   any       `json:"data,omitempty"`   // success payload
	Error  *CLIError `json:"error,omitempty"`  // error details
	RunID  string    `json:"run_id,omitempty"` // correlates with log lines
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a result in the configured format. In text mode the
// value is printed with fmt; implement fmt.Stringer for custom text.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data, RunID: f.RunID})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Lines outputs a list, one entry per line in text mode. empty is printed
// instead when the list has no entries.
func (f *OutputFormatter) Lines(lines []string, empty string) error {
	if f.Format == "json" {
		if lines == nil {
			lines = []string{}
		}
		return f.Success(lines)
	}
	if len(lines) == 0 {
		if empty == "" {
			return nil
		}
		_, err := fmt.Fprintln(f.Writer, empty)
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(f.Writer, l); err != nil {
			return err
		}
	}
	return nil
}

// Error outputs an error in the configured format. Text errors go to
// ErrWriter so they never mix with documents on stdout.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			RunID: f.RunID,
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// GetErrWriter returns the appropriate writer for diagnostic output.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}
