package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/thehand/internal/journal"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Journal failure (validation, locked entry, capacity, ...)
	ExitCommandError = 2 // Command error (bad flags, database not openable, ...)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
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

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Diagnostic output; defaults to Writer
	Verbose   bool
}

// Response is the standard JSON response format for CLI output.
type Response struct {
	Status string         `json:"status"`          // "ok" or "error"
	Data   any            `json:"data,omitempty"`  // success payload
	Error  *ResponseError `json:"error,omitempty"` // error details
}

// ResponseError is the error structure for CLI responses.
type ResponseError struct {
	Code    string `json:"code"`    // journal error code or "COMMAND"
	Message string `json:"message"` // human-readable message
}

// newFormatter builds the formatter for a command invocation.
func newFormatter(opts *RootOptions, w io.Writer, errW io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w, ErrWriter: errW, Verbose: opts.Verbose}
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Fail reports a journal error inline and returns an ExitError so the
// process exits non-zero. Journal errors are recoverable: they surface
// as messages, never as crashes.
func (f *OutputFormatter) Fail(err error) error {
	code := "COMMAND"
	var je *journal.Error
	if errors.As(err, &je) {
		code = string(je.Code)
	}

	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(Response{
			Status: "error",
			Error:  &ResponseError{Code: code, Message: err.Error()},
		})
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %v\n", code, err)
	}
	return &ExitError{Code: ExitFailure, Message: err.Error(), Err: err}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Diagnostics go to ErrWriter so they never corrupt JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
