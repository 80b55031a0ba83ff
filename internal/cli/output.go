package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit codes. 0 is success; the two failure codes separate "the
// inputs or the run were bad" from "the command could not even start".
const (
	ExitFailure      = 1 // domain failure: invalid profile, failed scenario, bad transform input
	ExitCommandError = 2 // command error: missing file, unreadable database, bad flag combination
)

// ExitError carries a process exit code alongside the failure message,
// so RunE implementations can pick the code where the failure happens
// and main only has to unwrap it.
type ExitError struct {
	Code    int
	Message string
	Err     error // optional cause
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

// NewExitError builds an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code and context to an existing error.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit code an error asks for, defaulting to
// ExitFailure when the chain carries no ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter renders command results as either plain text or the
// CLIResponse JSON envelope, depending on the --format flag.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose/diagnostic sink; falls back to Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope every command emits in json format:
// a status discriminator plus either a payload or an error.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" | "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError is the error half of CLIResponse. Code carries the machine
// identifier ("E101", "INVALID_HEX"), Message the human one.
type CLIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success emits data: wrapped in the envelope for json, printed as-is
// for text.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error emits a coded failure. Details ride along in json; text shows
// them only under --verbose.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog prints a diagnostic line when --verbose is set. It writes
// to ErrWriter so json output on Writer stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
