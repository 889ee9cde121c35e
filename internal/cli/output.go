package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/chartpick/internal/chart"
	"github.com/roach88/chartpick/internal/source"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failed, chart specs invalid, click rejected
	ExitCommandError = 2 // Bad arguments, missing files, unknown chart or label
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError creates an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit code carried by err, or ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrorDetails locates an error in the chart, database column or spec file
// it came from. Empty fields are omitted.
type ErrorDetails struct {
	Chart string `json:"chart,omitempty"`
	Label string `json:"label,omitempty"`
	Table string `json:"table,omitempty"`
	Field string `json:"field,omitempty"`
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`
}

// String renders the set fields as key=value pairs.
func (d *ErrorDetails) String() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("chart", d.Chart)
	add("label", d.Label)
	add("table", d.Table)
	add("field", d.Field)
	add("file", d.File)
	if d.Line > 0 {
		parts = append(parts, fmt.Sprintf("line=%d", d.Line))
	}
	return strings.Join(parts, " ")
}

// detailsOf collects ErrorDetails from the chart, source and load errors in
// err's chain. Returns nil when none is found.
func detailsOf(err error) *ErrorDetails {
	var (
		d     ErrorDetails
		found bool
	)
	var ce *chart.Error
	if errors.As(err, &ce) {
		d.Chart, d.Label, found = ce.Chart, ce.Label, true
	}
	var se *source.Error
	if errors.As(err, &se) {
		d.Table, d.Field, found = se.Table, se.Field, true
	}
	var le *LoadError
	if errors.As(err, &le) && le.Pos.IsValid() {
		d.File, d.Line, found = le.Pos.Filename(), le.Pos.Line(), true
	}
	if !found {
		return nil
	}
	return &d
}

// OutputFormatter writes command results as text or JSON.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Verbose output; keeps JSON on Writer parseable
	Verbose   bool
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a CLIResponse.
type CLIError struct {
	Code    string        `json:"code"` // "E005", "E203", "ELEMENT_NOT_FOUND", ...
	Message string        `json:"message"`
	Details *ErrorDetails `json:"details,omitempty"`
}

// Success writes a result.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error writes an error. In text mode details follow on an indented line.
func (f *OutputFormatter) Error(code, message string, details *ErrorDetails) error {
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
	if details != nil {
		fmt.Fprintf(f.Writer, "  at %s\n", details)
	}
	return nil
}

// Fail writes err and returns it wrapped with the exit code. Chart and load
// errors report their own code in place of code.
func (f *OutputFormatter) Fail(exit int, code string, err error) error {
	message := err.Error()
	var ce *chart.Error
	var le *LoadError
	switch {
	case errors.As(err, &ce):
		code = string(ce.Code)
	case errors.As(err, &le):
		code, message = le.Code, le.Message
	}
	_ = f.Error(code, message, detailsOf(err))
	return WrapExitError(exit, code, err)
}

// VerboseLog writes a line under --verbose, to ErrWriter when set.
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
