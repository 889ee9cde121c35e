package chart

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes chart errors.
type ErrorCode string

const (
	// ErrCodeElementNotFound indicates a click on a label the chart does not have.
	ErrCodeElementNotFound ErrorCode = "ELEMENT_NOT_FOUND"

	// ErrCodeInvalidSelection indicates the selected elements do not form a
	// valid predicate, e.g. range bounds of different kinds.
	ErrCodeInvalidSelection ErrorCode = "INVALID_SELECTION"
)

// Error is returned by chart operations that callers may branch on.
type Error struct {
	Code  ErrorCode
	Chart string // Field name of the chart
	Label string // Element label, when one is involved
	Err   error  // Underlying cause, if any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: chart %q", e.Code, e.Chart)
	if e.Label != "" {
		msg += fmt.Sprintf(", element %q", e.Label)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound returns true if the error reports an unknown element label.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeElementNotFound
	}
	return false
}
