package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Pipeline error taxonomy. Per-item failures (ErrInvalidItemEntry) are
// recovered by exclusion and never escalate; only total extraction
// failure or total item loss fail an invocation.
var (
	ErrMalformedResponse = errors.New("malformed model response")
	ErrInvalidItemEntry  = errors.New("invalid item entry")
	ErrEmptyExpense      = errors.New("no valid items in expense")
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternal          = errors.New("internal error")
)

// MalformedResponseError carries the original model text so the caller
// can log it for diagnostics. It matches ErrMalformedResponse via errors.Is.
type MalformedResponseError struct {
	RawText string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed model response: %v", e.Cause)
	}
	return "malformed model response"
}

func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
