package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCategory classifies errors for logging and response.
type ErrorCategory string

const (
	ErrCatValidation    ErrorCategory = "validation"
	ErrCatConfiguration ErrorCategory = "configuration"
	ErrCatService       ErrorCategory = "service_error"
	ErrCatRateLimit     ErrorCategory = "rate_limit"
	ErrCatUnknown       ErrorCategory = "unknown"
)

// AppError wraps an error with a category and HTTP status code.
type AppError struct {
	Category   ErrorCategory
	Message    string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *AppError {
	return &AppError{
		Category:   ErrCatValidation,
		Message:    msg,
		StatusCode: http.StatusBadRequest,
	}
}

// NewConfigurationError reports a deployment problem (unknown label, empty corpus).
// It is never retried.
func NewConfigurationError(msg string) *AppError {
	return &AppError{
		Category:   ErrCatConfiguration,
		Message:    msg,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewServiceError reports a failed call to an external collaborator
// (classifier or language model). A deadline maps to 504.
func NewServiceError(msg string, err error) *AppError {
	status := http.StatusBadGateway
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	return &AppError{
		Category:   ErrCatService,
		Message:    msg,
		StatusCode: status,
		Err:        err,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Category:   ErrCatRateLimit,
		Message:    "rate limit exceeded",
		StatusCode: http.StatusTooManyRequests,
	}
}

func NewInternalError(msg string, err error) *AppError {
	return &AppError{
		Category:   ErrCatUnknown,
		Message:    msg,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// CategoryOf returns the category of err, or ErrCatUnknown.
func CategoryOf(err error) ErrorCategory {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category
	}
	return ErrCatUnknown
}
