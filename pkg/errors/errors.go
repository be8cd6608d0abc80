package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is()
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrValidation     = errors.New("validation error")
	ErrConflict       = errors.New("resource already exists")
	ErrInternalServer = errors.New("internal server error")

	// ErrDenied is the single denial value for every authorization failure.
	// Missing resources, missing grants and missing identity all surface as
	// this same error so callers cannot tell them apart.
	ErrDenied = errors.New("user lacks permission to complete this action")

	// ErrModeMismatch signals a credential type the current auth mode does not
	// support. A configuration problem, not an authorization denial.
	ErrModeMismatch = errors.New("current application mode does not support incoming authentication type")

	// ErrProvider wraps storage backend failures.
	ErrProvider = errors.New("storage provider operation failed")
)

// AppError carries a stable code alongside a wrapped cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Err: ErrUnauthorized}
}

func Validation(msg string) *AppError {
	return &AppError{Code: "VALIDATION", Message: msg, Err: ErrValidation}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Err: ErrConflict}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: err}
}

func ModeMismatch(mode, authType string) *AppError {
	return &AppError{
		Code:    "AUTH_MODE_MISMATCH",
		Message: fmt.Sprintf("auth mode %s does not accept %s credentials", mode, authType),
		Err:     ErrModeMismatch,
	}
}

func Provider(op string, err error) *AppError {
	return &AppError{
		Code:    "PROVIDER_FAILURE",
		Message: fmt.Sprintf("storage provider %s failed", op),
		Err:     fmt.Errorf("%w: %w", ErrProvider, err),
	}
}
