package domain

import (
	"errors"
	"fmt"
)

// Categorical errors returned by every mutating operation
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("resource not found")
	ErrValidation       = errors.New("validation failed")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
)

// Validation reasons, always wrapped in ErrValidation
var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrMalformedEmail    = errors.New("malformed email")
	ErrPasswordTooShort  = errors.New("password too short")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidTerm       = errors.New("term must be between 1 and 600 months")
	ErrInvalidRate       = errors.New("interest rate must not be negative")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidLoanStatus = errors.New("invalid loan status")
	ErrCannotDeleteAdmin = errors.New("admin users cannot be deleted")
)

// Invalid wraps a validation reason so callers can match both ErrValidation and the reason
func Invalid(reason error) error {
	return fmt.Errorf("%w: %w", ErrValidation, reason)
}

// Invalidf builds a validation error from a message
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
