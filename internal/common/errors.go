// Package common defines shared constants and sentinel errors used across
// client and server layers of Krishi Sahayak. Callers should use errors.Is
// (or errors.As for ValidationError) to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrPersistence    = errors.New("persistence error")
	ErrGateway        = errors.New("generation gateway error")

	// Credential errors. Both are unauthorized, but callers can tell them apart.
	ErrUserNotFound      = fmt.Errorf("%w: user not found", ErrorUnauthorized)
	ErrIncorrectPassword = fmt.Errorf("%w: incorrect password", ErrorUnauthorized)
	ErrInvalidUserID     = fmt.Errorf("%w: invalid user id", ErrorUnauthorized)

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrNoUserID     = errors.New("token missing user identification")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation error")
)

// ValidationError reports malformed or missing input. Message is safe to show
// to the end user as is.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
