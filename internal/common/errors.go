// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Store errors.
	ErrSchemaNotFound    = errors.New("schema not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrInvalidRecord     = errors.New("invalid record")

	// Model errors.
	ErrInvalidArtifact = errors.New("invalid model artifact")

	// Journal errors.
	ErrDatabaseBusy = errors.New("database busy")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable reports whether err is a transient journal failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrDatabaseBusy) || errors.Is(err, context.DeadlineExceeded)
}
