// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Detection errors.
	ErrNoTransactions = errors.New("no transactions to analyze")

	// Scoring errors. ErrModelUnavailable is deliberately distinct so
	// callers can fall back to the heuristic path instead of failing.
	ErrModelUnavailable = errors.New("trained model unavailable")
	ErrSchemaUnusable   = errors.New("model feature schema unusable")

	// Training errors.
	ErrSingleClassLabels = errors.New("weak labels contain a single class")

	// Configuration errors.
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
