// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Analysis errors.
	ErrInvalidInput     = errors.New("invalid input")
	ErrModelUnavailable = errors.New("model unavailable")
	ErrPrediction       = errors.New("prediction failed")

	// Training errors.
	ErrData = errors.New("data error")

	// Storage errors.
	ErrNotFound        = errors.New("not found")
	ErrCorruptArtifact = errors.New("artifact corrupted")

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

// InvalidInputError reports a message that cannot be analyzed.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid message: %s", e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidInput).
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// DataError reports a training dataset that cannot be used.
type DataError struct {
	Err    error
	Path   string
	Reason string
}

func (e *DataError) Error() string {
	msg := e.Reason
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "data error: " + msg
}

// Is matches ErrData in addition to the wrapped cause.
func (e *DataError) Is(target error) bool {
	return target == ErrData
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a DataError for the dataset at path.
func NewDataError(path, reason string, err error) error {
	return &DataError{Path: path, Reason: reason, Err: err}
}
