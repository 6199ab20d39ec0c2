package models

import (
	"errors"
	"fmt"

	"github.com/joshua-takyi/devevents/internal/helpers"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidDate = helpers.ErrInvalidDate
	ErrInvalidTime = helpers.ErrInvalidTime
)

// ValidationError reports a missing or malformed field. Field is the JSON name.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s", e.Field)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConflictError is returned when a write would duplicate an existing slug.
type ConflictError struct {
	Slug string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("an event with slug %q already exists", e.Slug)
}

// ReferenceError is returned when a booking points at an event that does not exist.
type ReferenceError struct {
	EventID string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("cannot create booking: referenced event %s does not exist", e.EventID)
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
