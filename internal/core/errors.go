package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no token with the requested id exists.
	ErrNotFound = errors.New("token not found")

	// ErrDuplicateID is returned by repositories when an id is inserted twice.
	ErrDuplicateID = errors.New("duplicate token id")
)

// ValidationError describes bad input for a token operation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// NotFoundError names the id that could not be found. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "No token found with id: " + e.ID
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
