package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a natural-key lookup that matched no row.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a delete rejected because dependent rows still exist.
	ErrConflict = errors.New("conflict")

	// ErrNotAuthenticated is returned for any failed login. Unknown email and
	// wrong password are deliberately indistinguishable.
	ErrNotAuthenticated = errors.New("invalid credentials")
)

// NotFoundError carries the entity kind and the offending natural key.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Entity, e.Key) }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports which dependents block a delete.
type ConflictError struct {
	Entity string
	Key    string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot delete %s %q: %s", e.Entity, e.Key, e.Reason)
}
func (e *ConflictError) Unwrap() error { return ErrConflict }
