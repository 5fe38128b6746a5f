package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrConflict        = errors.New("unique constraint violated")
	ErrForbidden       = errors.New("forbidden")
	ErrInternal        = errors.New("unexpected error, check server logs")
)

// NotFoundError carries the id or term that failed to resolve.
type NotFoundError struct {
	Term string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with %s not found", e.Term)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// ConflictError reports a duplicate title or slug. Detail is the store's
// description of the violated constraint and is safe to show to clients.
type ConflictError struct {
	Detail string
	Err    error
}

func (e *ConflictError) Error() string {
	if e.Detail == "" {
		return ErrConflict.Error()
	}
	return e.Detail
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}
