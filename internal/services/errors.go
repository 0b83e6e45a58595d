package services

import (
	"errors"
	"strings"
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }

// MissingFilterError is returned by the terminal video query when any of the
// chain keys is absent. No store call has been made.
type MissingFilterError struct {
	Missing []string
}

func (e *MissingFilterError) Error() string {
	return "missing required filters: " + strings.Join(e.Missing, ", ")
}

// StoreError wraps a document store failure. Callers surface it as a generic
// fetch failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// ErrSkipped marks an object the thumbnail pipeline rejected on purpose.
var ErrSkipped = errors.New("skipped")
