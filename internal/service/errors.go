package service

import (
	"errors"
	"fmt"
)

// Sentinel errors translated at the API boundary. Nothing in the
// service layer retries or treats these as fatal.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries the per-rule message surfaced to the caller
// as a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}
