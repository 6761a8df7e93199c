// Package common defines shared constants and sentinel errors used across
// the service layers of gophaccounts. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Validation errors (malformed caller data).
	ErrInvalidInput = errors.New("invalid input")

	// Account state errors.
	ErrAlreadyExists   = errors.New("already exists")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyVerified = errors.New("already verified")
	ErrNotVerified     = errors.New("not verified")

	// Auth errors. ErrInvalidToken covers bad signature,
	// expiry and wrong purpose alike.
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	// Infrastructure errors.
	ErrStorage           = errors.New("storage error")
	ErrInternal          = errors.New("internal error")
	ErrNestedTransaction = errors.New("already in transaction")
)

// StorageError wraps a fault raised by the persistence backend.
// errors.Is(err, ErrStorage) reports true for it and errors.Unwrap
// yields the original driver error.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err with the name of the failed store operation.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
