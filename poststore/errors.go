package poststore

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotFound is returned when a requested post does not exist.
	ErrNotFound = errors.New("post not found")
	// ErrForbidden is returned when a mutation is attempted without admin rights.
	ErrForbidden = errors.New("admin login required")
	// ErrInvalidInput is returned when a new post fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreUnavailable is returned when the filesystem denies access.
	ErrStoreUnavailable = errors.New("post store unavailable")
)

// InvalidInputError carries a reason that is safe to show to the author.
// It matches ErrInvalidInput with errors.Is.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(reason string) error {
	return &InvalidInputError{Reason: reason}
}

func readErr(op string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return unavailable(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func writeErr(op string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return unavailable(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w (%v)", op, ErrStoreUnavailable, err)
}
