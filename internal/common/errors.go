package common

import (
	"errors"
	"fmt"
)

// Error categories. Transport layers map these onto status codes with
// errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
)

// WrapError tags an error with a category sentinel and a context
// message. Both the sentinel and the cause stay reachable through
// errors.Is / errors.As.
func WrapError(sentinel error, message string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", sentinel, message)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, message, cause)
}
