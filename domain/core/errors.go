package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Load errors
	ErrLoad          = errors.New("dataset load failed")
	ErrFetch         = fmt.Errorf("%w: fetch", ErrLoad)
	ErrMalformed     = fmt.Errorf("%w: malformed table", ErrLoad)
	ErrMissingHeader = fmt.Errorf("%w: missing header row", ErrMalformed)

	// Query errors
	ErrInvalidRange  = errors.New("invalid range")
	ErrUnknownColumn = errors.New("unknown column")
	ErrColumnType    = errors.New("column type mismatch")
)

// Error constructors with context
func NewLoadError(source string, err error) error {
	if errors.Is(err, ErrLoad) {
		return fmt.Errorf("load %s: %w", source, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrLoad, source, err)
}

func NewInvalidRangeError(column string, low, high float64) error {
	return fmt.Errorf("%w for %s: low %g > high %g", ErrInvalidRange, column, low, high)
}

func NewUnknownColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
}

func NewColumnTypeError(column, want, got string) error {
	return fmt.Errorf("%w: %s is %s, want %s", ErrColumnType, column, got, want)
}

// Error checking helpers
func IsLoadError(err error) bool {
	return errors.Is(err, ErrLoad)
}

func IsInvalidRangeError(err error) bool {
	return errors.Is(err, ErrInvalidRange)
}

func IsUnknownColumnError(err error) bool {
	return errors.Is(err, ErrUnknownColumn)
}
