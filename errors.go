package asciify

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrInvalidOption is returned when conversion options fail validation,
	// before any file is written or process spawned.
	ErrInvalidOption = errors.New("invalid option")

	// ErrBinaryNotFound is returned when the converter executable cannot be
	// located on the search path. Checked eagerly, never as a spawn failure.
	ErrBinaryNotFound = errors.New("converter binary not found")

	// ErrFetch is returned when fetching a URL source fails or the response
	// body is empty.
	ErrFetch = errors.New("fetch failed")

	// ErrConversionFailed is returned when the converter process exits
	// non-zero or produces no output.
	ErrConversionFailed = errors.New("conversion failed")
)

// OptionError wraps ErrInvalidOption with the offending option name and value.
type OptionError struct {
	Name  string
	Value any
}

// Error implements the error interface.
func (oe *OptionError) Error() string {
	return fmt.Sprintf("invalid option %s=%v", oe.Name, oe.Value)
}

// Unwrap makes OptionError match ErrInvalidOption with errors.Is.
func (oe *OptionError) Unwrap() error {
	return ErrInvalidOption
}
