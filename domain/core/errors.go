package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input file errors
	ErrFileNotFound  = errors.New("file not found")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrParse         = errors.New("malformed spreadsheet")

	// Schema errors
	ErrSchema         = errors.New("schema error")
	ErrColumnNotFound = fmt.Errorf("%w: column not found", ErrSchema)
	ErrNonNumeric     = fmt.Errorf("%w: column is not numeric", ErrSchema)

	// Fit errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrZeroVariance     = errors.New("independent variable has zero variance")
	ErrLengthMismatch   = errors.New("x and y lengths differ")

	// Rendering errors
	ErrDisplayUnavailable = errors.New("display surface unavailable")
	ErrRender             = errors.New("figure rendering failed")
)

// Error constructors with context
func NewColumnNotFoundError(column string, available []string) error {
	return fmt.Errorf("%w: %q (have %v)", ErrColumnNotFound, column, available)
}

func NewNonNumericError(column string, row int, value string) error {
	return fmt.Errorf("%w: %q row %d has value %q", ErrNonNumeric, column, row, value)
}

func NewParseError(path string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrParse, path, reason)
}

// Error checking helpers
func IsInputError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrParse)
}

func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

func IsFitError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrZeroVariance) ||
		errors.Is(err, ErrLengthMismatch)
}
