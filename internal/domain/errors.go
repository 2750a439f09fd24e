package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested record doesn't exist in the ledger
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrZeroAddress is returned when a zero address is passed where a
	// non-zero address is required (constructor arguments, wiring targets)
	ErrZeroAddress = errors.New("zero address")

	// ErrMissingConfig is returned when a required configuration value is absent
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrNoChange is returned when a governance proposal would be a no-op
	ErrNoChange = errors.New("no price change")

	// ErrUnconfirmedLargeChange is returned when a price change exceeds the
	// large-change threshold and the operator has not confirmed it
	ErrUnconfirmedLargeChange = errors.New("large price change not confirmed")
)

// SkipError marks a deployment unit as skipped rather than failed. The
// composer logs it as a warning and continues with the next unit.
type SkipError struct {
	Unit   string
	Reason string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("unit %s skipped: %s", e.Unit, e.Reason)
}

// IsSkip reports whether err (or anything it wraps) is a SkipError.
func IsSkip(err error) bool {
	var se *SkipError
	return errors.As(err, &se)
}
