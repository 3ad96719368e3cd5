package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Lookup errors
	ErrNotFound       = errors.New("resource not found")
	ErrResultNotFound = fmt.Errorf("%w: test result", ErrNotFound)

	// Evaluation errors
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrInsufficientData  = errors.New("insufficient data for analysis")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrDistribution      = errors.New("distribution error")

	// ErrNoSufficientModel is advisory: no candidate in a nested family was
	// confirmed adequate, so the richest one was selected.
	ErrNoSufficientModel = errors.New("no sufficient model")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewResultNotFoundError reports an unknown evaluation record id
func NewResultNotFoundError(id string) error {
	return fmt.Errorf("%w: id %s", ErrResultNotFound, id)
}

func NewInvalidParameterError(param string, value interface{}, reason string) error {
	return fmt.Errorf("%w: %s=%v: %s", ErrInvalidParameter, param, value, reason)
}

func NewInsufficientDataError(what string, got, need int) error {
	return fmt.Errorf("%w: %s has %d observations, need at least %d", ErrInsufficientData, what, got, need)
}

func NewDimensionMismatchError(left string, leftLen int, right string, rightLen int) error {
	return fmt.Errorf("%w: len(%s)=%d, len(%s)=%d", ErrDimensionMismatch, left, leftLen, right, rightLen)
}

func NewDistributionError(family string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrDistribution, family, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCallerError reports whether err is one of the evaluation faults a caller
// can fix by changing its input.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrDistribution)
}

// ErrorKind names the taxonomy entry of err for front ends.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidParameter):
		return "InvalidParameter"
	case errors.Is(err, ErrInsufficientData):
		return "InsufficientData"
	case errors.Is(err, ErrDimensionMismatch):
		return "DimensionMismatch"
	case errors.Is(err, ErrDistribution):
		return "DistributionError"
	case errors.Is(err, ErrNoSufficientModel):
		return "NoSufficientModel"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	default:
		return "Unknown"
	}
}
