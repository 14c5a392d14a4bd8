// Package validate checks caller-supplied arguments before any timing
// computation runs. Checks fail fast with structured errors so the CLI can
// report a precise code and field instead of a generic message.
package validate

import (
	"errors"
	"fmt"
	"math"
)

// Code categorizes validation failures.
type Code string

const (
	// CodeTooShort indicates a timing sequence with fewer than two samples.
	CodeTooShort Code = "TOO_SHORT"

	// CodeNotFinite indicates a NaN or infinite value.
	CodeNotFinite Code = "NOT_FINITE"

	// CodeNotMonotonic indicates a timing sequence that decreases.
	CodeNotMonotonic Code = "NOT_MONOTONIC"

	// CodeOutOfRange indicates a percentage outside [0, 100].
	CodeOutOfRange Code = "OUT_OF_RANGE"

	// CodeNotPositive indicates a value that must be strictly positive.
	CodeNotPositive Code = "NOT_POSITIVE"
)

// ValidationError reports why an argument was rejected.
type ValidationError struct {
	// Code identifies the failure category.
	Code Code

	// Field names the rejected argument.
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: argument %q %s", e.Code, e.Field, e.Message)
}

// IsCode returns true if err is a ValidationError with the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code Code) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == code
	}
	return false
}

// Sequence checks a reference timing sequence: at least two samples, every
// value finite, and non-decreasing order.
func Sequence(name string, seq []float64) error {
	if len(seq) < 2 {
		return &ValidationError{
			Code:    CodeTooShort,
			Field:   name,
			Message: fmt.Sprintf("must contain at least 2 timestamps, got %d", len(seq)),
		}
	}
	for i, v := range seq {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ValidationError{
				Code:    CodeNotFinite,
				Field:   name,
				Message: fmt.Sprintf("contains non-finite value at index %d", i),
			}
		}
		if i > 0 && v < seq[i-1] {
			return &ValidationError{
				Code:    CodeNotMonotonic,
				Field:   name,
				Message: fmt.Sprintf("decreases at index %d (%g < %g)", i, v, seq[i-1]),
			}
		}
	}
	return nil
}

// Percent checks that v is a finite percentage in [0, 100].
func Percent(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || 100 < v {
		return &ValidationError{
			Code:    CodeOutOfRange,
			Field:   name,
			Message: fmt.Sprintf("should represent a percentage between 0 and 100, got %g", v),
		}
	}
	return nil
}

// Positive checks that v is finite and strictly positive.
func Positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &ValidationError{
			Code:    CodeNotPositive,
			Field:   name,
			Message: fmt.Sprintf("must be finite and > 0, got %g", v),
		}
	}
	return nil
}
