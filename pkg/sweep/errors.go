package sweep

import "fmt"

type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidSweep indicates a structurally invalid sweep specification.
var ErrInvalidSweep = constError("invalid sweep")

// SpecError names the sweep field that failed validation.
type SpecError struct {
	Field  string
	Reason string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidSweep, e.Field, e.Reason)
}

func (e *SpecError) Unwrap() error {
	return ErrInvalidSweep
}

func specError(field, reason string) error {
	return &SpecError{Field: field, Reason: reason}
}
