package economics

import (
	"errors"
	"fmt"
)

// constError is an immutable error type for sentinel errors.
// It implements the error interface and can be compared with errors.Is().
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrInvalidParameter indicates a parameter outside its documented domain.
	ErrInvalidParameter = constError("invalid parameter")

	// ErrMissingExternalData indicates that an external table a caller wanted
	// to merge with computed values is absent or lacks required columns. The
	// engine never returns it; it is shared with external data loaders.
	ErrMissingExternalData = constError("missing external data")
)

// ParameterError reports which parameter failed validation and why.
type ParameterError struct {
	Param  string
	Value  float64
	Reason string
	Err    error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s = %v: %s", e.Param, e.Value, e.Reason)
}

// Unwrap returns the underlying cause, if any.
func (e *ParameterError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidParameter in addition to the wrapped cause.
func (e *ParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// AsParameterError extracts a *ParameterError from err.
func AsParameterError(err error) (*ParameterError, bool) {
	var pe *ParameterError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
