// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/chip-economics/pkg/constants"
)

// Denominator guards a rate used as a divisor. Values below
// constants.DenominatorFloor (including zero and negatives) saturate to the
// floor. Physical rates in this model are bounded away from zero, so a
// saturated divisor yields a very large but finite quotient rather than a
// fault.
func Denominator(val float64) float64 {
	return math.Max(constants.DenominatorFloor, val)
}

// SafeDiv divides num by the guarded denominator.
func SafeDiv(num, den float64) float64 {
	return num / Denominator(den)
}

// RoundTo rounds a value to the given number of decimal places.
func RoundTo(val float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(val*scale) / scale
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsFinite reports whether every value is neither NaN nor infinite.
func IsFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ClampNonNegative returns val, or zero when val is negative.
func ClampNonNegative(val float64) float64 {
	return math.Max(0, val)
}

