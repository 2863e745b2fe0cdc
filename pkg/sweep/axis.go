package sweep

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MaxPoints bounds the number of points a single sweep may produce.
const MaxPoints = 1_000_000

// arangeLen returns the length of the half-open range [0, stop) in steps of step.
func arangeLen(stop, step float64) int {
	return int(math.Ceil(stop / step))
}

// distances returns 0, step, 2·step, ... through the first multiple of step
// at or beyond maxKm, so the last value overshoots maxKm when it is not on
// the grid.
func distances(maxKm, stepKm float64) []float64 {
	n := arangeLen(maxKm+stepKm, stepKm)
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * stepKm
	}
	return out
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// centered returns n values center + k·delta for k = i - n/2.
func centered(center, delta float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = center + float64(i-n/2)*delta
	}
	return out
}

// argminFinite returns the index of the first minimum, treating non-finite
// values as +Inf.
func argminFinite(vals []float64) int {
	clean := make([]float64, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = math.Inf(1)
		}
		clean[i] = v
	}
	return floats.MinIdx(clean)
}
