package economics

import (
	"github.com/iwvelando/chip-economics/pkg/mathutil"
)

// BreakEvenResult holds the one-way break-even radius per mode in km.
type BreakEvenResult struct {
	TractorKm    float64 `json:"tractorKm" yaml:"tractorKm"`
	TruckKm      float64 `json:"truckKm" yaml:"truckKm"`
	RawTractorKm float64 `json:"rawTractorKm" yaml:"rawTractorKm"`
	RawTruckKm   float64 `json:"rawTruckKm" yaml:"rawTruckKm"`
}

// ComputeBreakEven returns the distance at which delivered cost equals the
// payable DM price. Radii are clamped at zero; the raw values keep the sign.
func ComputeBreakEven(payable PayableResult, costs CostBreakdown, p EconomicParameters) BreakEvenResult {
	raw := func(mode Mode) float64 {
		return (payable.DM - costs.FixedPerTonne(mode)) /
			mathutil.Denominator(p.Logistics.Backhaul*costs.PerTonneKm(mode))
	}

	r := BreakEvenResult{
		RawTractorKm: raw(ModeTractor),
		RawTruckKm:   raw(ModeTruck),
	}
	r.TractorKm = mathutil.ClampNonNegative(r.RawTractorKm)
	r.TruckKm = mathutil.ClampNonNegative(r.RawTruckKm)
	return r
}

// Radius returns the clamped radius of a mode.
func (b BreakEvenResult) Radius(mode Mode) float64 {
	if mode == ModeTractor {
		return b.TractorKm
	}
	return b.TruckKm
}

// Viable reports whether delivery by the mode covers its fixed costs at zero distance.
func (b BreakEvenResult) Viable(mode Mode) bool {
	if mode == ModeTractor {
		return b.RawTractorKm > 0
	}
	return b.RawTruckKm > 0
}
