package economics

import (
	"github.com/iwvelando/chip-economics/pkg/mathutil"
)

// CostBreakdown holds the supply-chain unit costs, all per tonne of dry
// matter (per t·km for transport).
type CostBreakdown struct {
	ChippingMachine float64 `json:"chippingMachine" yaml:"chippingMachine"`
	ChippingLabor   float64 `json:"chippingLabor" yaml:"chippingLabor"`
	Chipping        float64 `json:"chipping" yaml:"chipping"`

	HandlingMachine float64 `json:"handlingMachine" yaml:"handlingMachine"`
	HandlingLabor   float64 `json:"handlingLabor" yaml:"handlingLabor"`
	Handling        float64 `json:"handling" yaml:"handling"`

	TractorPayloadT   float64 `json:"tractorPayloadT" yaml:"tractorPayloadT"`
	TractorPerTonneKm float64 `json:"tractorPerTonneKm" yaml:"tractorPerTonneKm"`
	TruckPerTonneKm   float64 `json:"truckPerTonneKm" yaml:"truckPerTonneKm"`

	TractorSurcharge float64 `json:"tractorSurcharge" yaml:"tractorSurcharge"`
	TruckSurcharge   float64 `json:"truckSurcharge" yaml:"truckSurcharge"`
}

// ComputeCostBreakdown derives chipping, handling and transport unit costs.
func ComputeCostBreakdown(p EconomicParameters) CostBreakdown {
	wage := p.Labor.Wage()
	lg := p.Logistics
	m := p.Machines

	chipRate := mathutil.Denominator(lg.ChipperThroughputM3PerHour * lg.BulkDensityTPerM3)
	handleRate := mathutil.Denominator(lg.HandlingThroughputTPerHour)

	c := CostBreakdown{
		ChippingMachine:  (m.TractorPerHour + m.ChipperPerHour) / chipRate,
		HandlingMachine:  m.BucketPerTonne + m.FrontLoaderPerHour/handleRate,
		TractorPayloadT:  lg.ChipBoxVolumeM3 * lg.BulkDensityTPerM3,
		TractorSurcharge: m.TractorBodyPerTonne,
		TruckSurcharge:   m.SemiTrailerPerTonne,
	}

	if p.Toggles.ChipperLabor() {
		c.ChippingLabor = wage * (1 / chipRate)
	}
	if p.Toggles.LoaderLabor() {
		c.HandlingLabor = wage * (1 / handleRate)
	}
	c.Chipping = c.ChippingMachine + c.ChippingLabor
	c.Handling = c.HandlingMachine + c.HandlingLabor

	tractorRate := mathutil.Denominator(lg.TractorSpeedKmh * c.TractorPayloadT)
	var tractorDriver float64
	if p.Toggles.TractorDriverLabor() {
		tractorDriver = wage
	}
	c.TractorPerTonneKm = m.TractorPerHour/tractorRate + tractorDriver/tractorRate

	var truckDriver float64
	if p.Toggles.TruckDriverLabor() {
		truckDriver = wage
	}
	c.TruckPerTonneKm = m.TruckMachinePerTonneKm + truckDriver/mathutil.Denominator(lg.TruckSpeedKmh*lg.TruckPayloadT)

	return c
}

// PerTonneKm returns the transport cost of a mode in €/t·km.
func (c CostBreakdown) PerTonneKm(mode Mode) float64 {
	if mode == ModeTractor {
		return c.TractorPerTonneKm
	}
	return c.TruckPerTonneKm
}

// Surcharge returns the per-tonne body or trailer surcharge of a mode.
func (c CostBreakdown) Surcharge(mode Mode) float64 {
	if mode == ModeTractor {
		return c.TractorSurcharge
	}
	return c.TruckSurcharge
}

// FixedPerTonne returns the distance-independent cost of a mode:
// chipping + handling + surcharge, per tonne DM.
func (c CostBreakdown) FixedPerTonne(mode Mode) float64 {
	return c.Chipping + c.Handling + c.Surcharge(mode)
}

// DeliveredDM returns the delivered cost per tonne DM at a one-way distance.
func (c CostBreakdown) DeliveredDM(mode Mode, distanceKm, backhaul float64) float64 {
	return c.FixedPerTonne(mode) + backhaul*c.PerTonneKm(mode)*distanceKm
}
