package economics

import (
	"github.com/iwvelando/chip-economics/pkg/mathutil"
)

// PayableResult is the maximum feedstock price the plant can pay and the
// annual figures derived from it.
type PayableResult struct {
	DM                     float64 `json:"dm" yaml:"dm"`                                         // €/t DM
	AsReceived             float64 `json:"asReceived" yaml:"asReceived"`                         // €/t as received
	AnnualBudget           float64 `json:"annualBudget" yaml:"annualBudget"`                     // €/yr
	AnnualCharOutput       float64 `json:"annualCharOutput" yaml:"annualCharOutput"`             // t char/yr
	AnnualAsReceivedIntake float64 `json:"annualAsReceivedIntake" yaml:"annualAsReceivedIntake"` // t/yr
	HourlyRevenue          float64 `json:"hourlyRevenue" yaml:"hourlyRevenue"`
	HourlyCosts            float64 `json:"hourlyCosts" yaml:"hourlyCosts"`
	TargetMargin           float64 `json:"targetMargin" yaml:"targetMargin"`
}

// ComputePayable derives the payable chip price from the parameters.
func ComputePayable(p EconomicParameters) PayableResult {
	return ComputePayableWithRevenue(p, ComputeRevenue(p).Total)
}

// ComputePayableWithRevenue derives the payable chip price from an hourly
// revenue supplied by the caller. The result may be negative.
func ComputePayableWithRevenue(p EconomicParameters, revenuePerHour float64) PayableResult {
	costs := ComputeOperatingCosts(p).Total
	pl := p.Plant
	conv := p.Basis()

	r := PayableResult{
		HourlyRevenue: revenuePerHour,
		HourlyCosts:   costs,
		TargetMargin:  pl.TargetMarginPerHour,
	}
	r.DM = (revenuePerHour - costs - pl.TargetMarginPerHour) / mathutil.Denominator(pl.IntakeDMPerHour)
	r.AsReceived = conv.PriceToAsReceived(r.DM)
	r.AnnualBudget = r.DM * pl.IntakeDMPerHour * pl.OperatingHoursPerYear
	r.AnnualCharOutput = pl.CharYield * pl.IntakeDMPerHour * pl.OperatingHoursPerYear
	r.AnnualAsReceivedIntake = conv.MassToAsReceived(pl.IntakeDMPerHour * pl.OperatingHoursPerYear)
	return r
}

// WithDM returns a copy carrying a different DM payable; the as-received
// value and annual budget follow.
func (r PayableResult) WithDM(p EconomicParameters, dm float64) PayableResult {
	r.DM = dm
	r.AsReceived = p.Basis().PriceToAsReceived(dm)
	r.AnnualBudget = dm * p.Plant.IntakeDMPerHour * p.Plant.OperatingHoursPerYear
	return r
}
