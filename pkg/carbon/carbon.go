// Package carbon adds carbon-credit revenue from sequestered biochar carbon
// to the payable-price model.
package carbon

import (
	"github.com/iwvelando/chip-economics/pkg/economics"
)

// Result holds the carbon figures of a parameter set.
type Result struct {
	BalancePerYear              float64 `json:"balancePerYear" yaml:"balancePerYear"` // t CO2-eq/yr
	RevenuePerYear              float64 `json:"revenuePerYear" yaml:"revenuePerYear"` // €/yr
	PremiumDM                   float64 `json:"premiumDM" yaml:"premiumDM"`           // €/t DM
	PremiumAsReceived           float64 `json:"premiumAsReceived" yaml:"premiumAsReceived"`
	PayableDMWithCarbon         float64 `json:"payableDMWithCarbon" yaml:"payableDMWithCarbon"`
	PayableAsReceivedWithCarbon float64 `json:"payableAsReceivedWithCarbon" yaml:"payableAsReceivedWithCarbon"`
}

// Compute derives the carbon balance, revenue and per-tonne premium. The
// with-carbon payable is always filled in; whether it replaces the base
// payable is the caller's decision (see Result.Apply).
func Compute(p economics.EconomicParameters, payable economics.PayableResult) Result {
	c := p.Carbon
	conv := p.Basis()
	r := Result{
		BalancePerYear: payable.AnnualCharOutput * c.CO2eqPerTonneChar,
		PremiumDM:      PremiumDM(p),
	}
	r.RevenuePerYear = r.BalancePerYear * c.PricePerTonneCO2
	r.PremiumAsReceived = conv.PriceToAsReceived(r.PremiumDM)
	r.PayableDMWithCarbon = payable.DM + r.PremiumDM
	r.PayableAsReceivedWithCarbon = conv.PriceToAsReceived(r.PayableDMWithCarbon)
	return r
}

// PremiumDM returns the carbon value per tonne of DM feedstock.
func PremiumDM(p economics.EconomicParameters) float64 {
	return p.Plant.CharYield * p.Carbon.CO2eqPerTonneChar * p.Carbon.PricePerTonneCO2
}

// HourlyRevenue returns the carbon-credit revenue in €/h.
func HourlyRevenue(p economics.EconomicParameters) float64 {
	return p.Plant.CharYield * p.Plant.IntakeDMPerHour * p.Carbon.CO2eqPerTonneChar * p.Carbon.PricePerTonneCO2
}

// Apply returns payable with the with-carbon DM price substituted.
func (r Result) Apply(p economics.EconomicParameters, payable economics.PayableResult) economics.PayableResult {
	return payable.WithDM(p, r.PayableDMWithCarbon)
}

// Effective returns the payable used downstream: with carbon when the
// parameters include it in the payable, otherwise unchanged.
func Effective(p economics.EconomicParameters, payable economics.PayableResult) economics.PayableResult {
	if !p.Carbon.IncludeInPayable {
		return payable
	}
	return Compute(p, payable).Apply(p, payable)
}
