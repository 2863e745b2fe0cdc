package economics

import (
	"github.com/iwvelando/chip-economics/pkg/mathutil"
)

// PlantAccount is the plant's hourly profit and loss at a given chip price.
type PlantAccount struct {
	ChipPriceDM       float64 `json:"chipPriceDM" yaml:"chipPriceDM"`
	Revenue           float64 `json:"revenue" yaml:"revenue"`
	OperatingCosts    float64 `json:"operatingCosts" yaml:"operatingCosts"`
	FeedstockCost     float64 `json:"feedstockCost" yaml:"feedstockCost"`
	GrossMarginPerH   float64 `json:"grossMarginPerHour" yaml:"grossMarginPerHour"`
	GrossMarginPerYr  float64 `json:"grossMarginPerYear" yaml:"grossMarginPerYear"`
	GrossMarginPerTDM float64 `json:"grossMarginPerTonneDM" yaml:"grossMarginPerTonneDM"`
}

// ComputePlantAccount returns the plant's margin when it buys chips at
// chipPriceDM (€/t DM). The target margin is not deducted.
func ComputePlantAccount(p EconomicParameters, chipPriceDM float64) PlantAccount {
	rev := ComputeRevenue(p).Total
	costs := ComputeOperatingCosts(p).Total
	feed := chipPriceDM * p.Plant.IntakeDMPerHour

	a := PlantAccount{
		ChipPriceDM:    chipPriceDM,
		Revenue:        rev,
		OperatingCosts: costs,
		FeedstockCost:  feed,
	}
	a.GrossMarginPerH = rev - costs - feed
	a.GrossMarginPerYr = a.GrossMarginPerH * p.Plant.OperatingHoursPerYear
	a.GrossMarginPerTDM = a.GrossMarginPerH / mathutil.Denominator(p.Plant.IntakeDMPerHour)
	return a
}

// BreakEvenCharPrice returns the biochar price (€/t) at which the payable DM
// price equals chipPriceDM.
func BreakEvenCharPrice(p EconomicParameters, chipPriceDM float64) float64 {
	pl := p.Plant
	rev := ComputeRevenue(p)
	costs := ComputeOperatingCosts(p).Total
	num := chipPriceDM*pl.IntakeDMPerHour + costs + pl.TargetMarginPerHour - rev.Electricity - rev.Heat
	return num / mathutil.Denominator(pl.CharYield*pl.IntakeDMPerHour)
}
