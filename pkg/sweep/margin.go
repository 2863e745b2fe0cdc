package sweep

import (
	"context"
	"time"

	"github.com/iwvelando/chip-economics/pkg/carbon"
	"github.com/iwvelando/chip-economics/pkg/economics"
)

// Farm margin scenarios.
const (
	ScenarioBase       = "base"
	ScenarioWithCarbon = "withC"
)

// FarmMarginPoint is the supplier's margin per as-received tonne when
// delivering over a distance.
type FarmMarginPoint struct {
	DistanceKm    float64        `json:"distanceKm" yaml:"distanceKm"`
	Mode          economics.Mode `json:"mode" yaml:"mode"`
	Scenario      string         `json:"scenario" yaml:"scenario"`
	GatePrice     float64        `json:"gatePrice" yaml:"gatePrice"`
	DeliveredCost float64        `json:"deliveredCost" yaml:"deliveredCost"`
	Margin        float64        `json:"margin" yaml:"margin"`
}

// FarmMarginSeries is the result of a farm margin sweep.
type FarmMarginSeries struct {
	Points  []FarmMarginPoint `json:"points" yaml:"points"`
	FlagSet `yaml:",inline"`
}

// Header returns the CSV column names.
func (s FarmMarginSeries) Header() []string {
	return []string{"km", "mode", "scenario", "gate_price_asrec_eurpt", "delivered_cost_asrec_eurpt", "GM_farm_asrec_eurpt"}
}

// Records returns one row per point.
func (s FarmMarginSeries) Records() [][]string {
	out := make([][]string, len(s.Points))
	for i, pt := range s.Points {
		out[i] = []string{
			formatFloat(pt.DistanceKm),
			string(pt.Mode),
			pt.Scenario,
			formatFloat(pt.GatePrice),
			formatFloat(pt.DeliveredCost),
			formatFloat(pt.Margin),
		}
	}
	return out
}

// FarmMargin sweeps the supplier margin, gate price minus delivered cost,
// over distance per mode for the base and with-carbon gate prices. Points
// are ordered by mode, then scenario, then distance.
func (g *Generator) FarmMargin(ctx context.Context, p economics.EconomicParameters, spec DistanceSpec) (FarmMarginSeries, error) {
	const op = "sweep.FarmMargin"
	started := time.Now()
	if err := g.validate(op, p, spec); err != nil {
		return FarmMarginSeries{}, err
	}

	costs := economics.ComputeCostBreakdown(p)
	payable := economics.ComputePayable(p)
	gates := []struct {
		name  string
		price float64
	}{
		{ScenarioBase, payable.AsReceived},
		{ScenarioWithCarbon, carbon.Compute(p, payable).PayableAsReceivedWithCarbon},
	}
	conv := p.Basis()

	kms := distances(spec.MaxKm, spec.StepKm)
	modes := economics.OrderedModes(spec.Modes)
	perMode := len(gates) * len(kms)
	points := make([]FarmMarginPoint, len(modes)*perMode)

	err := g.forEach(ctx, len(points), func(i int) {
		mode := modes[i/perMode]
		gate := gates[(i%perMode)/len(kms)]
		d := kms[i%len(kms)]
		delivered := conv.PriceToAsReceived(costs.DeliveredDM(mode, d, p.Logistics.Backhaul))
		points[i] = FarmMarginPoint{
			DistanceKm:    d,
			Mode:          mode,
			Scenario:      gate.name,
			GatePrice:     gate.price,
			DeliveredCost: delivered,
			Margin:        gate.price - delivered,
		}
	})
	if err != nil {
		return FarmMarginSeries{}, err
	}

	series := FarmMarginSeries{Points: points}
	series.Flags = g.flag(op, len(points), func(i int) []float64 {
		return []float64{points[i].GatePrice, points[i].DeliveredCost, points[i].Margin}
	})
	g.done(op, len(points), started)
	return series, nil
}

// PlantMarginPoint is the plant's annual gross margin at one chip price.
type PlantMarginPoint struct {
	ChipPriceDM      float64 `json:"chipPriceDM" yaml:"chipPriceDM"`
	MarginBase       float64 `json:"marginBase" yaml:"marginBase"`
	MarginWithCarbon float64 `json:"marginWithCarbon" yaml:"marginWithCarbon"`
}

// PlantMarginSeries is the result of a plant margin sweep.
type PlantMarginSeries struct {
	Points  []PlantMarginPoint `json:"points" yaml:"points"`
	FlagSet `yaml:",inline"`
}

// Header returns the CSV column names.
func (s PlantMarginSeries) Header() []string {
	return []string{"P_chip_EUR_per_tDM", "GM_base_EUR_per_yr", "GM_withC_EUR_per_yr"}
}

// Records returns one row per chip price.
func (s PlantMarginSeries) Records() [][]string {
	out := make([][]string, len(s.Points))
	for i, pt := range s.Points {
		out[i] = []string{formatFloat(pt.ChipPriceDM), formatFloat(pt.MarginBase), formatFloat(pt.MarginWithCarbon)}
	}
	return out
}

// PlantMargin sweeps the plant's annual gross margin over the price it pays
// for chips, without and with carbon-credit revenue.
func (g *Generator) PlantMargin(ctx context.Context, p economics.EconomicParameters, spec PlantMarginSpec) (PlantMarginSeries, error) {
	const op = "sweep.PlantMargin"
	started := time.Now()
	if err := g.validate(op, p, spec); err != nil {
		return PlantMarginSeries{}, err
	}

	carbonPerYear := carbon.Compute(p, economics.ComputePayable(p)).RevenuePerYear
	prices := linspace(spec.MinChipPrice, spec.MaxChipPrice, spec.Points)
	points := make([]PlantMarginPoint, len(prices))

	err := g.forEach(ctx, len(points), func(i int) {
		a := economics.ComputePlantAccount(p, prices[i])
		points[i] = PlantMarginPoint{
			ChipPriceDM:      prices[i],
			MarginBase:       a.GrossMarginPerYr,
			MarginWithCarbon: a.GrossMarginPerYr + carbonPerYear,
		}
	})
	if err != nil {
		return PlantMarginSeries{}, err
	}

	series := PlantMarginSeries{Points: points}
	series.Flags = g.flag(op, len(points), func(i int) []float64 {
		return []float64{points[i].MarginBase, points[i].MarginWithCarbon}
	})
	g.done(op, len(points), started)
	return series, nil
}
