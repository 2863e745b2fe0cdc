package sweep

import (
	"context"
	"time"

	"github.com/iwvelando/chip-economics/pkg/constants"
	"github.com/iwvelando/chip-economics/pkg/economics"
	"github.com/iwvelando/chip-economics/pkg/mathutil"
)

// GridPoint is one cell of the price x moisture grid. The axis values are
// rounded for labelling; Value is computed from the unrounded ones.
type GridPoint struct {
	BiocharPrice float64 `json:"biocharPrice" yaml:"biocharPrice"`
	Moisture     float64 `json:"moisture" yaml:"moisture"`
	Value        float64 `json:"value" yaml:"value"`
}

// GridSeries is the result of a price x moisture sweep, moisture-major.
type GridSeries struct {
	Mode      economics.Mode `json:"mode" yaml:"mode"`
	Metric    Metric         `json:"metric" yaml:"metric"`
	ProbeKm   float64        `json:"probeKm" yaml:"probeKm"`
	Prices    []float64      `json:"prices" yaml:"prices"`
	Moistures []float64      `json:"moistures" yaml:"moistures"`
	Points    []GridPoint    `json:"points" yaml:"points"`
	FlagSet   `yaml:",inline"`
}

// Header returns the CSV column names.
func (s GridSeries) Header() []string {
	return []string{"P_char", "MC", "value"}
}

// Records returns one row per cell.
func (s GridSeries) Records() [][]string {
	out := make([][]string, len(s.Points))
	for i, pt := range s.Points {
		out[i] = []string{formatFloat(pt.BiocharPrice), formatFloat(pt.Moisture), formatFloat(pt.Value)}
	}
	return out
}

// At returns the cell at moisture index m and price index k.
func (s GridSeries) At(m, k int) GridPoint {
	return s.Points[m*len(s.Prices)+k]
}

// PriceMoisture evaluates the chosen metric on a biochar price x moisture
// grid. Carbon value is not included.
func (g *Generator) PriceMoisture(ctx context.Context, p economics.EconomicParameters, spec GridSpec) (GridSeries, error) {
	const op = "sweep.PriceMoisture"
	started := time.Now()
	if err := g.validate(op, p, spec); err != nil {
		return GridSeries{}, err
	}

	mode := spec.mode()
	metric := spec.metric()
	half := float64(spec.PricePoints / 2)
	center := p.Market.BiocharPrice
	prices := linspace(center-half*spec.PriceDelta, center+half*spec.PriceDelta, spec.PricePoints)
	moistures := linspace(spec.MoistureMin, spec.MoistureMax, spec.MoisturePoints)

	costs := economics.ComputeCostBreakdown(p)
	backhaul := p.Logistics.Backhaul
	points := make([]GridPoint, len(prices)*len(moistures))

	err := g.forEach(ctx, len(points), func(i int) {
		mc := moistures[i/len(prices)]
		pc := prices[i%len(prices)]
		q := p.WithBiocharPrice(pc).WithMoisture(mc)
		payable := economics.ComputePayable(q)

		var v float64
		switch metric {
		case MetricBreakEven:
			v = economics.ComputeBreakEven(payable, costs, q).Radius(mode)
		default:
			conv := q.Basis()
			delivered := conv.PriceToAsReceived(costs.FixedPerTonne(mode)) + conv.PriceToAsReceived(backhaul*costs.PerTonneKm(mode)*spec.ProbeKm)
			v = payable.AsReceived - delivered
		}
		points[i] = GridPoint{
			BiocharPrice: mathutil.RoundTo(pc, constants.GridRoundingPlaces),
			Moisture:     mathutil.RoundTo(mc, constants.GridRoundingPlaces),
			Value:        v,
		}
	})
	if err != nil {
		return GridSeries{}, err
	}

	series := GridSeries{
		Mode:      mode,
		Metric:    metric,
		ProbeKm:   spec.ProbeKm,
		Prices:    prices,
		Moistures: moistures,
		Points:    points,
	}
	series.Flags = g.flag(op, len(points), func(i int) []float64 {
		return []float64{points[i].Value}
	})
	g.done(op, len(points), started)
	return series, nil
}
