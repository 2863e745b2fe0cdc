package sweep

import (
	"context"
	"strconv"
	"time"

	"github.com/iwvelando/chip-economics/pkg/carbon"
	"github.com/iwvelando/chip-economics/pkg/economics"
)

// DistancePoint is the delivered cost of one mode at one distance, all
// per as-received tonne.
type DistancePoint struct {
	DistanceKm        float64        `json:"distanceKm" yaml:"distanceKm"`
	Mode              economics.Mode `json:"mode" yaml:"mode"`
	DeliveredCost     float64        `json:"deliveredCost" yaml:"deliveredCost"`
	PayableBase       float64        `json:"payableBase" yaml:"payableBase"`
	PayableWithCarbon float64        `json:"payableWithCarbon" yaml:"payableWithCarbon"`
	Gap               float64        `json:"gap" yaml:"gap"`
	IsBreakEven       bool           `json:"isBreakEven" yaml:"isBreakEven"`
}

// DistanceSeries is the result of a distance sweep.
type DistanceSeries struct {
	Points []DistancePoint `json:"points" yaml:"points"`
	// BreakEven holds the point closest to the base payable per mode.
	BreakEven []DistancePoint `json:"breakEven" yaml:"breakEven"`
	FlagSet   `yaml:",inline"`
}

// Header returns the CSV column names.
func (s DistanceSeries) Header() []string {
	return []string{"distance_km", "mode", "delivered_cost_chips_eurpt", "payable_asrec_base", "payable_asrec_withC", "gap_base", "is_be"}
}

// Records returns one row per point.
func (s DistanceSeries) Records() [][]string {
	out := make([][]string, len(s.Points))
	for i, pt := range s.Points {
		out[i] = []string{
			formatFloat(pt.DistanceKm),
			string(pt.Mode),
			formatFloat(pt.DeliveredCost),
			formatFloat(pt.PayableBase),
			formatFloat(pt.PayableWithCarbon),
			formatFloat(pt.Gap),
			strconv.FormatBool(pt.IsBreakEven),
		}
	}
	return out
}

// Distance sweeps delivered cost over distance for each requested mode,
// tractor first. The break-even point of a mode is its first point with
// the smallest gap to the base payable price.
func (g *Generator) Distance(ctx context.Context, p economics.EconomicParameters, spec DistanceSpec) (DistanceSeries, error) {
	const op = "sweep.Distance"
	started := time.Now()
	if err := g.validate(op, p, spec); err != nil {
		return DistanceSeries{}, err
	}

	costs := economics.ComputeCostBreakdown(p)
	payable := economics.ComputePayable(p)
	withC := carbon.Effective(p, payable)
	conv := p.Basis()
	backhaul := p.Logistics.Backhaul

	kms := distances(spec.MaxKm, spec.StepKm)
	modes := economics.OrderedModes(spec.Modes)
	points := make([]DistancePoint, len(kms)*len(modes))

	err := g.forEach(ctx, len(points), func(i int) {
		mode := modes[i/len(kms)]
		d := kms[i%len(kms)]
		cost := conv.PriceToAsReceived(costs.FixedPerTonne(mode)) + conv.PriceToAsReceived(backhaul*costs.PerTonneKm(mode)*d)
		gap := cost - payable.AsReceived
		if gap < 0 {
			gap = -gap
		}
		points[i] = DistancePoint{
			DistanceKm:        d,
			Mode:              mode,
			DeliveredCost:     cost,
			PayableBase:       payable.AsReceived,
			PayableWithCarbon: withC.AsReceived,
			Gap:               gap,
		}
	})
	if err != nil {
		return DistanceSeries{}, err
	}

	series := DistanceSeries{Points: points}
	gaps := make([]float64, len(kms))
	for m := range modes {
		block := points[m*len(kms) : (m+1)*len(kms)]
		for i := range block {
			gaps[i] = block[i].Gap
		}
		be := argminFinite(gaps)
		block[be].IsBreakEven = true
		series.BreakEven = append(series.BreakEven, block[be])
	}

	series.Flags = g.flag(op, len(points), func(i int) []float64 {
		pt := points[i]
		return []float64{pt.DeliveredCost, pt.PayableBase, pt.PayableWithCarbon, pt.Gap}
	})
	g.done(op, len(points), started)
	return series, nil
}
