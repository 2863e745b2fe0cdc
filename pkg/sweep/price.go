package sweep

import (
	"context"
	"time"

	"github.com/iwvelando/chip-economics/pkg/carbon"
	"github.com/iwvelando/chip-economics/pkg/economics"
)

// PricePoint is the payable price and break-even radii at one biochar price.
type PricePoint struct {
	BiocharPrice      float64 `json:"biocharPrice" yaml:"biocharPrice"`
	PayableDM         float64 `json:"payableDM" yaml:"payableDM"`
	PayableAsReceived float64 `json:"payableAsReceived" yaml:"payableAsReceived"`
	TractorKm         float64 `json:"tractorKm" yaml:"tractorKm"`
	TruckKm           float64 `json:"truckKm" yaml:"truckKm"`
}

// PriceSeries is the result of a biochar price sweep.
type PriceSeries struct {
	Carbon  CarbonMode   `json:"carbon" yaml:"carbon"`
	Points  []PricePoint `json:"points" yaml:"points"`
	FlagSet `yaml:",inline"`
}

// Header returns the CSV column names.
func (s PriceSeries) Header() []string {
	return []string{"Pchar_eurpt", "Pchip_pay_DM_eurptDM", "Pchip_pay_asrec_eurpt", "BE_radius_tractor_km", "BE_radius_truck_km"}
}

// Records returns one row per biochar price.
func (s PriceSeries) Records() [][]string {
	out := make([][]string, len(s.Points))
	for i, pt := range s.Points {
		out[i] = []string{
			formatFloat(pt.BiocharPrice),
			formatFloat(pt.PayableDM),
			formatFloat(pt.PayableAsReceived),
			formatFloat(pt.TractorKm),
			formatFloat(pt.TruckKm),
		}
	}
	return out
}

// resolve turns inherit into the concrete mode the parameters ask for.
func (c CarbonMode) resolve(p economics.EconomicParameters) CarbonMode {
	switch c {
	case "", CarbonOff:
		return CarbonOff
	case CarbonInherit:
		if p.Carbon.IncludeInPayable {
			return CarbonPremium
		}
		return CarbonOff
	default:
		return c
	}
}

func payableWithCarbon(p economics.EconomicParameters, mode CarbonMode) economics.PayableResult {
	switch mode {
	case CarbonPremium:
		payable := economics.ComputePayable(p)
		return carbon.Compute(p, payable).Apply(p, payable)
	case CarbonRevenue:
		rev := economics.ComputeRevenue(p).Total + carbon.HourlyRevenue(p)
		return economics.ComputePayableWithRevenue(p, rev)
	default:
		return economics.ComputePayable(p)
	}
}

// Price sweeps the biochar price around the parameters' value in steps of
// spec.Delta.
func (g *Generator) Price(ctx context.Context, p economics.EconomicParameters, spec PriceSpec) (PriceSeries, error) {
	const op = "sweep.Price"
	started := time.Now()
	if err := g.validate(op, p, spec); err != nil {
		return PriceSeries{}, err
	}

	mode := spec.Carbon.resolve(p)
	costs := economics.ComputeCostBreakdown(p)
	prices := centered(p.Market.BiocharPrice, spec.Delta, spec.Points)
	points := make([]PricePoint, len(prices))

	err := g.forEach(ctx, len(points), func(i int) {
		q := p.WithBiocharPrice(prices[i])
		payable := payableWithCarbon(q, mode)
		be := economics.ComputeBreakEven(payable, costs, q)
		points[i] = PricePoint{
			BiocharPrice:      prices[i],
			PayableDM:         payable.DM,
			PayableAsReceived: payable.AsReceived,
			TractorKm:         be.TractorKm,
			TruckKm:           be.TruckKm,
		}
	})
	if err != nil {
		return PriceSeries{}, err
	}

	series := PriceSeries{Carbon: mode, Points: points}
	series.Flags = g.flag(op, len(points), func(i int) []float64 {
		pt := points[i]
		return []float64{pt.PayableDM, pt.PayableAsReceived, pt.TractorKm, pt.TruckKm}
	})
	g.done(op, len(points), started)
	return series, nil
}
