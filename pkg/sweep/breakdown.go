package sweep

import (
	"context"
	"time"

	"github.com/iwvelando/chip-economics/pkg/economics"
)

// Delivered cost components.
const (
	ComponentChipping  = "chipping"
	ComponentHandling  = "handling"
	ComponentSurcharge = "surcharge"
	ComponentTransport = "transport"
)

// BreakdownRow is one component of a mode's delivered cost, as received.
type BreakdownRow struct {
	Mode      economics.Mode `json:"mode" yaml:"mode"`
	Component string         `json:"component" yaml:"component"`
	Value     float64        `json:"value" yaml:"value"`
	Total     float64        `json:"total" yaml:"total"`
}

// BreakdownSeries is the delivered cost breakdown at one distance.
type BreakdownSeries struct {
	DistanceKm float64        `json:"distanceKm" yaml:"distanceKm"`
	Rows       []BreakdownRow `json:"rows" yaml:"rows"`
	FlagSet    `yaml:",inline"`
}

// Header returns the CSV column names.
func (s BreakdownSeries) Header() []string {
	return []string{"mode", "component", "value", "total"}
}

// Records returns one row per mode and component.
func (s BreakdownSeries) Records() [][]string {
	out := make([][]string, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = []string{string(r.Mode), r.Component, formatFloat(r.Value), formatFloat(r.Total)}
	}
	return out
}

// Breakdown splits the delivered cost per as-received tonne at
// spec.DistanceKm into chipping, handling, surcharge and transport.
func (g *Generator) Breakdown(ctx context.Context, p economics.EconomicParameters, spec BreakdownSpec) (BreakdownSeries, error) {
	const op = "sweep.Breakdown"
	started := time.Now()
	if err := g.validate(op, p, spec); err != nil {
		return BreakdownSeries{}, err
	}
	if err := ctx.Err(); err != nil {
		return BreakdownSeries{}, err
	}

	costs := economics.ComputeCostBreakdown(p)
	conv := p.Basis()
	series := BreakdownSeries{DistanceKm: spec.DistanceKm}

	for _, mode := range economics.OrderedModes(spec.Modes) {
		parts := []struct {
			name  string
			value float64
		}{
			{ComponentChipping, conv.PriceToAsReceived(costs.Chipping)},
			{ComponentHandling, conv.PriceToAsReceived(costs.Handling)},
			{ComponentSurcharge, conv.PriceToAsReceived(costs.Surcharge(mode))},
			{ComponentTransport, conv.PriceToAsReceived(p.Logistics.Backhaul * costs.PerTonneKm(mode) * spec.DistanceKm)},
		}
		var total float64
		for _, part := range parts {
			total += part.value
		}
		for _, part := range parts {
			series.Rows = append(series.Rows, BreakdownRow{Mode: mode, Component: part.name, Value: part.value, Total: total})
		}
	}

	series.Flags = g.flag(op, len(series.Rows), func(i int) []float64 {
		return []float64{series.Rows[i].Value, series.Rows[i].Total}
	})
	g.done(op, len(series.Rows), started)
	return series, nil
}
