package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iwvelando/chip-economics/pkg/carbon"
	"github.com/iwvelando/chip-economics/pkg/economics"
)

func newTestGenerator(t *testing.T, workers int) *Generator {
	t.Helper()
	return NewGenerator(zaptest.NewLogger(t), workers)
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func mustNotErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAxes(t *testing.T) {
	tests := []struct {
		name     string
		got      []float64
		expected []float64
	}{
		{"distances on grid", distances(3, 1), []float64{0, 1, 2, 3}},
		{"distances overshoot", distances(10, 3), []float64{0, 3, 6, 9, 12}},
		{"centered odd", centered(550, 50, 3), []float64{500, 550, 600}},
		{"centered even", centered(550, 50, 4), []float64{450, 500, 550, 600}},
		{"linspace single", linspace(0.2, 0.4, 1), []float64{0.2}},
	}
	for _, tt := range tests {
		if !reflect.DeepEqual(tt.got, tt.expected) {
			t.Errorf("%s = %v, expected %v", tt.name, tt.got, tt.expected)
		}
	}

	if n := len(distances(200, 5)); n != 41 {
		t.Errorf("len(distances(200, 5)) = %d, expected 41", n)
	}
	got := linspace(0.15, 0.45, 3)
	for i, want := range []float64{0.15, 0.3, 0.45} {
		if !approxEqual(got[i], want, 1e-12) {
			t.Errorf("linspace(0.15, 0.45, 3)[%d] = %v, expected %v", i, got[i], want)
		}
	}
	if got := linspace(0, 1, 0); got != nil {
		t.Errorf("linspace(0, 1, 0) = %v, expected nil", got)
	}
}

func TestArgminFiniteTieBreak(t *testing.T) {
	tests := []struct {
		in       []float64
		expected int
	}{
		{[]float64{3, 1, 1, 2}, 1},
		{[]float64{math.NaN(), math.Inf(1), 0.5, 0.5}, 2},
		{[]float64{math.NaN(), math.NaN()}, 0},
	}
	for _, tt := range tests {
		if got := argminFinite(tt.in); got != tt.expected {
			t.Errorf("argminFinite(%v) = %d, expected %d", tt.in, got, tt.expected)
		}
	}
}

func TestDistanceDefaults(t *testing.T) {
	p := economics.DefaultParameters()
	series, err := newTestGenerator(t, 4).Distance(context.Background(), p, DefaultSpecs().Distance)
	mustNotErr(t, err)

	if len(series.Points) != 2*201 {
		t.Fatalf("Expected %d points, got %d", 2*201, len(series.Points))
	}
	if flagged := series.Flagged(); len(flagged) != 0 {
		t.Errorf("Expected no flagged points, got %v", flagged)
	}

	first := series.Points[0]
	costs := economics.ComputeCostBreakdown(p)
	payable := economics.ComputePayable(p)
	if first.Mode != economics.ModeTractor || first.DistanceKm != 0 {
		t.Errorf("First point = %s at %v km, expected tractor at 0 km", first.Mode, first.DistanceKm)
	}
	if want := costs.FixedPerTonne(economics.ModeTractor) * 0.75; !approxEqual(first.DeliveredCost, want, 1e-9) {
		t.Errorf("DeliveredCost = %v, expected %v", first.DeliveredCost, want)
	}
	if !approxEqual(first.PayableBase, payable.AsReceived, 1e-12) {
		t.Errorf("PayableBase = %v, expected %v", first.PayableBase, payable.AsReceived)
	}
	if want := carbon.Compute(p, payable).PayableAsReceivedWithCarbon; !approxEqual(first.PayableWithCarbon, want, 1e-12) {
		t.Errorf("PayableWithCarbon = %v, expected %v", first.PayableWithCarbon, want)
	}

	truck := series.Points[201]
	if truck.Mode != economics.ModeTruck || truck.DistanceKm != 0 {
		t.Errorf("Point 201 = %s at %v km, expected truck at 0 km", truck.Mode, truck.DistanceKm)
	}

	expected := []DistancePoint{
		{Mode: economics.ModeTractor, DistanceKm: 42},
		{Mode: economics.ModeTruck, DistanceKm: 71},
	}
	if len(series.BreakEven) != len(expected) {
		t.Fatalf("Expected %d break-even points, got %d", len(expected), len(series.BreakEven))
	}
	for i, want := range expected {
		got := series.BreakEven[i]
		if got.Mode != want.Mode || got.DistanceKm != want.DistanceKm {
			t.Errorf("BreakEven[%d] = %s at %v km, expected %s at %v km", i, got.Mode, got.DistanceKm, want.Mode, want.DistanceKm)
		}
	}

	var marked int
	for _, pt := range series.Points {
		if pt.IsBreakEven {
			marked++
		}
	}
	if marked != 2 {
		t.Errorf("Expected 2 marked break-even points, got %d", marked)
	}
}

func TestDistanceModeFilterKeepsOrder(t *testing.T) {
	spec := DistanceSpec{MaxKm: 10, StepKm: 5, Modes: []economics.Mode{economics.ModeTruck, economics.ModeTractor, economics.ModeTruck}}
	series, err := newTestGenerator(t, 1).Distance(context.Background(), economics.DefaultParameters(), spec)
	mustNotErr(t, err)

	if len(series.Points) != 6 {
		t.Fatalf("Expected 6 points, got %d", len(series.Points))
	}
	if series.Points[0].Mode != economics.ModeTractor || series.Points[3].Mode != economics.ModeTruck {
		t.Errorf("Modes = %s, %s, expected tractor then truck", series.Points[0].Mode, series.Points[3].Mode)
	}

	spec.Modes = []economics.Mode{economics.ModeTruck}
	series, err = newTestGenerator(t, 1).Distance(context.Background(), economics.DefaultParameters(), spec)
	mustNotErr(t, err)
	if len(series.Points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(series.Points))
	}
	if series.Points[0].Mode != economics.ModeTruck {
		t.Errorf("Mode = %s, expected truck", series.Points[0].Mode)
	}
	if got := series.Records()[2][:2]; !reflect.DeepEqual(got, []string{"10", "truck"}) {
		t.Errorf("Records()[2][:2] = %v, expected [10 truck]", got)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	p := economics.DefaultParameters()
	specs := DefaultSpecs()
	ctx := context.Background()
	seq := newTestGenerator(t, 1)
	par := newTestGenerator(t, 7)

	d1, err := seq.Distance(ctx, p, specs.Distance)
	mustNotErr(t, err)
	d2, err := par.Distance(ctx, p, specs.Distance)
	mustNotErr(t, err)
	if !reflect.DeepEqual(d1, d2) {
		t.Error("Distance sweep differs between 1 and 7 workers")
	}

	g1, err := seq.PriceMoisture(ctx, p, specs.PriceMoisture)
	mustNotErr(t, err)
	g2, err := par.PriceMoisture(ctx, p, specs.PriceMoisture)
	mustNotErr(t, err)
	if !reflect.DeepEqual(g1, g2) {
		t.Error("Price-moisture sweep differs between 1 and 7 workers")
	}

	f1, err := seq.FarmMargin(ctx, p, specs.FarmMargin)
	mustNotErr(t, err)
	f2, err := par.FarmMargin(ctx, p, specs.FarmMargin)
	mustNotErr(t, err)
	if !reflect.DeepEqual(f1, f2) {
		t.Error("Farm margin sweep differs between 1 and 7 workers")
	}
}

func TestDeterminism(t *testing.T) {
	p := economics.DefaultParameters()
	g := newTestGenerator(t, 3)
	a, err := g.Price(context.Background(), p, DefaultSpecs().Price)
	mustNotErr(t, err)
	b, err := g.Price(context.Background(), p, DefaultSpecs().Price)
	mustNotErr(t, err)
	if !reflect.DeepEqual(a.Records(), b.Records()) {
		t.Error("Repeated price sweeps produced different records")
	}
}

func TestPriceSweep(t *testing.T) {
	p := economics.DefaultParameters()
	series, err := newTestGenerator(t, 2).Price(context.Background(), p, DefaultSpecs().Price)
	mustNotErr(t, err)

	if len(series.Points) != 11 {
		t.Fatalf("Expected 11 points, got %d", len(series.Points))
	}
	if series.Carbon != CarbonOff {
		t.Errorf("Carbon = %s, expected %s", series.Carbon, CarbonOff)
	}
	if series.Points[0].BiocharPrice != 300 || series.Points[10].BiocharPrice != 800 {
		t.Errorf("Price axis = %v..%v, expected 300..800", series.Points[0].BiocharPrice, series.Points[10].BiocharPrice)
	}

	mid := series.Points[5]
	payable := economics.ComputePayable(p)
	be := economics.ComputeBreakEven(payable, economics.ComputeCostBreakdown(p), p)
	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"PayableDM", mid.PayableDM, payable.DM},
		{"PayableAsReceived", mid.PayableAsReceived, payable.AsReceived},
		{"TractorKm", mid.TractorKm, be.TractorKm},
		{"TruckKm", mid.TruckKm, be.TruckKm},
	}
	for _, c := range checks {
		if !approxEqual(c.got, c.expected, 1e-9) {
			t.Errorf("center %s = %v, expected %v", c.name, c.got, c.expected)
		}
	}

	for i := 1; i < len(series.Points); i++ {
		prev, cur := series.Points[i-1], series.Points[i]
		if cur.BiocharPrice <= prev.BiocharPrice {
			t.Errorf("BiocharPrice[%d] = %v, expected more than %v", i, cur.BiocharPrice, prev.BiocharPrice)
		}
		if cur.PayableDM < prev.PayableDM {
			t.Errorf("PayableDM decreased at %d: %v < %v", i, cur.PayableDM, prev.PayableDM)
		}
		if cur.TruckKm < prev.TruckKm {
			t.Errorf("TruckKm decreased at %d: %v < %v", i, cur.TruckKm, prev.TruckKm)
		}
		if cur.TractorKm < prev.TractorKm {
			t.Errorf("TractorKm decreased at %d: %v < %v", i, cur.TractorKm, prev.TractorKm)
		}
	}
}

func TestPriceSweepCarbonModes(t *testing.T) {
	p := economics.DefaultParameters()
	g := newTestGenerator(t, 1)
	ctx := context.Background()
	run := func(mode CarbonMode, params economics.EconomicParameters) PriceSeries {
		t.Helper()
		s, err := g.Price(ctx, params, PriceSpec{Delta: 50, Points: 5, Carbon: mode})
		mustNotErr(t, err)
		return s
	}

	off := run(CarbonOff, p)
	premium := run(CarbonPremium, p)
	revenue := run(CarbonRevenue, p)
	inherit := run(CarbonInherit, p)

	premiumDM := carbon.PremiumDM(p)
	for i := range off.Points {
		if !approxEqual(off.Points[i].PayableDM+premiumDM, premium.Points[i].PayableDM, 1e-9) {
			t.Errorf("premium PayableDM[%d] = %v, expected %v", i, premium.Points[i].PayableDM, off.Points[i].PayableDM+premiumDM)
		}
		if !approxEqual(premium.Points[i].PayableDM, revenue.Points[i].PayableDM, 1e-9) {
			t.Errorf("revenue PayableDM[%d] = %v, expected %v", i, revenue.Points[i].PayableDM, premium.Points[i].PayableDM)
		}
		if !approxEqual(premium.Points[i].TruckKm, revenue.Points[i].TruckKm, 1e-6) {
			t.Errorf("revenue TruckKm[%d] = %v, expected %v", i, revenue.Points[i].TruckKm, premium.Points[i].TruckKm)
		}
	}
	if inherit.Carbon != CarbonPremium {
		t.Errorf("inherit resolved to %s, expected %s", inherit.Carbon, CarbonPremium)
	}
	if !reflect.DeepEqual(premium.Points, inherit.Points) {
		t.Error("inherit points differ from premium points")
	}

	p.Carbon.IncludeInPayable = false
	inheritOff := run(CarbonInherit, p)
	if inheritOff.Carbon != CarbonOff {
		t.Errorf("inherit resolved to %s, expected %s", inheritOff.Carbon, CarbonOff)
	}
	if !reflect.DeepEqual(off.Points, inheritOff.Points) {
		t.Error("inherit points differ from off points")
	}
}

func TestPriceMoistureGap(t *testing.T) {
	p := economics.DefaultParameters()
	spec := DefaultSpecs().PriceMoisture
	series, err := newTestGenerator(t, 4).PriceMoisture(context.Background(), p, spec)
	mustNotErr(t, err)

	if len(series.Points) != 11*11 {
		t.Fatalf("Expected %d points, got %d", 11*11, len(series.Points))
	}
	if series.Mode != economics.ModeTruck || series.Metric != MetricGap {
		t.Errorf("Mode, Metric = %s, %s, expected truck, gap", series.Mode, series.Metric)
	}

	cells := []struct {
		got      GridPoint
		price    float64
		moisture float64
	}{
		{series.Points[0], 300, 0.15},
		{series.Points[1], 350, 0.15},
		{series.At(2, 5), 550, 0.21},
	}
	for _, c := range cells {
		if c.got.BiocharPrice != c.price || c.got.Moisture != c.moisture {
			t.Errorf("cell = (%v, %v), expected (%v, %v)", c.got.BiocharPrice, c.got.Moisture, c.price, c.moisture)
		}
	}

	q := p.WithMoisture(series.Moistures[2])
	mc := q.Plant.Moisture
	costs := economics.ComputeCostBreakdown(q)
	expected := economics.ComputePayable(q).AsReceived -
		(costs.FixedPerTonne(economics.ModeTruck)*(1-mc) + 2*costs.TruckPerTonneKm*50*(1-mc))
	if cell := series.At(2, 5); !approxEqual(cell.Value, expected, 1e-9) {
		t.Errorf("At(2, 5).Value = %v, expected %v", cell.Value, expected)
	}

	if got := series.Header(); !reflect.DeepEqual(got, []string{"P_char", "MC", "value"}) {
		t.Errorf("Header() = %v", got)
	}
}

func TestPriceMoistureBreakEvenInvariantToMoisture(t *testing.T) {
	p := economics.DefaultParameters()
	spec := DefaultSpecs().PriceMoisture
	spec.Metric = MetricBreakEven
	spec.Mode = economics.ModeTractor
	series, err := newTestGenerator(t, 3).PriceMoisture(context.Background(), p, spec)
	mustNotErr(t, err)

	for k := range series.Prices {
		ref := series.At(0, k).Value
		for m := range series.Moistures {
			if v := series.At(m, k).Value; !approxEqual(v, ref, 1e-9) {
				t.Errorf("price index %d moisture index %d: %v, expected %v", k, m, v, ref)
			}
		}
	}

	be := economics.ComputeBreakEven(economics.ComputePayable(p), economics.ComputeCostBreakdown(p), p)
	if v := series.At(0, 5).Value; !approxEqual(v, be.TractorKm, 1e-9) {
		t.Errorf("At(0, 5).Value = %v, expected %v", v, be.TractorKm)
	}
}

func TestBreakdown(t *testing.T) {
	p := economics.DefaultParameters()
	series, err := newTestGenerator(t, 1).Breakdown(context.Background(), p, DefaultSpecs().Breakdown)
	mustNotErr(t, err)
	if len(series.Rows) != 8 {
		t.Fatalf("Expected 8 rows, got %d", len(series.Rows))
	}

	costs := economics.ComputeCostBreakdown(p)
	for _, mode := range economics.Modes() {
		var sum float64
		var total float64
		for _, r := range series.Rows {
			if r.Mode != mode {
				continue
			}
			sum += r.Value
			total = r.Total
		}
		if !approxEqual(sum, total, 1e-9) {
			t.Errorf("%s components sum to %v, total is %v", mode, sum, total)
		}
		if want := costs.DeliveredDM(mode, 50, 2) * 0.75; !approxEqual(total, want, 1e-9) {
			t.Errorf("%s total = %v, expected %v", mode, total, want)
		}
	}
	if series.Rows[0].Component != ComponentChipping || series.Rows[3].Component != ComponentTransport {
		t.Errorf("Components = %s..%s, expected chipping..transport", series.Rows[0].Component, series.Rows[3].Component)
	}
}

func TestFarmMargin(t *testing.T) {
	p := economics.DefaultParameters()
	series, err := newTestGenerator(t, 5).FarmMargin(context.Background(), p, DefaultSpecs().FarmMargin)
	mustNotErr(t, err)
	if len(series.Points) != 2*2*41 {
		t.Fatalf("Expected %d points, got %d", 2*2*41, len(series.Points))
	}

	payable := economics.ComputePayable(p)
	costs := economics.ComputeCostBreakdown(p)

	base := series.Points[0]
	if base.Scenario != ScenarioBase || base.Mode != economics.ModeTractor {
		t.Errorf("First point = %s/%s, expected %s/tractor", base.Scenario, base.Mode, ScenarioBase)
	}
	if want := payable.AsReceived - costs.FixedPerTonne(economics.ModeTractor)*0.75; !approxEqual(base.Margin, want, 1e-9) {
		t.Errorf("Margin = %v, expected %v", base.Margin, want)
	}

	withC := series.Points[41]
	if withC.Scenario != ScenarioWithCarbon {
		t.Errorf("Point 41 scenario = %s, expected %s", withC.Scenario, ScenarioWithCarbon)
	}
	if want := carbon.PremiumDM(p) * 0.75; !approxEqual(withC.GatePrice-base.GatePrice, want, 1e-9) {
		t.Errorf("Gate price difference = %v, expected %v", withC.GatePrice-base.GatePrice, want)
	}

	for i := 1; i < 41; i++ {
		if series.Points[i].Margin >= series.Points[i-1].Margin {
			t.Errorf("Margin did not decrease at %d: %v >= %v", i, series.Points[i].Margin, series.Points[i-1].Margin)
		}
	}
}

func TestPlantMargin(t *testing.T) {
	p := economics.DefaultParameters()
	series, err := newTestGenerator(t, 2).PlantMargin(context.Background(), p, DefaultSpecs().PlantMargin)
	mustNotErr(t, err)
	if len(series.Points) != 31 {
		t.Fatalf("Expected 31 points, got %d", len(series.Points))
	}

	first := series.Points[0]
	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"first ChipPriceDM", first.ChipPriceDM, 0},
		{"last ChipPriceDM", series.Points[30].ChipPriceDM, 300},
		{"first MarginBase", first.MarginBase, 75300},
		{"carbon uplift", first.MarginWithCarbon - first.MarginBase, 598 * 2.87 * 80},
		{"second MarginBase", series.Points[1].MarginBase, 75300 - 10*0.299*8000},
	}
	for _, c := range checks {
		if !approxEqual(c.got, c.expected, 1e-6) {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.expected)
		}
	}
}

func TestFlaggedNonFinitePoints(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	g := NewGenerator(zap.New(core), 2)

	series, err := g.Price(context.Background(), economics.DefaultParameters(), PriceSpec{Delta: 1e308, Points: 5})
	mustNotErr(t, err)
	if len(series.Points) != 5 {
		t.Fatalf("Expected 5 points, got %d", len(series.Points))
	}

	expected := []Flag{{Index: 0, Reason: "non-finite value"}, {Index: 4, Reason: "non-finite value"}}
	if got := series.Flagged(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Flagged() = %v, expected %v", got, expected)
	}
	if n := logs.FilterMessage("non-finite sweep point").Len(); n != 2 {
		t.Errorf("Expected 2 warnings, got %d", n)
	}
	if math.IsInf(series.Points[2].PayableDM, 0) {
		t.Errorf("Center point PayableDM = %v, expected finite", series.Points[2].PayableDM)
	}
}

func TestSpecValidation(t *testing.T) {
	p := economics.DefaultParameters()
	ctx := context.Background()
	g := newTestGenerator(t, 1)

	tests := []struct {
		name  string
		run   func() error
		field string
	}{
		{"zero step", func() error {
			_, err := g.Distance(ctx, p, DistanceSpec{MaxKm: 10, StepKm: 0})
			return err
		}, "stepKm"},
		{"negative max", func() error {
			_, err := g.FarmMargin(ctx, p, DistanceSpec{MaxKm: -1, StepKm: 1})
			return err
		}, "maxKm"},
		{"unknown mode", func() error {
			_, err := g.Breakdown(ctx, p, BreakdownSpec{DistanceKm: 10, Modes: []economics.Mode{"barge"}})
			return err
		}, "modes"},
		{"too many points", func() error {
			_, err := g.Distance(ctx, p, DistanceSpec{MaxKm: 1e9, StepKm: 1e-3})
			return err
		}, "stepKm"},
		{"zero price points", func() error {
			_, err := g.Price(ctx, p, PriceSpec{Delta: 50, Points: 0})
			return err
		}, "points"},
		{"negative price delta", func() error {
			_, err := g.Price(ctx, p, PriceSpec{Delta: -50, Points: 11})
			return err
		}, "delta"},
		{"zero price delta", func() error {
			_, err := g.Price(ctx, p, PriceSpec{Delta: 0, Points: 11})
			return err
		}, "delta"},
		{"bad carbon mode", func() error {
			_, err := g.Price(ctx, p, PriceSpec{Delta: 50, Points: 3, Carbon: "sometimes"})
			return err
		}, "carbon"},
		{"negative grid price delta", func() error {
			spec := DefaultSpecs().PriceMoisture
			spec.PriceDelta = -50
			_, err := g.PriceMoisture(ctx, p, spec)
			return err
		}, "priceDelta"},
		{"zero grid price delta", func() error {
			spec := DefaultSpecs().PriceMoisture
			spec.PriceDelta = 0
			_, err := g.PriceMoisture(ctx, p, spec)
			return err
		}, "priceDelta"},
		{"moisture range reversed", func() error {
			spec := DefaultSpecs().PriceMoisture
			spec.MoistureMin, spec.MoistureMax = 0.4, 0.2
			_, err := g.PriceMoisture(ctx, p, spec)
			return err
		}, "moistureMin"},
		{"moisture one", func() error {
			spec := DefaultSpecs().PriceMoisture
			spec.MoistureMax = 1
			_, err := g.PriceMoisture(ctx, p, spec)
			return err
		}, "moistureMax"},
		{"bad metric", func() error {
			spec := DefaultSpecs().PriceMoisture
			spec.Metric = "profit"
			_, err := g.PriceMoisture(ctx, p, spec)
			return err
		}, "metric"},
		{"reversed chip prices", func() error {
			_, err := g.PlantMargin(ctx, p, PlantMarginSpec{MinChipPrice: 10, MaxChipPrice: 0, Points: 3})
			return err
		}, "minChipPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !errors.Is(err, ErrInvalidSweep) {
				t.Errorf("error = %v, expected ErrInvalidSweep", err)
			}

			var se *SpecError
			if !errors.As(err, &se) {
				t.Fatalf("error = %T, expected *SpecError", err)
			}
			if se.Field != tt.field {
				t.Errorf("SpecError.Field = %q, expected %q", se.Field, tt.field)
			}
		})
	}
}

func TestGridPriceAxisAscending(t *testing.T) {
	spec := DefaultSpecs().PriceMoisture
	spec.PriceDelta = 1
	series, err := newTestGenerator(t, 2).PriceMoisture(context.Background(), economics.DefaultParameters(), spec)
	mustNotErr(t, err)

	for i := 1; i < len(series.Prices); i++ {
		if series.Prices[i] <= series.Prices[i-1] {
			t.Errorf("Prices[%d] = %v, expected more than %v", i, series.Prices[i], series.Prices[i-1])
		}
	}
}

func TestInvalidParametersAbort(t *testing.T) {
	p := economics.DefaultParameters()
	p.Logistics.Backhaul = 0

	_, err := newTestGenerator(t, 1).Distance(context.Background(), p, DefaultSpecs().Distance)
	if !errors.Is(err, economics.ErrInvalidParameter) {
		t.Fatalf("error = %v, expected ErrInvalidParameter", err)
	}
	if errors.Is(err, ErrInvalidSweep) {
		t.Errorf("error = %v, should not be ErrInvalidSweep", err)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		_, err := newTestGenerator(t, workers).Distance(ctx, economics.DefaultParameters(), DefaultSpecs().Distance)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers %d: error = %v, expected context.Canceled", workers, err)
		}
	}
}

func TestSeriesImplementInterface(t *testing.T) {
	var _ Series = DistanceSeries{}
	var _ Series = PriceSeries{}
	var _ Series = GridSeries{}
	var _ Series = BreakdownSeries{}
	var _ Series = FarmMarginSeries{}
	var _ Series = PlantMarginSeries{}

	s := PlantMarginSeries{Points: []PlantMarginPoint{{ChipPriceDM: 10, MarginBase: 1.5, MarginWithCarbon: 2}}}
	if got := s.Records(); !reflect.DeepEqual(got, [][]string{{"10", "1.5", "2"}}) {
		t.Errorf("Records() = %v", got)
	}
}

func TestRunDispatchesEveryKind(t *testing.T) {
	g := newTestGenerator(t, 2)
	p := economics.DefaultParameters()
	specs := DefaultSpecs()

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			parsed, err := ParseKind(" " + strings.ToUpper(string(kind)) + " ")
			mustNotErr(t, err)
			if parsed != kind {
				t.Fatalf("ParseKind() = %s, expected %s", parsed, kind)
			}

			series, err := g.Run(context.Background(), kind, p, specs)
			mustNotErr(t, err)
			records := series.Records()
			if len(records) == 0 {
				t.Fatal("Expected records, got none")
			}
			if len(records[0]) != len(series.Header()) {
				t.Errorf("Record width = %d, header width = %d", len(records[0]), len(series.Header()))
			}
		})
	}

	if _, err := ParseKind("spiral"); !errors.Is(err, ErrInvalidSweep) {
		t.Errorf("ParseKind(spiral) error = %v, expected ErrInvalidSweep", err)
	}
	if _, err := g.Run(context.Background(), Kind("spiral"), p, specs); !errors.Is(err, ErrInvalidSweep) {
		t.Errorf("Run(spiral) error = %v, expected ErrInvalidSweep", err)
	}
}

func BenchmarkPriceMoisture(b *testing.B) {
	p := economics.DefaultParameters()
	spec := DefaultSpecs().PriceMoisture
	spec.PricePoints = 101
	spec.MoisturePoints = 101
	spec.Metric = MetricBreakEven

	for _, workers := range []int{1, 4} {
		g := NewGenerator(zap.NewNop(), workers)
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := g.PriceMoisture(context.Background(), p, spec); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
