package sweep

import (
	"context"
	"fmt"
	"strings"

	"github.com/iwvelando/chip-economics/pkg/economics"
)

// Kind names one of the sweeps.
type Kind string

const (
	KindDistance    Kind = "distance"
	KindPrice       Kind = "price"
	KindGrid        Kind = "grid"
	KindBreakdown   Kind = "breakdown"
	KindFarmMargin  Kind = "farm-margin"
	KindPlantMargin Kind = "plant-margin"
)

// Kinds lists every sweep kind.
func Kinds() []Kind {
	return []Kind{KindDistance, KindPrice, KindGrid, KindBreakdown, KindFarmMargin, KindPlantMargin}
}

// ParseKind converts a name to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", specError("kind", fmt.Sprintf("unknown sweep %q", s))
}

// Run computes the sweep of the given kind using its spec from specs.
func (g *Generator) Run(ctx context.Context, kind Kind, p economics.EconomicParameters, specs Specs) (Series, error) {
	switch kind {
	case KindDistance:
		return g.Distance(ctx, p, specs.Distance)
	case KindPrice:
		return g.Price(ctx, p, specs.Price)
	case KindGrid:
		return g.PriceMoisture(ctx, p, specs.PriceMoisture)
	case KindBreakdown:
		return g.Breakdown(ctx, p, specs.Breakdown)
	case KindFarmMargin:
		return g.FarmMargin(ctx, p, specs.FarmMargin)
	case KindPlantMargin:
		return g.PlantMargin(ctx, p, specs.PlantMargin)
	}
	return nil, specError("kind", fmt.Sprintf("unknown sweep %q", kind))
}
