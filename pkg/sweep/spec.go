package sweep

import (
	"math"

	"github.com/iwvelando/chip-economics/pkg/constants"
	"github.com/iwvelando/chip-economics/pkg/economics"
)

// CarbonMode selects how carbon value enters the biochar price sweep.
type CarbonMode string

const (
	// CarbonOff ignores carbon value.
	CarbonOff CarbonMode = "off"
	// CarbonInherit follows the parameters' IncludeInPayable toggle.
	CarbonInherit CarbonMode = "inherit"
	// CarbonPremium adds the per-tonne premium after the payable step.
	CarbonPremium CarbonMode = "premium"
	// CarbonRevenue folds hourly carbon revenue into the revenue before the payable step.
	CarbonRevenue CarbonMode = "revenue"
)

// Metric selects the value of the price x moisture grid.
type Metric string

const (
	// MetricGap is payable minus delivered cost, as received, at the probe distance.
	MetricGap Metric = "gap"
	// MetricBreakEven is the break-even radius of the grid's mode.
	MetricBreakEven Metric = "breakeven"
)

// DistanceSpec configures the distance and farm margin sweeps.
type DistanceSpec struct {
	MaxKm  float64          `mapstructure:"maxKm" yaml:"maxKm" json:"maxKm"`
	StepKm float64          `mapstructure:"stepKm" yaml:"stepKm" json:"stepKm"`
	Modes  []economics.Mode `mapstructure:"modes" yaml:"modes" json:"modes"`
}

// PriceSpec configures the biochar price sweep.
type PriceSpec struct {
	Delta  float64    `mapstructure:"delta" yaml:"delta" json:"delta"`
	Points int        `mapstructure:"points" yaml:"points" json:"points"`
	Carbon CarbonMode `mapstructure:"carbon" yaml:"carbon" json:"carbon"`
}

// GridSpec configures the biochar price x moisture sweep.
type GridSpec struct {
	PriceDelta     float64        `mapstructure:"priceDelta" yaml:"priceDelta" json:"priceDelta"`
	PricePoints    int            `mapstructure:"pricePoints" yaml:"pricePoints" json:"pricePoints"`
	MoistureMin    float64        `mapstructure:"moistureMin" yaml:"moistureMin" json:"moistureMin"`
	MoistureMax    float64        `mapstructure:"moistureMax" yaml:"moistureMax" json:"moistureMax"`
	MoisturePoints int            `mapstructure:"moisturePoints" yaml:"moisturePoints" json:"moisturePoints"`
	Mode           economics.Mode `mapstructure:"mode" yaml:"mode" json:"mode"`
	Metric         Metric         `mapstructure:"metric" yaml:"metric" json:"metric"`
	ProbeKm        float64        `mapstructure:"probeKm" yaml:"probeKm" json:"probeKm"`
}

// BreakdownSpec configures the delivered cost breakdown.
type BreakdownSpec struct {
	DistanceKm float64          `mapstructure:"distanceKm" yaml:"distanceKm" json:"distanceKm"`
	Modes      []economics.Mode `mapstructure:"modes" yaml:"modes" json:"modes"`
}

// PlantMarginSpec configures the plant gross margin curve.
type PlantMarginSpec struct {
	MinChipPrice float64 `mapstructure:"minChipPrice" yaml:"minChipPrice" json:"minChipPrice"`
	MaxChipPrice float64 `mapstructure:"maxChipPrice" yaml:"maxChipPrice" json:"maxChipPrice"`
	Points       int     `mapstructure:"points" yaml:"points" json:"points"`
}

// Specs bundles one specification per sweep kind.
type Specs struct {
	Distance      DistanceSpec    `mapstructure:"distance" yaml:"distance" json:"distance"`
	Price         PriceSpec       `mapstructure:"price" yaml:"price" json:"price"`
	PriceMoisture GridSpec        `mapstructure:"priceMoisture" yaml:"priceMoisture" json:"priceMoisture"`
	Breakdown     BreakdownSpec   `mapstructure:"breakdown" yaml:"breakdown" json:"breakdown"`
	FarmMargin    DistanceSpec    `mapstructure:"farmMargin" yaml:"farmMargin" json:"farmMargin"`
	PlantMargin   PlantMarginSpec `mapstructure:"plantMargin" yaml:"plantMargin" json:"plantMargin"`
}

// DefaultSpecs returns the dashboard defaults for every sweep.
func DefaultSpecs() Specs {
	return Specs{
		Distance: DistanceSpec{
			MaxKm:  constants.DefaultDistanceMaxKm,
			StepKm: constants.DefaultDistanceStepKm,
			Modes:  economics.Modes(),
		},
		Price: PriceSpec{
			Delta:  constants.DefaultPriceDelta,
			Points: constants.DefaultPricePoints,
			Carbon: CarbonOff,
		},
		PriceMoisture: GridSpec{
			PriceDelta:     constants.DefaultPriceDelta,
			PricePoints:    constants.DefaultPricePoints,
			MoistureMin:    constants.DefaultMoistureMin,
			MoistureMax:    constants.DefaultMoistureMax,
			MoisturePoints: constants.DefaultMoisturePoints,
			Mode:           economics.ModeTruck,
			Metric:         MetricGap,
			ProbeKm:        constants.DefaultProbeKm,
		},
		Breakdown: BreakdownSpec{
			DistanceKm: constants.DefaultBreakdownKm,
			Modes:      economics.Modes(),
		},
		FarmMargin: DistanceSpec{
			MaxKm:  constants.DefaultDistanceMaxKm,
			StepKm: constants.DefaultFarmMarginStepKm,
			Modes:  economics.Modes(),
		},
		PlantMargin: PlantMarginSpec{
			MinChipPrice: 0,
			MaxChipPrice: constants.DefaultPlantMarginMaxChipPrice,
			Points:       constants.DefaultPlantMarginPoints,
		},
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateModes(field string, modes []economics.Mode) error {
	for _, m := range modes {
		if _, err := economics.ParseMode(string(m)); err != nil {
			return specError(field, err.Error())
		}
	}
	return nil
}

// Validate checks the distance axis and the requested modes.
func (s DistanceSpec) Validate() error {
	switch {
	case !finite(s.MaxKm) || s.MaxKm < 0:
		return specError("maxKm", "must be a finite non-negative number")
	case !finite(s.StepKm) || s.StepKm <= 0:
		return specError("stepKm", "must be a finite positive number")
	}
	if n := math.Ceil((s.MaxKm+s.StepKm)/s.StepKm) * float64(len(economics.OrderedModes(s.Modes))); n > MaxPoints {
		return specError("stepKm", "produces too many points")
	}
	return validateModes("modes", s.Modes)
}

// Validate checks the price axis and carbon mode.
func (s PriceSpec) Validate() error {
	switch {
	case !finite(s.Delta) || s.Delta <= 0:
		return specError("delta", "must be a finite positive number")
	case s.Points < 1 || s.Points > MaxPoints:
		return specError("points", "must be between 1 and MaxPoints")
	}
	switch s.Carbon {
	case "", CarbonOff, CarbonInherit, CarbonPremium, CarbonRevenue:
		return nil
	default:
		return specError("carbon", "must be off, inherit, premium or revenue")
	}
}

// Validate checks both grid axes, the mode and the metric.
func (s GridSpec) Validate() error {
	switch {
	case !finite(s.PriceDelta) || s.PriceDelta <= 0:
		return specError("priceDelta", "must be a finite positive number")
	case s.PricePoints < 1:
		return specError("pricePoints", "must be at least 1")
	case s.MoisturePoints < 1:
		return specError("moisturePoints", "must be at least 1")
	case s.PricePoints > MaxPoints || s.MoisturePoints > MaxPoints || s.PricePoints*s.MoisturePoints > MaxPoints:
		return specError("pricePoints", "produces too many points")
	case !finite(s.MoistureMin) || s.MoistureMin < 0 || s.MoistureMin >= 1:
		return specError("moistureMin", "must lie in [0, 1)")
	case !finite(s.MoistureMax) || s.MoistureMax < 0 || s.MoistureMax >= 1:
		return specError("moistureMax", "must lie in [0, 1)")
	case s.MoistureMin > s.MoistureMax:
		return specError("moistureMin", "must not exceed moistureMax")
	case !finite(s.ProbeKm) || s.ProbeKm < 0:
		return specError("probeKm", "must be a finite non-negative number")
	}
	if s.Mode != "" {
		if _, err := economics.ParseMode(string(s.Mode)); err != nil {
			return specError("mode", err.Error())
		}
	}
	switch s.Metric {
	case "", MetricGap, MetricBreakEven:
		return nil
	default:
		return specError("metric", "must be gap or breakeven")
	}
}

func (s GridSpec) mode() economics.Mode {
	if s.Mode == "" {
		return economics.ModeTruck
	}
	return s.Mode
}

func (s GridSpec) metric() Metric {
	if s.Metric == "" {
		return MetricGap
	}
	return s.Metric
}

// Validate checks the breakdown distance and modes.
func (s BreakdownSpec) Validate() error {
	if !finite(s.DistanceKm) || s.DistanceKm < 0 {
		return specError("distanceKm", "must be a finite non-negative number")
	}
	return validateModes("modes", s.Modes)
}

// Validate checks the chip price axis.
func (s PlantMarginSpec) Validate() error {
	switch {
	case !finite(s.MinChipPrice):
		return specError("minChipPrice", "must be finite")
	case !finite(s.MaxChipPrice):
		return specError("maxChipPrice", "must be finite")
	case s.MinChipPrice > s.MaxChipPrice:
		return specError("minChipPrice", "must not exceed maxChipPrice")
	case s.Points < 1 || s.Points > MaxPoints:
		return specError("points", "must be between 1 and MaxPoints")
	}
	return nil
}
