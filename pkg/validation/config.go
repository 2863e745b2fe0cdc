package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/chip-economics/pkg/constants"
	"github.com/iwvelando/chip-economics/pkg/economics"
	"github.com/iwvelando/chip-economics/pkg/mathutil"
)

// hoursPerYear is the number of hours in a non-leap year.
const hoursPerYear = 8760

// ParameterWarnings reports values that are valid but likely to be mistakes
// or to produce degenerate results.
func ParameterWarnings(label string, p economics.EconomicParameters) []string {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, label+": "+fmt.Sprintf(format, args...))
	}

	if b := p.Logistics.Backhaul; b != constants.BackhaulOneWay && b != constants.BackhaulRoundTrip {
		warn("backhaul factor %v is neither one-way (1) nor round trip (2)", b)
	}

	if h := p.Plant.OperatingHoursPerYear; h > hoursPerYear {
		warn("operating hours %v exceed the %d hours in a year", h, hoursPerYear)
	}

	if p.Plant.Moisture > 0.6 {
		warn("moisture %v is unusually high for wood chips", p.Plant.Moisture)
	}

	rates := []struct {
		name  string
		value float64
	}{
		{"plant.intakeDMPerHour", p.Plant.IntakeDMPerHour},
		{"logistics.tractorSpeedKmh", p.Logistics.TractorSpeedKmh},
		{"logistics.truckSpeedKmh", p.Logistics.TruckSpeedKmh},
		{"logistics.chipperThroughputM3PerHour", p.Logistics.ChipperThroughputM3PerHour},
		{"logistics.handlingThroughputTPerHour", p.Logistics.HandlingThroughputTPerHour},
		{"logistics.bulkDensityTPerM3", p.Logistics.BulkDensityTPerM3},
		{"logistics.chipBoxVolumeM3", p.Logistics.ChipBoxVolumeM3},
		{"logistics.truckPayloadT", p.Logistics.TruckPayloadT},
	}
	for _, r := range rates {
		if r.value < constants.DenominatorFloor {
			warn("%s is zero; dependent costs saturate to very large values", r.name)
		}
	}

	if p.Toggles.DriverInTruckTkm && !(p.Toggles.IncludeLabor && p.Toggles.IncludeDriver) {
		warn("driverInTruckTkm has no effect unless includeLabor and includeDriver are set")
	}

	if p.Carbon.IncludeInPayable && mathutil.IsZero(p.Carbon.PricePerTonneCO2) {
		warn("carbon is included in the payable price but the CO2 price is zero")
	}

	if p.Validate() == nil {
		payable := economics.ComputePayable(p)
		if payable.DM < 0 {
			warn("payable chip price is negative (%.2f €/t DM); the plant cannot pay for feedstock", payable.DM)
		}
		if math.Abs(payable.DM) > 1e6 {
			warn("payable chip price %.0f €/t DM is implausibly large", payable.DM)
		}
	}

	return warnings
}

// ScenarioConfig is the validation view of one scenario.
type ScenarioConfig struct {
	Name       string
	Active     bool
	Parameters economics.EconomicParameters
}

// ConfigValidator performs comprehensive configuration validation.
type ConfigValidator struct {
	Common    economics.EconomicParameters
	Scenarios []ScenarioConfig
}

// ValidateAll validates the entire configuration and returns warnings.
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	warnings = append(warnings, ParameterWarnings("common", cv.Common)...)

	seen := make(map[string]bool, len(cv.Scenarios))
	active := 0
	for _, scenario := range cv.Scenarios {
		if scenario.Name == "" {
			warnings = append(warnings, "Scenario without a name")
		} else if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is defined more than once", scenario.Name))
		}
		seen[scenario.Name] = true

		if !scenario.Active {
			continue
		}
		active++
		warnings = append(warnings, ParameterWarnings(fmt.Sprintf("Scenario '%s'", scenario.Name), scenario.Parameters)...)
	}

	if active == 0 {
		warnings = append(warnings, "No active scenarios; nothing will be reported")
	}

	return warnings
}
