// Package economics implements the payable-price and break-even model of a
// small pyrolysis plant buying wood chips: unit costs of chipping, handling
// and transport, hourly revenue, the maximum payable feedstock price and the
// break-even transport radius per mode.
//
// Every function is a pure function of EconomicParameters. Prices and costs
// are per tonne of dry matter (DM) unless a name says AsReceived.
package economics

import (
	"math"

	"github.com/iwvelando/chip-economics/pkg/units"
)

// EconomicParameters holds every input of the model.
type EconomicParameters struct {
	Plant     PlantParameters     `mapstructure:"plant" yaml:"plant" json:"plant"`
	Market    MarketPrices        `mapstructure:"market" yaml:"market" json:"market"`
	Machines  MachineCosts        `mapstructure:"machines" yaml:"machines" json:"machines"`
	Logistics LogisticsParameters `mapstructure:"logistics" yaml:"logistics" json:"logistics"`
	Labor     LaborParameters     `mapstructure:"labor" yaml:"labor" json:"labor"`
	Toggles   CostToggles         `mapstructure:"toggles" yaml:"toggles" json:"toggles"`
	Carbon    CarbonParameters    `mapstructure:"carbon" yaml:"carbon" json:"carbon"`
}

// PlantParameters describes the plant's operation and non-feedstock costs.
type PlantParameters struct {
	IntakeDMPerHour        float64 `mapstructure:"intakeDMPerHour" yaml:"intakeDMPerHour" json:"intakeDMPerHour"`             // t DM/h
	CharYield              float64 `mapstructure:"charYield" yaml:"charYield" json:"charYield"`                               // t char / t DM
	NetElectricityKW       float64 `mapstructure:"netElectricityKW" yaml:"netElectricityKW" json:"netElectricityKW"`          // kW
	NetHeatKW              float64 `mapstructure:"netHeatKW" yaml:"netHeatKW" json:"netHeatKW"`                               // kW_th
	OperatingHoursPerYear  float64 `mapstructure:"operatingHoursPerYear" yaml:"operatingHoursPerYear" json:"operatingHoursPerYear"`
	Operators              float64 `mapstructure:"operators" yaml:"operators" json:"operators"`
	OperatorWage           float64 `mapstructure:"operatorWage" yaml:"operatorWage" json:"operatorWage"` // €/h
	OMPerHour              float64 `mapstructure:"omPerHour" yaml:"omPerHour" json:"omPerHour"`          // €/h
	ImportElectricityPrice float64 `mapstructure:"importElectricityPrice" yaml:"importElectricityPrice" json:"importElectricityPrice"` // €/kWh
	ImportElectricityKWh   float64 `mapstructure:"importElectricityKWh" yaml:"importElectricityKWh" json:"importElectricityKWh"`       // kWh/h
	TargetMarginPerHour    float64 `mapstructure:"targetMarginPerHour" yaml:"targetMarginPerHour" json:"targetMarginPerHour"`          // €/h
	Moisture               float64 `mapstructure:"moisture" yaml:"moisture" json:"moisture"`                                           // as-received fraction
}

// MarketPrices holds the selling prices of the plant's products.
type MarketPrices struct {
	BiocharPrice     float64 `mapstructure:"biocharPrice" yaml:"biocharPrice" json:"biocharPrice"`             // €/t
	ElectricityPrice float64 `mapstructure:"electricityPrice" yaml:"electricityPrice" json:"electricityPrice"` // €/kWh
	HeatPrice        float64 `mapstructure:"heatPrice" yaml:"heatPrice" json:"heatPrice"`                      // €/kWh_th
}

// MachineCosts holds machine unit costs of the supply chain.
type MachineCosts struct {
	TractorPerHour         float64 `mapstructure:"tractorPerHour" yaml:"tractorPerHour" json:"tractorPerHour"`
	ChipperPerHour         float64 `mapstructure:"chipperPerHour" yaml:"chipperPerHour" json:"chipperPerHour"`
	TractorBodyPerTonne    float64 `mapstructure:"tractorBodyPerTonne" yaml:"tractorBodyPerTonne" json:"tractorBodyPerTonne"`
	SemiTrailerPerTonne    float64 `mapstructure:"semiTrailerPerTonne" yaml:"semiTrailerPerTonne" json:"semiTrailerPerTonne"`
	BucketPerTonne         float64 `mapstructure:"bucketPerTonne" yaml:"bucketPerTonne" json:"bucketPerTonne"`
	FrontLoaderPerHour     float64 `mapstructure:"frontLoaderPerHour" yaml:"frontLoaderPerHour" json:"frontLoaderPerHour"`
	TruckMachinePerTonneKm float64 `mapstructure:"truckMachinePerTonneKm" yaml:"truckMachinePerTonneKm" json:"truckMachinePerTonneKm"`
}

// LogisticsParameters holds speeds, throughputs and payloads.
type LogisticsParameters struct {
	TractorSpeedKmh            float64 `mapstructure:"tractorSpeedKmh" yaml:"tractorSpeedKmh" json:"tractorSpeedKmh"`
	TruckSpeedKmh              float64 `mapstructure:"truckSpeedKmh" yaml:"truckSpeedKmh" json:"truckSpeedKmh"`
	ChipperThroughputM3PerHour float64 `mapstructure:"chipperThroughputM3PerHour" yaml:"chipperThroughputM3PerHour" json:"chipperThroughputM3PerHour"`
	HandlingThroughputTPerHour float64 `mapstructure:"handlingThroughputTPerHour" yaml:"handlingThroughputTPerHour" json:"handlingThroughputTPerHour"`
	BulkDensityTPerM3          float64 `mapstructure:"bulkDensityTPerM3" yaml:"bulkDensityTPerM3" json:"bulkDensityTPerM3"`
	ChipBoxVolumeM3            float64 `mapstructure:"chipBoxVolumeM3" yaml:"chipBoxVolumeM3" json:"chipBoxVolumeM3"`
	TruckPayloadT              float64 `mapstructure:"truckPayloadT" yaml:"truckPayloadT" json:"truckPayloadT"`
	Backhaul                   float64 `mapstructure:"backhaul" yaml:"backhaul" json:"backhaul"` // 1 = one-way, 2 = round trip
}

// LaborParameters holds the supply-chain wage.
type LaborParameters struct {
	WageBase       float64 `mapstructure:"wageBase" yaml:"wageBase" json:"wageBase"`
	OncostFraction float64 `mapstructure:"oncostFraction" yaml:"oncostFraction" json:"oncostFraction"`
}

// Wage returns the loaded supply-chain wage in €/h.
func (l LaborParameters) Wage() float64 {
	return l.WageBase * (1 + l.OncostFraction)
}

// CostToggles gate which labor terms enter the unit costs.
type CostToggles struct {
	IncludeLabor           bool `mapstructure:"includeLabor" yaml:"includeLabor" json:"includeLabor"`
	IncludeChipperOperator bool `mapstructure:"includeChipperOperator" yaml:"includeChipperOperator" json:"includeChipperOperator"`
	IncludeLoaderOperator  bool `mapstructure:"includeLoaderOperator" yaml:"includeLoaderOperator" json:"includeLoaderOperator"`
	IncludeDriver          bool `mapstructure:"includeDriver" yaml:"includeDriver" json:"includeDriver"`
	DriverInTruckTkm       bool `mapstructure:"driverInTruckTkm" yaml:"driverInTruckTkm" json:"driverInTruckTkm"`
}

// ChipperLabor reports whether the chipper operator is paid.
func (t CostToggles) ChipperLabor() bool {
	return t.IncludeLabor && t.IncludeChipperOperator
}

// LoaderLabor reports whether the loader operator is paid.
func (t CostToggles) LoaderLabor() bool {
	return t.IncludeLabor && t.IncludeLoaderOperator
}

// TractorDriverLabor reports whether the tractor driver is paid.
func (t CostToggles) TractorDriverLabor() bool {
	return t.IncludeLabor && t.IncludeDriver
}

// TruckDriverLabor reports whether the truck driver is added to the truck t·km cost.
func (t CostToggles) TruckDriverLabor() bool {
	return t.IncludeLabor && t.IncludeDriver && t.DriverInTruckTkm
}

// CarbonParameters configures the optional carbon-credit extension.
type CarbonParameters struct {
	PricePerTonneCO2  float64 `mapstructure:"pricePerTonneCO2" yaml:"pricePerTonneCO2" json:"pricePerTonneCO2"`    // €/t CO2-eq
	CO2eqPerTonneChar float64 `mapstructure:"co2eqPerTonneChar" yaml:"co2eqPerTonneChar" json:"co2eqPerTonneChar"` // t CO2-eq / t char
	IncludeInPayable  bool    `mapstructure:"includeInPayable" yaml:"includeInPayable" json:"includeInPayable"`
}

// DefaultParameters returns the reference plant: a 0.299 t DM/h pyrolysis
// unit with KTBL-style supply-chain costs.
func DefaultParameters() EconomicParameters {
	return EconomicParameters{
		Plant: PlantParameters{
			IntakeDMPerHour:        0.299,
			CharYield:              0.25,
			NetElectricityKW:       130,
			NetHeatKW:              200,
			OperatingHoursPerYear:  8000,
			Operators:              1,
			OperatorWage:           28,
			OMPerHour:              30,
			ImportElectricityPrice: 0.28,
			ImportElectricityKWh:   0,
			TargetMarginPerHour:    0,
			Moisture:               0.25,
		},
		Market: MarketPrices{
			BiocharPrice:     550,
			ElectricityPrice: 0.11,
			HeatPrice:        0.06,
		},
		Machines: MachineCosts{
			TractorPerHour:         41.84,
			ChipperPerHour:         22.63,
			TractorBodyPerTonne:    0.82,
			SemiTrailerPerTonne:    0.89,
			BucketPerTonne:         0.39,
			FrontLoaderPerHour:     8.68,
			TruckMachinePerTonneKm: 0.12,
		},
		Logistics: LogisticsParameters{
			TractorSpeedKmh:            40,
			TruckSpeedKmh:              70,
			ChipperThroughputM3PerHour: 25,
			HandlingThroughputTPerHour: 20,
			BulkDensityTPerM3:          0.30,
			ChipBoxVolumeM3:            22,
			TruckPayloadT:              25,
			Backhaul:                   2,
		},
		Labor: LaborParameters{
			WageBase:       12.82,
			OncostFraction: 0.22,
		},
		Toggles: CostToggles{
			IncludeLabor:           true,
			IncludeChipperOperator: true,
			IncludeLoaderOperator:  true,
			IncludeDriver:          true,
			DriverInTruckTkm:       true,
		},
		Carbon: CarbonParameters{
			PricePerTonneCO2:  80,
			CO2eqPerTonneChar: 2.87,
			IncludeInPayable:  true,
		},
	}
}

// WithBiocharPrice returns a copy with a different biochar price.
func (p EconomicParameters) WithBiocharPrice(price float64) EconomicParameters {
	p.Market.BiocharPrice = price
	return p
}

// WithMoisture returns a copy with a different moisture fraction.
func (p EconomicParameters) WithMoisture(moisture float64) EconomicParameters {
	p.Plant.Moisture = moisture
	return p
}

// Converter returns the unit converter for the parameter set's moisture.
func (p EconomicParameters) Converter() (units.Converter, error) {
	c, err := units.NewConverter(p.Plant.Moisture)
	if err != nil {
		return units.Converter{}, &ParameterError{Param: "plant.moisture", Value: p.Plant.Moisture, Reason: "must lie in [0, 1)", Err: err}
	}
	return c, nil
}

// Basis returns the converter of a parameter set that has passed Validate.
func (p EconomicParameters) Basis() units.Converter {
	return units.Unchecked(p.Plant.Moisture)
}

type namedValue struct {
	name  string
	value float64
}

// Validate reports the first parameter outside its domain.
func (p EconomicParameters) Validate() error {
	if _, err := p.Converter(); err != nil {
		return err
	}

	if y := p.Plant.CharYield; math.IsNaN(y) || y < 0 || y > 1 {
		return &ParameterError{Param: "plant.charYield", Value: y, Reason: "must lie in [0, 1]"}
	}

	nonNegative := []namedValue{
		{"plant.intakeDMPerHour", p.Plant.IntakeDMPerHour},
		{"plant.operatingHoursPerYear", p.Plant.OperatingHoursPerYear},
		{"plant.operators", p.Plant.Operators},
		{"plant.importElectricityKWh", p.Plant.ImportElectricityKWh},
		{"plant.netElectricityKW", p.Plant.NetElectricityKW},
		{"plant.netHeatKW", p.Plant.NetHeatKW},
		{"logistics.tractorSpeedKmh", p.Logistics.TractorSpeedKmh},
		{"logistics.truckSpeedKmh", p.Logistics.TruckSpeedKmh},
		{"logistics.chipperThroughputM3PerHour", p.Logistics.ChipperThroughputM3PerHour},
		{"logistics.handlingThroughputTPerHour", p.Logistics.HandlingThroughputTPerHour},
		{"logistics.bulkDensityTPerM3", p.Logistics.BulkDensityTPerM3},
		{"logistics.chipBoxVolumeM3", p.Logistics.ChipBoxVolumeM3},
		{"logistics.truckPayloadT", p.Logistics.TruckPayloadT},
		{"labor.wageBase", p.Labor.WageBase},
		{"labor.oncostFraction", p.Labor.OncostFraction},
		{"carbon.pricePerTonneCO2", p.Carbon.PricePerTonneCO2},
	}
	for _, nv := range nonNegative {
		if math.IsNaN(nv.value) || nv.value < 0 {
			return &ParameterError{Param: nv.name, Value: nv.value, Reason: "must not be negative"}
		}
	}

	if b := p.Logistics.Backhaul; math.IsNaN(b) || b <= 0 {
		return &ParameterError{Param: "logistics.backhaul", Value: b, Reason: "must be positive"}
	}

	for _, nv := range p.finiteValues() {
		if math.IsNaN(nv.value) || math.IsInf(nv.value, 0) {
			return &ParameterError{Param: nv.name, Value: nv.value, Reason: "must be finite"}
		}
	}

	return nil
}

func (p EconomicParameters) finiteValues() []namedValue {
	return []namedValue{
		{"plant.intakeDMPerHour", p.Plant.IntakeDMPerHour},
		{"plant.charYield", p.Plant.CharYield},
		{"plant.netElectricityKW", p.Plant.NetElectricityKW},
		{"plant.netHeatKW", p.Plant.NetHeatKW},
		{"plant.operatingHoursPerYear", p.Plant.OperatingHoursPerYear},
		{"plant.operators", p.Plant.Operators},
		{"plant.operatorWage", p.Plant.OperatorWage},
		{"plant.omPerHour", p.Plant.OMPerHour},
		{"plant.importElectricityPrice", p.Plant.ImportElectricityPrice},
		{"plant.importElectricityKWh", p.Plant.ImportElectricityKWh},
		{"plant.targetMarginPerHour", p.Plant.TargetMarginPerHour},
		{"market.biocharPrice", p.Market.BiocharPrice},
		{"market.electricityPrice", p.Market.ElectricityPrice},
		{"market.heatPrice", p.Market.HeatPrice},
		{"machines.tractorPerHour", p.Machines.TractorPerHour},
		{"machines.chipperPerHour", p.Machines.ChipperPerHour},
		{"machines.tractorBodyPerTonne", p.Machines.TractorBodyPerTonne},
		{"machines.semiTrailerPerTonne", p.Machines.SemiTrailerPerTonne},
		{"machines.bucketPerTonne", p.Machines.BucketPerTonne},
		{"machines.frontLoaderPerHour", p.Machines.FrontLoaderPerHour},
		{"machines.truckMachinePerTonneKm", p.Machines.TruckMachinePerTonneKm},
		{"logistics.tractorSpeedKmh", p.Logistics.TractorSpeedKmh},
		{"logistics.truckSpeedKmh", p.Logistics.TruckSpeedKmh},
		{"logistics.chipperThroughputM3PerHour", p.Logistics.ChipperThroughputM3PerHour},
		{"logistics.handlingThroughputTPerHour", p.Logistics.HandlingThroughputTPerHour},
		{"logistics.bulkDensityTPerM3", p.Logistics.BulkDensityTPerM3},
		{"logistics.chipBoxVolumeM3", p.Logistics.ChipBoxVolumeM3},
		{"logistics.truckPayloadT", p.Logistics.TruckPayloadT},
		{"logistics.backhaul", p.Logistics.Backhaul},
		{"labor.wageBase", p.Labor.WageBase},
		{"labor.oncostFraction", p.Labor.OncostFraction},
		{"carbon.pricePerTonneCO2", p.Carbon.PricePerTonneCO2},
		{"carbon.co2eqPerTonneChar", p.Carbon.CO2eqPerTonneChar},
	}
}
