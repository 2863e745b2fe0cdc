package economics

// RevenueBreakdown is the plant's hourly revenue in €/h.
type RevenueBreakdown struct {
	CharOutputPerHour float64 `json:"charOutputPerHour" yaml:"charOutputPerHour"` // t char/h
	Biochar           float64 `json:"biochar" yaml:"biochar"`
	Electricity       float64 `json:"electricity" yaml:"electricity"`
	Heat              float64 `json:"heat" yaml:"heat"`
	Total             float64 `json:"total" yaml:"total"`
}

// OperatingCosts are the plant's non-feedstock hourly costs in €/h.
type OperatingCosts struct {
	Labor               float64 `json:"labor" yaml:"labor"`
	OM                  float64 `json:"om" yaml:"om"`
	ImportedElectricity float64 `json:"importedElectricity" yaml:"importedElectricity"`
	Total               float64 `json:"total" yaml:"total"`
}

// ComputeRevenue returns the hourly revenue from biochar, electricity and heat.
func ComputeRevenue(p EconomicParameters) RevenueBreakdown {
	r := RevenueBreakdown{
		CharOutputPerHour: p.Plant.CharYield * p.Plant.IntakeDMPerHour,
		Electricity:       p.Market.ElectricityPrice * p.Plant.NetElectricityKW,
		Heat:              p.Market.HeatPrice * p.Plant.NetHeatKW,
	}
	r.Biochar = p.Market.BiocharPrice * r.CharOutputPerHour
	r.Total = r.Biochar + r.Electricity + r.Heat
	return r
}

// ComputeOperatingCosts returns the hourly labor, O&M and import costs.
func ComputeOperatingCosts(p EconomicParameters) OperatingCosts {
	c := OperatingCosts{
		Labor:               p.Plant.Operators * p.Plant.OperatorWage,
		OM:                  p.Plant.OMPerHour,
		ImportedElectricity: p.Plant.ImportElectricityPrice * p.Plant.ImportElectricityKWh,
	}
	c.Total = c.Labor + c.OM + c.ImportedElectricity
	return c
}
