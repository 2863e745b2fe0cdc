// Package report defines the per-scenario KPI bundle and computes it for
// every active scenario of a configuration.
package report

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/iwvelando/chip-economics/internal/config"
	"github.com/iwvelando/chip-economics/pkg/carbon"
	"github.com/iwvelando/chip-economics/pkg/economics"
)

// Report holds every headline figure of one scenario.
type Report struct {
	Name       string                       `json:"name" yaml:"name"`
	Parameters economics.EconomicParameters `json:"parameters" yaml:"parameters"`

	Costs          economics.CostBreakdown    `json:"costs" yaml:"costs"`
	Revenue        economics.RevenueBreakdown `json:"revenue" yaml:"revenue"`
	OperatingCosts economics.OperatingCosts   `json:"operatingCosts" yaml:"operatingCosts"`

	// Payable and BreakEven exclude carbon value.
	Payable   economics.PayableResult   `json:"payable" yaml:"payable"`
	BreakEven economics.BreakEvenResult `json:"breakEven" yaml:"breakEven"`

	Carbon carbon.Result `json:"carbon" yaml:"carbon"`
	// Effective and EffectiveBreakEven include carbon value when the
	// parameters put it into the payable price, otherwise they equal the base.
	Effective          economics.PayableResult   `json:"effective" yaml:"effective"`
	EffectiveBreakEven economics.BreakEvenResult `json:"effectiveBreakEven" yaml:"effectiveBreakEven"`

	// MinimumBiocharPrice is the biochar price at which the plant can pay
	// nothing for chips.
	MinimumBiocharPrice float64 `json:"minimumBiocharPrice" yaml:"minimumBiocharPrice"`
}

// Compute builds the report of one parameter set.
func Compute(name string, p economics.EconomicParameters) (Report, error) {
	if err := p.Validate(); err != nil {
		return Report{}, fmt.Errorf("scenario %q: %w", name, err)
	}

	costs := economics.ComputeCostBreakdown(p)
	payable := economics.ComputePayable(p)
	effective := carbon.Effective(p, payable)

	return Report{
		Name:                name,
		Parameters:          p,
		Costs:               costs,
		Revenue:             economics.ComputeRevenue(p),
		OperatingCosts:      economics.ComputeOperatingCosts(p),
		Payable:             payable,
		BreakEven:           economics.ComputeBreakEven(payable, costs, p),
		Carbon:              carbon.Compute(p, payable),
		Effective:           effective,
		EffectiveBreakEven:  economics.ComputeBreakEven(effective, costs, p),
		MinimumBiocharPrice: economics.BreakEvenCharPrice(p, 0),
	}, nil
}

// GetReports computes the reports of all active scenarios in configuration order.
func GetReports(logger *zap.Logger, conf config.Configuration) ([]Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Report
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "report.GetReports"),
			)
			continue
		}

		r, err := Compute(scenario.Name, scenario.Parameters)
		if err != nil {
			logger.Error("failed to compute scenario report",
				zap.String("op", "report.GetReports"),
				zap.String("scenario", scenario.Name),
				zap.Error(err),
			)
			return results, err
		}

		logger.Debug("computed scenario report",
			zap.String("op", "report.GetReports"),
			zap.String("scenario", scenario.Name),
			zap.Float64("payable_dm", r.Payable.DM),
			zap.Float64("breakeven_truck_km", r.BreakEven.TruckKm),
		)
		results = append(results, r)
	}

	return results, nil
}
