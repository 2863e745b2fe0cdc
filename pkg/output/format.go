// Package output provides utilities for formatting and displaying reports
// and sweep tables.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/iwvelando/chip-economics/internal/report"
	"github.com/iwvelando/chip-economics/pkg/constants"
	"github.com/iwvelando/chip-economics/pkg/format"
)

// Table is a rectangular result with named columns.
type Table interface {
	Header() []string
	Records() [][]string
}

// Write renders reports in the given output format.
func Write(w io.Writer, outputFormat string, results []report.Report) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return WriteCSV(w, results)
	case constants.OutputFormatYAML:
		return WriteYAML(w, results)
	case constants.OutputFormatPretty:
		return WritePretty(w, results)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// WritePretty outputs a human-readable rather than machine-readable summary,
// one block of KPIs per scenario.
func WritePretty(w io.Writer, results []report.Report) error {
	p := message.NewPrinter(language.English)
	for i, r := range results {
		if _, err := fmt.Fprintf(w, "--- Results for scenario %s ---\n", r.Name); err != nil {
			return err
		}
		for _, line := range kpis(r) {
			if _, err := p.Fprintf(w, "%-46s %14s %s\n", line.label, format.Number(line.value, 2), line.unit); err != nil {
				return err
			}
		}
		if _, err := p.Fprintf(w, "Summary: the plant can pay %s per dry tonne (%s with carbon) up to %.1f km by truck\n",
			format.Euro(r.Payable.DM), format.Euro(r.Carbon.PayableDMWithCarbon), r.EffectiveBreakEven.TruckKm); err != nil {
			return err
		}
		if r.Payable.DM < 0 {
			if _, err := fmt.Fprintf(w, "Note: payable price is negative; the plant cannot pay for chips\n"); err != nil {
				return err
			}
		}
		if len(results) > 1 && i < len(results)-1 {
			if _, err := fmt.Fprintf(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

type kpi struct {
	key   string
	label string
	value float64
	unit  string
}

func kpis(r report.Report) []kpi {
	return []kpi{
		{"payable_DM", "Payable chip price at gate", r.Payable.DM, "€/t DM"},
		{"payable_asrec", "Payable chip price at gate (as received)", r.Payable.AsReceived, "€/t"},
		{"payable_DM_withC", "Payable chip price incl. carbon", r.Carbon.PayableDMWithCarbon, "€/t DM"},
		{"payable_asrec_withC", "Payable chip price incl. carbon (as received)", r.Carbon.PayableAsReceivedWithCarbon, "€/t"},
		{"be_radius_tractor", "Break-even radius tractor", r.BreakEven.TractorKm, "km"},
		{"be_radius_truck", "Break-even radius truck", r.BreakEven.TruckKm, "km"},
		{"be_radius_tractor_effective", "Break-even radius tractor (effective)", r.EffectiveBreakEven.TractorKm, "km"},
		{"be_radius_truck_effective", "Break-even radius truck (effective)", r.EffectiveBreakEven.TruckKm, "km"},
		{"annual_budget", "Annual feedstock budget", r.Payable.AnnualBudget, "€/yr"},
		{"char_output", "Annual biochar output", r.Payable.AnnualCharOutput, "t/yr"},
		{"asrec_intake", "Annual chip requirement (as received)", r.Payable.AnnualAsReceivedIntake, "t/yr"},
		{"co2_balance", "CO2 balance from biochar", r.Carbon.BalancePerYear, "t CO2-eq/yr"},
		{"co2_revenue", "Carbon credit revenue", r.Carbon.RevenuePerYear, "€/yr"},
		{"carbon_premium_DM", "Carbon premium", r.Carbon.PremiumDM, "€/t DM"},
		{"carbon_premium_asrec", "Carbon premium (as received)", r.Carbon.PremiumAsReceived, "€/t"},
		{"min_biochar_price", "Biochar price for zero payable", r.MinimumBiocharPrice, "€/t"},
	}
}

// WriteCSV writes one row per KPI and one value column per scenario.
func WriteCSV(w io.Writer, results []report.Report) error {
	cw := csv.NewWriter(w)
	header := []string{"metric"}
	for _, r := range results {
		header = append(header, fmt.Sprintf("value (%s)", r.Name))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	if len(results) > 0 {
		for i, line := range kpis(results[0]) {
			row := []string{line.key}
			for _, r := range results {
				row = append(row, fmt.Sprintf("%.2f", kpis(r)[i].value))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvString returns the CSV rendering of the reports.
func CsvString(results []report.Report) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, results); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteYAML writes the full reports as a YAML document.
func WriteYAML(w io.Writer, results []report.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(results); err != nil {
		return err
	}
	return enc.Close()
}

// WriteTable renders a sweep table. YAML encodes the table value itself.
func WriteTable(w io.Writer, outputFormat string, t Table) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return WriteTableCSV(w, t)
	case constants.OutputFormatPretty:
		_, err := fmt.Fprintln(w, PrettyTable(t))
		return err
	case constants.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// WriteTableCSV writes the header and records of t.
func WriteTableCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Records()); err != nil {
		return err
	}
	return cw.Error()
}

// TableCSVString returns the CSV rendering of t.
func TableCSVString(t Table) (string, error) {
	var buf bytes.Buffer
	if err := WriteTableCSV(&buf, t); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// PrettyTable renders t as a bordered text table.
func PrettyTable(t Table) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Header()...).
		Rows(t.Records()...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
