package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/iwvelando/chip-economics/internal/report"
	"github.com/iwvelando/chip-economics/pkg/economics"
)

func testReports(t *testing.T) []report.Report {
	t.Helper()
	base, err := report.Compute("Test Scenario", economics.DefaultParameters())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	wet, err := report.Compute("Wet", economics.DefaultParameters().WithMoisture(0.35))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return []report.Report{base, wet}
}

func TestWritePretty(t *testing.T) {
	results := testReports(t)

	var buf bytes.Buffer
	if err := WritePretty(&buf, results); err != nil {
		t.Fatalf("WritePretty() error = %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "--- Results for scenario Test Scenario ---") {
		t.Errorf("WritePretty missing scenario header")
	}
	if !strings.Contains(output, "--- Results for scenario Wet ---") {
		t.Errorf("WritePretty missing second scenario header")
	}
	if !strings.Contains(output, "Payable chip price at gate") {
		t.Errorf("WritePretty missing payable line")
	}
	if !strings.Contains(output, "31.48 €/t DM") {
		t.Errorf("WritePretty missing payable value, got:\n%s", output)
	}
	if !strings.Contains(output, "Summary: the plant can pay €31.48 per dry tonne") {
		t.Errorf("WritePretty missing summary, got:\n%s", output)
	}
	if !strings.Contains(output, "75,300.00 €/yr") {
		t.Errorf("WritePretty missing grouped annual budget, got:\n%s", output)
	}
}

func TestWritePrettyNegativeNote(t *testing.T) {
	r, err := report.Compute("low", economics.DefaultParameters().WithBiocharPrice(0))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	var buf bytes.Buffer
	if err := WritePretty(&buf, []report.Report{r}); err != nil {
		t.Fatalf("WritePretty() error = %v", err)
	}
	if !strings.Contains(buf.String(), "payable price is negative") {
		t.Errorf("expected negative payable note, got:\n%s", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	results := testReports(t)

	out, err := CsvString(results)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != len(kpis(results[0]))+1 {
		t.Fatalf("expected %d rows, got %d", len(kpis(results[0]))+1, len(records))
	}

	header := records[0]
	expectedHeader := []string{"metric", "value (Test Scenario)", "value (Wet)"}
	for i, col := range expectedHeader {
		if header[i] != col {
			t.Errorf("header[%d] = %q, expected %q", i, header[i], col)
		}
	}

	if records[1][0] != "payable_DM" || records[1][1] != "31.48" {
		t.Errorf("unexpected first KPI row %v", records[1])
	}
}

func TestCsvFormatEmpty(t *testing.T) {
	out, err := CsvString(nil)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	if strings.TrimSpace(out) != "metric" {
		t.Errorf("expected header only, got %q", out)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "yaml", testReports(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(decoded) != 2 || decoded[0]["name"] != "Test Scenario" {
		t.Errorf("unexpected YAML document %v", decoded)
	}
}

func TestWriteUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "xml", nil); err == nil {
		t.Error("expected error for unsupported format")
	}
	if err := WriteTable(&buf, "xml", fakeTable{}); err == nil {
		t.Error("expected error for unsupported table format")
	}
}

type fakeTable struct{}

func (fakeTable) Header() []string { return []string{"km", "cost"} }

func (fakeTable) Records() [][]string {
	return [][]string{{"0", "12.29"}, {"1", "12.51"}}
}

func TestWriteTable(t *testing.T) {
	tests := []struct {
		format   string
		contains []string
	}{
		{"csv", []string{"km,cost\n", "1,12.51\n"}},
		{"pretty", []string{"km", "cost", "12.29", "│"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteTable(&buf, tt.format, fakeTable{}); err != nil {
				t.Fatalf("WriteTable() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q, got:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestTableCSVString(t *testing.T) {
	out, err := TableCSVString(fakeTable{})
	if err != nil {
		t.Fatalf("TableCSVString() error = %v", err)
	}
	if out != "km,cost\n0,12.29\n1,12.51\n" {
		t.Errorf("unexpected CSV %q", out)
	}
}
