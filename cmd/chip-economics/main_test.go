package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/iwvelando/chip-economics/internal/config"
	"github.com/iwvelando/chip-economics/internal/server"
)

var exampleConfig = filepath.Join("..", "..", "config.yaml.example")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", exampleConfig, "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReportCommand(t *testing.T) {
	out, err := run(t, "report")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "--- Results for scenario base ---") {
		t.Errorf("missing base scenario, got:\n%s", out)
	}
	if !strings.Contains(out, "--- Results for scenario high-price-wet ---") {
		t.Errorf("missing high-price-wet scenario, got:\n%s", out)
	}
	if strings.Contains(out, "no-carbon") {
		t.Errorf("inactive scenario should not be reported")
	}
}

func TestReportCommandCSV(t *testing.T) {
	out, err := run(t, "--output-format", "csv", "report")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if got := strings.Join(records[0], ","); got != "metric,value (base),value (high-price-wet)" {
		t.Errorf("unexpected header %q", got)
	}
}

func TestSweepCommands(t *testing.T) {
	tests := []struct {
		kind   string
		header string
		rows   int
	}{
		{"distance", "distance_km,mode,delivered_cost", 2 * 201},
		{"price", "Pchar_eurpt,Pchip_pay_DM_eurptDM", 11},
		{"grid", "P_char,MC,value", 11 * 11},
		{"breakdown", "mode,component,value,total", 8},
		{"farm-margin", "", 2 * 2 * 41},
		{"plant-margin", "", 31},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			out, err := run(t, "--output-format", "csv", "sweep", tt.kind, "--workers", "2")
			if err != nil {
				t.Fatalf("sweep %s failed: %v", tt.kind, err)
			}
			records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
			if err != nil {
				t.Fatalf("invalid CSV: %v", err)
			}
			if len(records)-1 != tt.rows {
				t.Errorf("expected %d rows, got %d", tt.rows, len(records)-1)
			}
			if tt.header != "" && !strings.HasPrefix(strings.Join(records[0], ","), tt.header) {
				t.Errorf("unexpected header %v", records[0])
			}
		})
	}
}

func TestSweepCommandWorkersAgree(t *testing.T) {
	sequential, err := run(t, "--output-format", "csv", "sweep", "distance", "--workers", "1")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	parallel, err := run(t, "--output-format", "csv", "sweep", "distance", "--workers", "8")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if sequential != parallel {
		t.Error("sweep output depends on worker count")
	}
}

func TestSweepCommandErrors(t *testing.T) {
	if _, err := run(t, "sweep", "distance", "--scenario", "missing"); err == nil {
		t.Error("expected error for unknown scenario")
	}
	if _, err := run(t, "--output-format", "xml", "report"); err == nil {
		t.Error("expected error for unsupported output format")
	}
	if _, err := run(t, "sweep", "spiral"); err == nil {
		t.Error("expected error for unknown sweep")
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "configuration is valid") && !strings.Contains(out, "warning:") {
		t.Errorf("unexpected validate output %q", out)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "warn.yaml")
	data := "common:\n  parameters:\n    logistics:\n      backhaul: 3\nscenarios:\n  - name: base\n    active: true\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cmd := newRootCmd("test")
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--config", path, "validate"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(buf.String(), "warning:") {
		t.Errorf("expected backhaul warning, got %q", buf.String())
	}
}

func TestMissingConfig(t *testing.T) {
	cmd := newRootCmd("test")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "report"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for missing configuration")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if strings.TrimSpace(out) != "test" {
		t.Errorf("expected version test, got %q", out)
	}
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LoggingConfig
		override string
		wantErr  bool
	}{
		{"defaults", config.LoggingConfig{}, "", false},
		{"console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"override", config.LoggingConfig{Level: "debug"}, "warn", false},
		{"file", config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "app.log")}, "", false},
		{"bad level", config.LoggingConfig{Level: "loud"}, "", true},
		{"bad format", config.LoggingConfig{Format: "xml"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.cfg, tt.override)
			if (err != nil) != tt.wantErr {
				t.Fatalf("initializeLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if logger != nil {
				_ = logger.Sync()
			}
		})
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	cfg := server.DefaultConfig()
	cfg.Address = addr

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, zap.NewNop(), cfg, "test") }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/healthz")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server did not start: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not shut down")
	}
}
