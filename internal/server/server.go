// Package server exposes the report and sweep computations over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/iwvelando/chip-economics/internal/config"
	"github.com/iwvelando/chip-economics/internal/report"
	"github.com/iwvelando/chip-economics/pkg/economics"
	"github.com/iwvelando/chip-economics/pkg/output"
	"github.com/iwvelando/chip-economics/pkg/sweep"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	generator     *sweep.Generator
}

// Handler serves the API. Close stops the rate limiter's background work.
type Handler struct {
	http.Handler
	limiter *RateLimiter
}

// Close releases the handler's background resources.
func (h *Handler) Close() {
	h.limiter.Stop()
}

// NewHandler constructs the HTTP handler that serves the report and sweep API.
func NewHandler(logger *zap.Logger, cfg *Config, version string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: cfg.UploadSizeBytes(),
		version:       trimmedVersion,
		generator:     sweep.NewGenerator(logger, cfg.Workers),
	}
	if h.maxUploadSize <= 0 {
		h.maxUploadSize = DefaultConfig().UploadSizeBytes()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/report", h.handleReport)
	mux.HandleFunc("/api/sweep/{kind}", h.handleSweep)
	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	limiter := NewRateLimiter(logger, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.MaxVisitors, cfg.RateLimit.Trusted()...)
	return &Handler{
		Handler: requestID(instrument(limiter.Middleware(mux))),
		limiter: limiter,
	}
}

type reportResponse struct {
	Scenarios []string        `json:"scenarios"`
	Reports   []report.Report `json:"reports"`
	CSV       string          `json:"csv"`
	Warnings  []string        `json:"warnings,omitempty"`
	Duration  string          `json:"duration"`
}

type sweepResponse struct {
	Scenario string       `json:"scenario"`
	Kind     sweep.Kind   `json:"kind"`
	Columns  []string     `json:"columns"`
	Rows     [][]string   `json:"rows"`
	Flags    []sweep.Flag `json:"flags,omitempty"`
	CSV      string       `json:"csv"`
	Warnings []string     `json:"warnings,omitempty"`
	Duration string       `json:"duration"`
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	cfg, status, err := h.readConfiguration(w, r)
	if err != nil {
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	logger := h.requestLogger(r)
	results, err := report.GetReports(logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
		return
	}

	csvData, err := output.CsvString(results)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	names := make([]string, 0, len(results))
	for _, res := range results {
		names = append(names, res.Name)
	}

	elapsed := time.Since(start)
	logger.Info("reports computed",
		zap.String("op", op),
		zap.Int("scenarios", len(results)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, reportResponse{
		Scenarios: names,
		Reports:   results,
		CSV:       csvData,
		Warnings:  warnings,
		Duration:  elapsed.String(),
	})
}

func (h *handler) handleSweep(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSweep"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	kind, err := sweep.ParseKind(r.PathValue("kind"))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusNotFound, err.Error(), op)
		return
	}

	cfg, status, err := h.readConfiguration(w, r)
	if err != nil {
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	scenario, err := cfg.FindScenario(r.URL.Query().Get("scenario"))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusNotFound, err.Error(), op)
		return
	}

	series, err := h.generator.Run(r.Context(), kind, scenario.Parameters, cfg.Sweeps)
	if err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
		return
	}

	csvData, err := output.TableCSVString(series)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	rows := series.Records()
	sweepPoints.WithLabelValues(string(kind)).Add(float64(len(rows)))
	sweepFlagged.WithLabelValues(string(kind)).Add(float64(len(series.Flagged())))

	elapsed := time.Since(start)
	h.requestLogger(r).Info("sweep computed",
		zap.String("op", op),
		zap.String("kind", string(kind)),
		zap.String("scenario", scenario.Name),
		zap.Int("rows", len(rows)),
		zap.Int("flagged", len(series.Flagged())),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, sweepResponse{
		Scenario: scenario.Name,
		Kind:     kind,
		Columns:  series.Header(),
		Rows:     rows,
		Flags:    series.Flagged(),
		CSV:      csvData,
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readConfiguration accepts a raw YAML or JSON body, or a multipart upload
// with the configuration in the "file" field. The returned status applies
// when the error is non-nil.
func (h *handler) readConfiguration(w http.ResponseWriter, r *http.Request) (*config.Configuration, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var body io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			return nil, uploadStatus(err), fmt.Errorf("failed to parse upload: %w", err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, http.StatusBadRequest, errors.New("missing configuration file")
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				h.logger.Warn("failed to close uploaded file",
					zap.String("op", "server.readConfiguration"),
					zap.Error(closeErr),
				)
			}
		}()
		body = file
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, uploadStatus(err), fmt.Errorf("failed to read configuration: %w", err)
	}
	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		return nil, http.StatusBadRequest, errors.New("empty configuration")
	}

	cfg, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return cfg, http.StatusOK, nil
}

func uploadStatus(err error) int {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// statusFor maps computation errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, economics.ErrInvalidParameter), errors.Is(err, sweep.ErrInvalidSweep):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) requestLogger(r *http.Request) *zap.Logger {
	if id := RequestIDFromContext(r.Context()); id != "" {
		return h.logger.With(zap.String("request_id", id))
	}
	return h.logger
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.requestLogger(r).Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	if err := encodeJSON(w, status, payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = encodeJSON(w, status, map[string]string{"error": msg})
}

func encodeJSON(w http.ResponseWriter, status int, payload interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}
