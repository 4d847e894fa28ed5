// Package api exposes the analyzer and stored records over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zombar/lexmetrics/internal/analyzer"
	"github.com/zombar/lexmetrics/internal/database"
	"github.com/zombar/lexmetrics/internal/metrics"
	"github.com/zombar/lexmetrics/internal/models"
	"github.com/zombar/lexmetrics/internal/pipeline"
	"github.com/zombar/lexmetrics/internal/report"
	"github.com/zombar/lexmetrics/internal/tracing"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// QueueClient enqueues URL documents for background processing
type QueueClient interface {
	EnqueueProcessDocument(ctx context.Context, id, url string) (string, error)
}

// Handler handles HTTP requests
type Handler struct {
	db          *database.DB
	analyzer    *analyzer.Analyzer
	queueClient QueueClient
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	logger      *slog.Logger
	mux         *http.ServeMux
}

// Option configures a Handler
type Option func(*Handler)

// WithMetrics counts documents analysed through the API
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithGatherer sets the registry served on /metrics
func WithGatherer(g prometheus.Gatherer) Option {
	return func(h *Handler) { h.gatherer = g }
}

// WithLogger overrides the default logger
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// NewHandler creates a new API handler with CORS support. queueClient may be
// nil, in which case URL submissions are rejected.
func NewHandler(db *database.DB, a *analyzer.Analyzer, queueClient QueueClient, opts ...Option) http.Handler {
	h := newHandler(db, a, queueClient, opts...)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(h.mux)
}

func newHandler(db *database.DB, a *analyzer.Analyzer, queueClient QueueClient, opts ...Option) *Handler {
	h := &Handler{
		db:          db,
		analyzer:    a,
		queueClient: queueClient,
		gatherer:    prometheus.DefaultGatherer,
		logger:      slog.Default(),
		mux:         http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.setupRoutes()
	return h
}

// setupRoutes configures all API routes
func (h *Handler) setupRoutes() {
	h.mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("POST /api/analyze", h.handleAnalyze)
	h.mux.HandleFunc("POST /api/documents", h.handleSubmitDocument)
	h.mux.HandleFunc("GET /api/records", h.handleListRecords)
	h.mux.HandleFunc("GET /api/records/{id}", h.handleGetRecord)
	h.mux.HandleFunc("DELETE /api/records/{id}", h.handleDeleteRecord)
	h.mux.HandleFunc("GET /api/export", h.handleExport)
	h.mux.HandleFunc("GET /api/summary", h.handleSummary)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}
	if err := h.db.Conn().PingContext(r.Context()); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unavailable"
		body["error"] = err.Error()
	}
	respondJSON(w, body, status)
}

// handleAnalyze analyses text synchronously and stores the record
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	tracing.SetSpanAttributes(r.Context(),
		attribute.String("document.id", req.ID),
		attribute.Int("text.length", len(req.Text)),
	)

	start := time.Now()
	record, ok := h.analyzer.AnalyzeWithContext(r.Context(), models.Document{ID: req.ID, Text: req.Text})
	if h.metrics != nil {
		h.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}
	if !ok {
		h.count(metrics.OutcomeSkipped)
		respondError(w, "Text field is required", http.StatusUnprocessableEntity)
		return
	}

	ctx, span := otel.Tracer("lexmetrics").Start(r.Context(), "database.save_record")
	span.SetAttributes(attribute.String("document.id", req.ID))
	err := h.db.SaveAnalysis(ctx, &models.Analysis{Record: *record})
	span.End()
	if err != nil {
		h.count(metrics.OutcomeFailed)
		h.logger.Error("failed to save record", "id", req.ID, "error", err)
		respondError(w, "Failed to save record", http.StatusInternalServerError)
		return
	}

	h.count(metrics.OutcomeRecorded)
	if h.metrics != nil {
		h.metrics.FogIndex.Observe(record.FogIndex)
	}
	respondJSON(w, record, http.StatusOK)
}

// handleSubmitDocument queues a URL for retrieval and analysis
func (h *Handler) handleSubmitDocument(w http.ResponseWriter, r *http.Request) {
	if h.queueClient == nil {
		respondError(w, "Document queue is not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		respondError(w, "URL field is required", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	taskID, err := h.queueClient.EnqueueProcessDocument(r.Context(), req.ID, req.URL)
	if err != nil {
		h.logger.Error("failed to enqueue document", "id", req.ID, "error", err)
		respondError(w, fmt.Sprintf("Failed to enqueue document: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]string{
		"id":      req.ID,
		"task_id": taskID,
		"status":  "queued",
	}, http.StatusAccepted)
}

// handleListRecords lists stored records with pagination
func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = min(l, maxLimit)
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	analyses, err := h.db.ListAnalyses(r.Context(), limit, offset)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	total, err := h.db.CountAnalyses(r.Context())
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]any{
		"records": analyses,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	}, http.StatusOK)
}

// handleGetRecord returns one stored record
func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.db.GetAnalysis(r.Context(), r.PathValue("id"))
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, analysis, http.StatusOK)
}

// handleDeleteRecord deletes one stored record
func (h *Handler) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	err := h.db.DeleteAnalysis(r.Context(), r.PathValue("id"))
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport writes every stored record as CSV in input order
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	records, err := h.storedRecords(r.Context())
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="output.csv"`)
	if err := pipeline.WriteCSV(w, records); err != nil {
		h.logger.Error("failed to write export", "error", err)
	}
}

// handleSummary returns per-metric statistics over the stored records
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	records, err := h.storedRecords(r.Context())
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, report.Summarize(records), http.StatusOK)
}

func (h *Handler) storedRecords(ctx context.Context) ([]models.MetricRecord, error) {
	analyses, err := h.db.AllAnalyses(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]models.MetricRecord, len(analyses))
	for i, a := range analyses {
		records[i] = a.Record
	}
	return records, nil
}

func (h *Handler) count(outcome string) {
	if h.metrics != nil {
		h.metrics.Documents.WithLabelValues(outcome).Inc()
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, map[string]string{"error": message}, statusCode)
}
