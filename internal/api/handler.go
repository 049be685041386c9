package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"equity-insight/analysis"
	"equity-insight/config"
	"equity-insight/models"
	"equity-insight/services"

	"github.com/go-chi/chi/v5"
)

// StockAnalyzer is the analysis surface the handlers need.
type StockAnalyzer interface {
	Analyze(ctx context.Context, symbol string) (*models.StockAnalysis, error)
	Chart(ctx context.Context, symbol, timeRange string) (*models.ChartData, error)
}

// Handler handles HTTP API requests
type Handler struct {
	analyzer StockAnalyzer
	cfg      *config.Config
}

// NewHandler creates a new Handler
func NewHandler(analyzer StockAnalyzer, cfg *config.Config) *Handler {
	return &Handler{analyzer: analyzer, cfg: cfg}
}

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
	}

	// Add circuit breaker status
	cbStatus := services.Breakers().Status()
	status["circuit_breakers"] = cbStatus

	// Check if any breakers are open (degraded state)
	for _, cb := range cbStatus {
		if cb.State == "open" {
			status["status"] = "degraded"
			break
		}
	}

	h.jsonResponse(w, status)
}

// HandleGetAnalysis runs the aggregation pipeline for one symbol and returns
// the assembled record. Symbol validation happens before any provider call.
func (h *Handler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(chi.URLParam(r, "symbol"))
	if symbol == "" {
		h.jsonError(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	record, err := h.analyzer.Analyze(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, analysis.ErrInvalidSymbol) {
			h.jsonError(w, "Invalid symbol format", http.StatusBadRequest)
			return
		}
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, record)
}

// HandleGetChart serves cached price history for one symbol. The range
// defaults to one year and must come from the accepted vocabulary.
func (h *Handler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(chi.URLParam(r, "symbol"))
	if symbol == "" {
		h.jsonError(w, "Symbol is required", http.StatusBadRequest)
		return
	}
	timeRange := r.URL.Query().Get("range")
	if timeRange == "" {
		timeRange = "1y"
	}

	chart, err := h.analyzer.Chart(r.Context(), symbol, timeRange)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrInvalidSymbol):
			h.jsonError(w, "Invalid symbol format", http.StatusBadRequest)
		case errors.Is(err, analysis.ErrInvalidRange):
			h.jsonError(w, "Invalid chart range", http.StatusBadRequest)
		default:
			h.jsonError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.jsonResponse(w, chart)
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
