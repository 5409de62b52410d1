// Package api implements the furrow REST API.
// Stateless engine endpoints work from the active crop catalog; bed
// endpoints are backed by the garden store and blob storage.
package api

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/furrow/furrow/internal/garden"
	"github.com/furrow/furrow/internal/planner"
)

// Request bodies larger than this are rejected.
const maxBodyBytes = 1 << 20

// Handler is the top-level API handler for the furrow service.
type Handler struct {
	planner *planner.Service
	cache   *ResultCache
	logger  *zap.Logger
}

// NewHandler creates a new API handler. A nil cache disables result
// caching.
func NewHandler(p *planner.Service, cache *ResultCache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		planner: p,
		cache:   cache,
		logger:  logger,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Catalog and stateless engine endpoints
	mux.HandleFunc("GET /api/v1/crops", h.handleListCrops)
	mux.HandleFunc("GET /api/v1/crops/{cropID}", h.handleGetCrop)
	mux.HandleFunc("POST /api/v1/catalog/reload", h.handleReloadCatalog)
	mux.HandleFunc("POST /api/v1/diagnose", h.handleDiagnose)
	mux.HandleFunc("POST /api/v1/companion/score", h.handleCompanionScore)
	mux.HandleFunc("POST /api/v1/succession/suggest", h.handleSuggest)
	mux.HandleFunc("POST /api/v1/compose", h.handleCompose)

	// Beds
	mux.HandleFunc("POST /api/v1/beds", h.handleCreateBed)
	mux.HandleFunc("GET /api/v1/beds", h.handleListBeds)
	mux.HandleFunc("GET /api/v1/beds/{bedID}", h.handleGetBed)
	mux.HandleFunc("DELETE /api/v1/beds/{bedID}", h.handleDeleteBed)
	mux.HandleFunc("PUT /api/v1/beds/{bedID}/crops", h.handleSetBedCrops)
	mux.HandleFunc("POST /api/v1/beds/{bedID}/soil-tests", h.handleRecordSoilTest)
	mux.HandleFunc("POST /api/v1/beds/{bedID}/diagnose", h.handleDiagnoseBed)
	mux.HandleFunc("POST /api/v1/beds/{bedID}/score", h.handleScoreCandidate)
	mux.HandleFunc("POST /api/v1/beds/{bedID}/succession", h.handleSuggestForBed)
	mux.HandleFunc("POST /api/v1/beds/{bedID}/compose", h.handleComposeBed)
	mux.HandleFunc("GET /api/v1/beds/{bedID}/plans", h.handleListPlans)
	mux.HandleFunc("GET /api/v1/plans/{planID}", h.handleGetPlan)
}

// Routes returns the complete server handler: health check, API routes
// behind the optional API key, CORS and request logging.
func (h *Handler) Routes(apiKey string) http.Handler {
	api := http.NewServeMux()
	h.RegisterRoutes(api)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("/api/", APIKeyAuth(apiKey)(api))
	return RequestLogger(h.logger)(CORS(mux))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if store := h.planner.Store(); store != nil {
		if err := store.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps planner and store errors to status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, garden.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, garden.ErrInvalid), errors.Is(err, planner.ErrUnknownCrop):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, planner.ErrNoStore):
		writeError(w, http.StatusNotImplemented, err.Error())
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody reads a JSON request body, gzip-compressed or not.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	var body io.Reader = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return fmt.Errorf("invalid gzip body: %w", err)
		}
		defer gz.Close()
		body = gz
	}
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
