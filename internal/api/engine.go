package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/furrow/furrow/internal/planner"
	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/soil"
)

type readingInput struct {
	Nutrient string   `json:"nutrient"`
	Value    *float64 `json:"value"`
}

// toReadings accepts nutrient aliases ("nitrogen", "pH"); unknown names are
// passed through and skipped by the diagnosis.
func toReadings(in []readingInput) []soil.Reading {
	out := make([]soil.Reading, 0, len(in))
	for _, r := range in {
		n, ok := soil.ParseNutrient(r.Nutrient)
		if !ok {
			n = soil.Nutrient(r.Nutrient)
		}
		out = append(out, soil.Reading{Nutrient: n, Value: r.Value})
	}
	return out
}

type diagnoseRequest struct {
	Readings []readingInput `json:"readings"`
	AreaSqFt float64        `json:"area_sq_ft"`
}

type companionRequest struct {
	Candidate string   `json:"candidate"`
	Placed    []string `json:"placed"`
}

type suggestRequest struct {
	FinishedID    string   `json:"finished_id"`
	BedmateIDs    []string `json:"bedmate_ids"`
	HardinessZone *float64 `json:"hardiness_zone"`
	AsOf          string   `json:"as_of"` // YYYY-MM-DD or RFC3339; empty means today
	Limit         int      `json:"limit"`
}

type composeRequest struct {
	Seed  []string `json:"seed"`
	Slots int      `json:"slots"`
}

// parseAsOf accepts a date or an RFC3339 timestamp.
func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// calendarDay returns midnight of t's date in t's own location. The
// planting month is the caller's month, not the UTC one.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (h *Handler) handleListCrops(w http.ResponseWriter, r *http.Request) {
	cat, err := h.planner.Catalog(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	category := crop.Category(r.URL.Query().Get("category"))
	q := strings.ToLower(r.URL.Query().Get("q"))
	result := []crop.Crop{}
	for _, c := range cat.Crops {
		if category != "" && c.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.ID+" "+c.Name+" "+c.CommonName), q) {
			continue
		}
		result = append(result, c)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version": cat.Version,
		"source":  h.planner.CatalogSource(),
		"crops":   result,
	})
}

func (h *Handler) handleGetCrop(w http.ResponseWriter, r *http.Request) {
	cat, err := h.planner.Catalog(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	c := cat.Lookup(r.PathValue("cropID"))
	if c == nil {
		writeError(w, http.StatusNotFound, "crop not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := h.planner.Reload(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.cache.Purge()
	writeJSON(w, http.StatusOK, map[string]any{
		"version": cat.Version,
		"source":  h.planner.CatalogSource(),
		"crops":   len(cat.Crops),
	})
}

func (h *Handler) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	var req diagnoseRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Readings) == 0 {
		writeError(w, http.StatusBadRequest, "readings are required")
		return
	}
	writeJSON(w, http.StatusOK, h.planner.Diagnose(toReadings(req.Readings), req.AreaSqFt))
}

func (h *Handler) handleCompanionScore(w http.ResponseWriter, r *http.Request) {
	var req companionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Candidate == "" {
		writeError(w, http.StatusBadRequest, "candidate is required")
		return
	}
	report, err := h.planner.ScoreCrops(r.Context(), req.Candidate, req.Placed)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.FinishedID == "" {
		writeError(w, http.StatusBadRequest, "finished_id is required")
		return
	}
	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of: "+err.Error())
		return
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	asOf = calendarDay(asOf)

	cat, source, err := h.planner.CatalogSnapshot(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	q := planner.SuccessionQuery{
		FinishedID:    req.FinishedID,
		BedmateIDs:    req.BedmateIDs,
		HardinessZone: req.HardinessZone,
		AsOf:          asOf,
		Limit:         req.Limit,
	}
	key := CacheKey("succession", source, cat.Version, q)
	if data, ok := h.cache.Get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeRaw(w, data)
		return
	}

	report, err := h.planner.SuggestWith(cat, q)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.cache.Put(key, data)
	w.Header().Set("X-Cache", "MISS")
	writeRaw(w, data)
}

func (h *Handler) handleCompose(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.planner.Compose(r.Context(), req.Seed, req.Slots)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeRaw(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(bytes.TrimRight(data, "\n"))
	_, _ = w.Write([]byte("\n"))
}
