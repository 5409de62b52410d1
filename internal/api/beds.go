package api

import (
	"net/http"

	"github.com/furrow/furrow/internal/garden"
	"github.com/furrow/furrow/internal/planner"
)

type setCropsRequest struct {
	CropIDs []string `json:"crop_ids"`
}

type soilTestRequest struct {
	Readings []readingInput `json:"readings"`
	TakenAt  string         `json:"taken_at"` // YYYY-MM-DD or RFC3339; empty means now
}

type scoreCandidateRequest struct {
	CropID string `json:"crop_id"`
}

type bedSuccessionRequest struct {
	FinishedID string `json:"finished_id"`
	AsOf       string `json:"as_of"`
	Limit      int    `json:"limit"`
}

type bedComposeRequest struct {
	Slots int `json:"slots"`
}

// store returns the garden store or writes 501 when the planner has none.
func (h *Handler) store(w http.ResponseWriter, r *http.Request) *garden.Store {
	s := h.planner.Store()
	if s == nil {
		h.writeServiceError(w, r, planner.ErrNoStore)
	}
	return s
}

func (h *Handler) handleCreateBed(w http.ResponseWriter, r *http.Request) {
	var req garden.NewBed
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bed, err := h.planner.CreateBed(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bed)
}

func (h *Handler) handleListBeds(w http.ResponseWriter, r *http.Request) {
	store := h.store(w, r)
	if store == nil {
		return
	}
	beds, err := store.ListBeds(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if beds == nil {
		beds = []garden.Bed{}
	}
	writeJSON(w, http.StatusOK, beds)
}

func (h *Handler) handleGetBed(w http.ResponseWriter, r *http.Request) {
	store := h.store(w, r)
	if store == nil {
		return
	}
	bed, err := store.GetBed(r.Context(), r.PathValue("bedID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bed)
}

func (h *Handler) handleDeleteBed(w http.ResponseWriter, r *http.Request) {
	store := h.store(w, r)
	if store == nil {
		return
	}
	if err := store.DeleteBed(r.Context(), r.PathValue("bedID")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleSetBedCrops(w http.ResponseWriter, r *http.Request) {
	var req setCropsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bed, err := h.planner.SetBedCrops(r.Context(), r.PathValue("bedID"), req.CropIDs)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bed)
}

func (h *Handler) handleRecordSoilTest(w http.ResponseWriter, r *http.Request) {
	store := h.store(w, r)
	if store == nil {
		return
	}
	var req soilTestRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	takenAt, err := parseAsOf(req.TakenAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid taken_at: "+err.Error())
		return
	}
	test, err := store.RecordSoilTest(r.Context(), r.PathValue("bedID"), toReadings(req.Readings), takenAt)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, test)
}

func (h *Handler) handleDiagnoseBed(w http.ResponseWriter, r *http.Request) {
	report, err := h.planner.DiagnoseBed(r.Context(), r.PathValue("bedID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleScoreCandidate(w http.ResponseWriter, r *http.Request) {
	var req scoreCandidateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CropID == "" {
		writeError(w, http.StatusBadRequest, "crop_id is required")
		return
	}
	report, err := h.planner.ScoreCandidate(r.Context(), r.PathValue("bedID"), req.CropID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleSuggestForBed(w http.ResponseWriter, r *http.Request) {
	var req bedSuccessionRequest
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
	report, err := h.planner.SuggestSuccession(r.Context(), r.PathValue("bedID"), req.FinishedID, asOf, req.Limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleComposeBed(w http.ResponseWriter, r *http.Request) {
	var req bedComposeRequest
	// An empty body means the default slot count.
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	report, err := h.planner.ComposeBed(r.Context(), r.PathValue("bedID"), req.Slots)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleListPlans(w http.ResponseWriter, r *http.Request) {
	store := h.store(w, r)
	if store == nil {
		return
	}
	bedID := r.PathValue("bedID")
	if _, err := store.GetBed(r.Context(), bedID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	plans, err := store.ListPlans(r.Context(), bedID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *Handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	store := h.store(w, r)
	if store == nil {
		return
	}
	plan, err := store.GetPlan(r.Context(), r.PathValue("planID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
