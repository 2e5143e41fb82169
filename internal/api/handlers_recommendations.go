package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/service/recommendation"
)

// ListRecommendations returns the owner's active campaign recommendations.
func (h *Handlers) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	recs, err := h.recommendations.List(r.Context(), h.ownerID(r), recommendation.ListFilter{
		Status: q.Get("status"),
		Type:   q.Get("type"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"total":           len(recs),
	})
}

// GetRecommendation returns one recommendation.
func (h *Handlers) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recommendations.Get(r.Context(), h.ownerID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// CreateRecommendation adds a campaign recommendation.
func (h *Handlers) CreateRecommendation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type        string          `json:"type"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Budget      float64         `json:"budget"`
		Detail      json.RawMessage `json:"detail"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	ownerID := h.ownerID(r)

	rec, err := h.recommendations.Create(r.Context(), ownerID, recommendation.CreateInput{
		Type:        domain.RecommendationType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Detail:      req.Detail,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.recordActivity(r, ownerID, "campaign_created", "New campaign recommendation: "+rec.Title)
	respondJSON(w, http.StatusCreated, rec)
}

// DeployRecommendation transitions a recommendation to active.
func (h *Handlers) DeployRecommendation(w http.ResponseWriter, r *http.Request) {
	ownerID := h.ownerID(r)
	if err := h.recommendations.Deploy(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	h.recordActivity(r, ownerID, "campaign_deployed", "Deployed a campaign recommendation")
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DismissRecommendation transitions a recommendation to dismissed.
func (h *Handlers) DismissRecommendation(w http.ResponseWriter, r *http.Request) {
	if err := h.recommendations.Dismiss(r.Context(), h.ownerID(r), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteRecommendation moves a recommendation to the trash.
func (h *Handlers) DeleteRecommendation(w http.ResponseWriter, r *http.Request) {
	if err := h.trash.SoftDelete(r.Context(), h.ownerID(r), "campaigns", chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
