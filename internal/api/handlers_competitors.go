package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/service/competitor"
)

// ListCompetitors returns the owner's active competitor profiles.
func (h *Handlers) ListCompetitors(w http.ResponseWriter, r *http.Request) {
	ownerID := h.ownerID(r)
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	profiles, err := h.competitors.List(r.Context(), ownerID, competitor.ListFilter{
		ThreatLevel: q.Get("threat_level"),
		Search:      q.Get("search"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"competitors": profiles,
		"total":       len(profiles),
	})
}

// GetCompetitor returns a single profile.
func (h *Handlers) GetCompetitor(w http.ResponseWriter, r *http.Request) {
	profile, err := h.competitors.Get(r.Context(), h.ownerID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

type competitorRequest struct {
	CompanyName string `json:"company_name"`
	Website     string `json:"website"`
	ThreatLevel string `json:"threat_level"`
}

// CreateCompetitor adds a competitor profile.
func (h *Handlers) CreateCompetitor(w http.ResponseWriter, r *http.Request) {
	var req competitorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ownerID := h.ownerID(r)

	profile, err := h.competitors.Create(r.Context(), ownerID, competitor.CreateInput{
		CompanyName: req.CompanyName,
		Website:     req.Website,
		ThreatLevel: domain.ThreatLevel(req.ThreatLevel),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.recordActivity(r, ownerID, "competitor_added", "Started tracking "+profile.CompanyName)
	respondJSON(w, http.StatusCreated, profile)
}

// UpdateCompetitor applies a partial update to a profile.
func (h *Handlers) UpdateCompetitor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyName *string `json:"company_name"`
		Website     *string `json:"website"`
		ThreatLevel *string `json:"threat_level"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	fields := competitor.UpdateFields{
		CompanyName: req.CompanyName,
		Website:     req.Website,
	}
	if req.ThreatLevel != nil {
		level := domain.ThreatLevel(*req.ThreatLevel)
		fields.ThreatLevel = &level
	}

	if err := h.competitors.Update(r.Context(), h.ownerID(r), chi.URLParam(r, "id"), fields); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteCompetitor moves a profile to the trash.
func (h *Handlers) DeleteCompetitor(w http.ResponseWriter, r *http.Request) {
	ownerID := h.ownerID(r)
	id := chi.URLParam(r, "id")

	if err := h.trash.SoftDelete(r.Context(), ownerID, "competitors", id); err != nil {
		respondServiceError(w, err)
		return
	}
	h.recordActivity(r, ownerID, "competitor_deleted", "Moved a competitor to trash")
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RefreshCompetitor regenerates intelligence for one profile.
func (h *Handlers) RefreshCompetitor(w http.ResponseWriter, r *http.Request) {
	if h.intelligence == nil {
		respondError(w, http.StatusServiceUnavailable, "intelligence service not configured")
		return
	}
	ownerID := h.ownerID(r)

	profile, err := h.intelligence.Refresh(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.recordActivity(r, ownerID, "intelligence_refreshed", "Refreshed intelligence for "+profile.CompanyName)
	respondJSON(w, http.StatusOK, profile)
}

// ListAlerts returns all threat alerts for the owner.
func (h *Handlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.competitors.Alerts(r.Context(), h.ownerID(r), false)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts, "total": len(alerts)})
}

// ListUnreadAlerts returns only unread alerts.
func (h *Handlers) ListUnreadAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.competitors.Alerts(r.Context(), h.ownerID(r), true)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts, "total": len(alerts)})
}

// MarkAlertRead marks one alert as read.
func (h *Handlers) MarkAlertRead(w http.ResponseWriter, r *http.Request) {
	if err := h.competitors.MarkAlertRead(r.Context(), h.ownerID(r), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
