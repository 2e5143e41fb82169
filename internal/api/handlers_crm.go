package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/service/crm"
)

// ListLeads returns the owner's active leads.
func (h *Handlers) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.crm.Leads(r.Context(), h.ownerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"leads": leads, "total": len(leads)})
}

// GetLead returns one lead.
func (h *Handlers) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.crm.GetLead(r.Context(), h.ownerID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

// CreateLead adds a lead.
func (h *Handlers) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Company string `json:"company"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	ownerID := h.ownerID(r)

	lead, err := h.crm.CreateLead(r.Context(), ownerID, req.Name, req.Email, req.Company)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.recordActivity(r, ownerID, "lead_created", "New lead: "+lead.Name)
	respondJSON(w, http.StatusCreated, lead)
}

// UpdateLead applies a partial update, including status transitions.
func (h *Handlers) UpdateLead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		Company *string `json:"company"`
		Status  *string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	update := crm.LeadUpdate{Name: req.Name, Email: req.Email, Company: req.Company}
	if req.Status != nil {
		status := domain.LeadStatus(*req.Status)
		update.Status = &status
	}

	if err := h.crm.UpdateLead(r.Context(), h.ownerID(r), chi.URLParam(r, "id"), update); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteLead moves a lead to the trash.
func (h *Handlers) DeleteLead(w http.ResponseWriter, r *http.Request) {
	if err := h.trash.SoftDelete(r.Context(), h.ownerID(r), "leads", chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListTasks returns the owner's active tasks.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.crm.Tasks(r.Context(), h.ownerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks, "total": len(tasks)})
}

// CreateTask adds a task, optionally with a due date (RFC 3339).
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Notes string `json:"notes"`
		DueAt string `json:"due_at"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var dueAt *time.Time
	if req.DueAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.DueAt)
		if err != nil {
			respondError(w, http.StatusBadRequest, "due_at must be RFC 3339")
			return
		}
		dueAt = &parsed
	}

	task, err := h.crm.CreateTask(r.Context(), h.ownerID(r), req.Title, req.Notes, dueAt)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// CompleteTask marks a task done.
func (h *Handlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.crm.CompleteTask(r.Context(), h.ownerID(r), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteTask moves a task to the trash.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.trash.SoftDelete(r.Context(), h.ownerID(r), "tasks", chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListEmailCampaigns returns the owner's active email campaigns.
func (h *Handlers) ListEmailCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.crm.EmailCampaigns(r.Context(), h.ownerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"email_campaigns": campaigns, "total": len(campaigns)})
}

// CreateEmailCampaign adds a draft email campaign.
func (h *Handlers) CreateEmailCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	campaign, err := h.crm.CreateEmailCampaign(r.Context(), h.ownerID(r), req.Name, req.Subject, req.Body)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, campaign)
}

// ScheduleEmailCampaign schedules a draft campaign for a future send.
func (h *Handlers) ScheduleEmailCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SendAt string `json:"send_at"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	sendAt, err := time.Parse(time.RFC3339, req.SendAt)
	if err != nil {
		respondError(w, http.StatusBadRequest, "send_at must be RFC 3339")
		return
	}

	if err := h.crm.ScheduleEmailCampaign(r.Context(), h.ownerID(r), chi.URLParam(r, "id"), sendAt); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteEmailCampaign moves an email campaign to the trash.
func (h *Handlers) DeleteEmailCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.trash.SoftDelete(r.Context(), h.ownerID(r), "email_campaigns", chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
