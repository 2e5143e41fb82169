package api

import (
	"net/http"
	"time"

	"github.com/marketscout/intel-monitor/internal/content"
	"github.com/marketscout/intel-monitor/internal/pkg/logger"
)

// intelFunctionRequest is the action-discriminated payload of the
// serverless-style /functions/intel endpoint.
type intelFunctionRequest struct {
	Action string `json:"action"`

	// fetch_live_feeds
	URLs []string `json:"urls,omitempty"`

	// generate_content
	Kind         string `json:"kind,omitempty"`
	CompanyName  string `json:"company_name,omitempty"`
	CompetitorID string `json:"competitor_id,omitempty"`

	// schedule_post
	CampaignID string `json:"campaign_id,omitempty"`
	SendAt     string `json:"send_at,omitempty"`
}

func functionSuccess(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": data})
}

func functionError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{"success": false, "error": message})
}

// HandleIntelFunction dispatches on the action field. Unknown actions are a
// client error.
func (h *Handlers) HandleIntelFunction(w http.ResponseWriter, r *http.Request) {
	var req intelFunctionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch req.Action {
	case "fetch_live_feeds":
		h.intelFetchLiveFeeds(w, r, req)
	case "generate_content":
		h.intelGenerateContent(w, r, req)
	case "schedule_post":
		h.intelSchedulePost(w, r, req)
	case "refresh_competitor":
		h.intelRefreshCompetitor(w, r, req)
	default:
		functionError(w, http.StatusBadRequest, "unknown action: "+req.Action)
	}
}

func (h *Handlers) intelFetchLiveFeeds(w http.ResponseWriter, r *http.Request, req intelFunctionRequest) {
	if h.intelligence == nil {
		functionError(w, http.StatusServiceUnavailable, "intelligence service not configured")
		return
	}
	urls := req.URLs
	if len(urls) == 0 && h.config != nil {
		urls = h.config.Intelligence.FeedURLs
	}

	items, err := h.intelligence.FetchLiveFeeds(r.Context(), h.ownerID(r), urls)
	if err != nil {
		logger.Error("fetch live feeds", "error", err)
		functionError(w, http.StatusInternalServerError, "failed to fetch feeds")
		return
	}
	functionSuccess(w, map[string]interface{}{"items": items, "total": len(items)})
}

func (h *Handlers) intelGenerateContent(w http.ResponseWriter, r *http.Request, req intelFunctionRequest) {
	if h.contentGen == nil {
		functionError(w, http.StatusServiceUnavailable, "content generator not configured")
		return
	}

	input := content.Input{
		Kind:        content.Kind(req.Kind),
		CompanyName: req.CompanyName,
	}
	if req.CompetitorID != "" {
		profile, err := h.competitors.Get(r.Context(), h.ownerID(r), req.CompetitorID)
		if err != nil {
			functionError(w, http.StatusNotFound, "competitor not found")
			return
		}
		input.Competitor = profile.CompanyName
		input.Vulnerabilities = profile.Vulnerabilities
	}

	text, err := h.contentGen.Generate(input)
	if err != nil {
		functionError(w, http.StatusBadRequest, err.Error())
		return
	}
	functionSuccess(w, map[string]string{"content": text})
}

func (h *Handlers) intelSchedulePost(w http.ResponseWriter, r *http.Request, req intelFunctionRequest) {
	sendAt, err := time.Parse(time.RFC3339, req.SendAt)
	if err != nil {
		functionError(w, http.StatusBadRequest, "send_at must be RFC 3339")
		return
	}

	if err := h.crm.ScheduleEmailCampaign(r.Context(), h.ownerID(r), req.CampaignID, sendAt); err != nil {
		functionError(w, http.StatusBadRequest, "could not schedule campaign")
		return
	}
	functionSuccess(w, map[string]string{"campaign_id": req.CampaignID, "scheduled_at": sendAt.Format(time.RFC3339)})
}

func (h *Handlers) intelRefreshCompetitor(w http.ResponseWriter, r *http.Request, req intelFunctionRequest) {
	if h.intelligence == nil {
		functionError(w, http.StatusServiceUnavailable, "intelligence service not configured")
		return
	}

	profile, err := h.intelligence.Refresh(r.Context(), h.ownerID(r), req.CompetitorID)
	if err != nil {
		functionError(w, http.StatusNotFound, "competitor not found")
		return
	}
	functionSuccess(w, profile)
}
