package api

import (
	"net/http"
	"strings"

	"github.com/marketscout/intel-monitor/internal/assistant"
	"github.com/marketscout/intel-monitor/internal/pkg/logger"
)

// AssistantChat forwards a conversation turn to the LLM assistant. Model
// invocation failures are reported as success:false so the SPA keeps its
// conversation state instead of showing an error page.
func (h *Handlers) AssistantChat(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil {
		respondError(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}

	var req struct {
		Message string              `json:"message"`
		History []assistant.Message `json:"history"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	ownerID := h.ownerID(r)

	result, err := h.assistant.Chat(r.Context(), ownerID, req.Message, req.History)
	if err != nil {
		logger.Error("assistant chat failed", "owner_id", ownerID, "error", err)
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "assistant is temporarily unavailable",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"reply":       result.Reply,
		"suggestions": result.Suggestions,
	})
}
