package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/marketscout/intel-monitor/internal/activity"
	"github.com/marketscout/intel-monitor/internal/assistant"
	"github.com/marketscout/intel-monitor/internal/auth"
	"github.com/marketscout/intel-monitor/internal/config"
	"github.com/marketscout/intel-monitor/internal/content"
	"github.com/marketscout/intel-monitor/internal/intelligence"
	"github.com/marketscout/intel-monitor/internal/pkg/logger"
	"github.com/marketscout/intel-monitor/internal/service/competitor"
	"github.com/marketscout/intel-monitor/internal/service/crm"
	"github.com/marketscout/intel-monitor/internal/service/recommendation"
	"github.com/marketscout/intel-monitor/internal/service/trash"
	"github.com/marketscout/intel-monitor/internal/snapshot"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	competitors     *competitor.Service
	recommendations *recommendation.Service
	crm             *crm.Service
	trash           *trash.Service
	intelligence    *intelligence.Service
	assistant       *assistant.Service
	contentGen      *content.Generator
	activityLog     *activity.Log
	snapshots       snapshot.Store
	auth            *auth.Manager
	config          *config.Config

	startedAt time.Time
}

// NewHandlers creates a Handlers instance with the core CRUD services.
// Optional services are attached via setters.
func NewHandlers(competitors *competitor.Service, recommendations *recommendation.Service, crmSvc *crm.Service, trashSvc *trash.Service) *Handlers {
	return &Handlers{
		competitors:     competitors,
		recommendations: recommendations,
		crm:             crmSvc,
		trash:           trashSvc,
		startedAt:       time.Now(),
	}
}

// SetConfig sets the application config.
func (h *Handlers) SetConfig(cfg *config.Config) {
	h.config = cfg
}

// SetIntelligenceService sets the intelligence refresh service.
func (h *Handlers) SetIntelligenceService(svc *intelligence.Service) {
	h.intelligence = svc
}

// SetAssistantService sets the chat assistant.
func (h *Handlers) SetAssistantService(svc *assistant.Service) {
	h.assistant = svc
}

// SetContentGenerator sets the marketing content generator.
func (h *Handlers) SetContentGenerator(gen *content.Generator) {
	h.contentGen = gen
}

// SetActivityLog sets the Redis-backed activity log.
func (h *Handlers) SetActivityLog(log *activity.Log) {
	h.activityLog = log
}

// SetSnapshotStore sets the analytics snapshot archive.
func (h *Handlers) SetSnapshotStore(store snapshot.Store) {
	h.snapshots = store
}

// SetAuthManager sets the session manager used to resolve owner identity.
func (h *Handlers) SetAuthManager(m *auth.Manager) {
	h.auth = m
}

// HealthCheck reports process liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ownerID resolves the data-owner scope for a request. With auth enabled it
// is the Google user ID from the session; without auth (local development) it
// falls back to a header or a fixed owner.
func (h *Handlers) ownerID(r *http.Request) string {
	if h.auth != nil {
		if session := h.auth.SessionFromRequest(r); session != nil {
			return session.UserID
		}
		return ""
	}
	if owner := r.Header.Get("X-Owner-ID"); owner != "" {
		return owner
	}
	return "local-dev"
}

// recordActivity appends to the activity log, tolerating an absent log.
func (h *Handlers) recordActivity(r *http.Request, ownerID, entryType, message string) {
	if h.activityLog == nil {
		return
	}
	if err := h.activityLog.Record(r.Context(), ownerID, entryType, message); err != nil {
		logger.Warn("record activity", "type", entryType, "error", err)
	}
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// respondServiceError maps service sentinel errors to HTTP statuses without
// leaking internal details.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, competitor.ErrNotFound),
		errors.Is(err, recommendation.ErrNotFound),
		errors.Is(err, crm.ErrNotFound),
		errors.Is(err, trash.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, competitor.ErrInvalidInput),
		errors.Is(err, recommendation.ErrInvalidInput),
		errors.Is(err, recommendation.ErrInvalidStatus),
		errors.Is(err, crm.ErrInvalidInput),
		errors.Is(err, trash.ErrUnknownTable):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
