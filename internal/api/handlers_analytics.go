package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/marketscout/intel-monitor/internal/activity"
	"github.com/marketscout/intel-monitor/internal/analytics"
	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/pkg/logger"
	"github.com/marketscout/intel-monitor/internal/service/competitor"
	"github.com/marketscout/intel-monitor/internal/service/recommendation"
)

// GetDashboard returns the combined analytics aggregation. Fetch failures
// never surface as errors: the handler falls back to the last archived
// snapshot, and to a zeroed dashboard when none exists. Always HTTP 200.
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ownerID := h.ownerID(r)

	dash, err := h.buildDashboard(r, ownerID)
	if err != nil {
		logger.Error("dashboard aggregation failed", "owner_id", ownerID, "error", err)
		if h.snapshots != nil {
			if archived, snapErr := h.snapshots.Latest(r.Context(), ownerID); snapErr == nil {
				respondJSON(w, http.StatusOK, map[string]interface{}{
					"dashboard": archived,
					"stale":     true,
				})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"dashboard": analytics.Dashboard{GeneratedAt: time.Now().UTC()},
			"stale":     true,
		})
		return
	}

	if h.snapshots != nil {
		if err := h.snapshots.Save(r.Context(), ownerID, *dash); err != nil {
			logger.Warn("archive dashboard snapshot", "owner_id", ownerID, "error", err)
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"dashboard": dash,
		"stale":     false,
	})
}

// GetScore returns only the weighted intelligence score.
func (h *Handlers) GetScore(w http.ResponseWriter, r *http.Request) {
	ownerID := h.ownerID(r)
	dash, err := h.buildDashboard(r, ownerID)
	if err != nil {
		logger.Error("score aggregation failed", "owner_id", ownerID, "error", err)
		respondJSON(w, http.StatusOK, map[string]int{"intelligence_score": 0})
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"intelligence_score": dash.IntelligenceScore})
}

func (h *Handlers) buildDashboard(r *http.Request, ownerID string) (*analytics.Dashboard, error) {
	ctx := r.Context()

	profiles, err := h.competitors.List(ctx, ownerID, competitor.ListFilter{})
	if err != nil {
		return nil, err
	}
	recs, err := h.recommendations.List(ctx, ownerID, recommendation.ListFilter{})
	if err != nil {
		return nil, err
	}

	var items []domain.FeedItem
	if h.intelligence != nil {
		items, err = h.intelligence.Feed(ctx, ownerID, 100)
		if err != nil {
			return nil, err
		}
	}

	dash := analytics.BuildDashboard(profiles, recs, items)
	return &dash, nil
}

// GetActivity returns recent activity entries, newest first. Without Redis
// the feed is empty, never an error.
func (h *Handlers) GetActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}

	entries := []activity.Entry{}
	if h.activityLog != nil {
		got, err := h.activityLog.Recent(r.Context(), h.ownerID(r), limit)
		if err == nil {
			entries = got
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"activity": entries, "total": len(entries)})
}

// GetFeed returns stored intelligence feed items.
func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	if h.intelligence == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"items": []domain.FeedItem{}, "total": 0})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}

	items, err := h.intelligence.Feed(r.Context(), h.ownerID(r), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": len(items)})
}
