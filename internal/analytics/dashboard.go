package analytics

import (
	"time"

	"github.com/marketscout/intel-monitor/internal/domain"
)

// Dashboard is the combined aggregation payload served to the SPA.
type Dashboard struct {
	Competitors       CompetitorSummary   `json:"competitors"`
	Campaigns         CampaignSummary     `json:"campaigns"`
	Intelligence      IntelligenceSummary `json:"intelligence"`
	IntelligenceScore int                 `json:"intelligence_score"`
	GeneratedAt       time.Time           `json:"generated_at"`
}

// BuildDashboard aggregates all three collections plus the weighted score.
func BuildDashboard(competitors []domain.CompetitorProfile, campaigns []domain.CampaignRecommendation, items []domain.FeedItem) Dashboard {
	return Dashboard{
		Competitors:       Competitors(competitors),
		Campaigns:         Campaigns(campaigns),
		Intelligence:      Intelligence(items),
		IntelligenceScore: Score(competitors, campaigns, items),
		GeneratedAt:       time.Now().UTC(),
	}
}
