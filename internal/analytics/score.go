package analytics

import (
	"math"

	"github.com/marketscout/intel-monitor/internal/domain"
)

// Score computes the weighted intelligence score for the dashboard header.
// It is a bounded display heuristic, not a calibrated model: each input
// contributes a capped component, plus up to 20 bonus points gated on
// coverage conditions. The result is rounded and clamped to [0,100].
func Score(competitors []domain.CompetitorProfile, campaigns []domain.CampaignRecommendation, items []domain.FeedItem) int {
	cs := Competitors(competitors)
	ks := Campaigns(campaigns)
	is := Intelligence(items)

	score := capAt(float64(cs.TotalCompetitors)*5, 30)
	score += capAt(float64(ks.TotalCampaigns)*5, 20)
	score += capAt(float64(ks.SuccessRate)/4, 5)
	score += capAt(float64(is.TotalInsights)*2, 20)
	score += capAt(float64(is.HighPriorityAlerts), 5)

	// Coverage bonuses, 5 points each.
	if cs.AverageSEOScore > 0 {
		score += 5
	}
	if cs.TotalMarketShare > 0 {
		score += 5
	}
	if is.TrendsIdentified > 0 {
		score += 5
	}
	if is.OpportunitiesFound > 0 {
		score += 5
	}

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func capAt(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}
