package analytics

import (
	"math"

	"github.com/marketscout/intel-monitor/internal/domain"
)

// CompetitorSummary aggregates a competitor collection for the dashboard.
type CompetitorSummary struct {
	TotalCompetitors      int     `json:"total_competitors"`
	HighThreatCompetitors int     `json:"high_threat_competitors"`
	AverageSEOScore       int     `json:"average_seo_score"`
	TotalMarketShare      float64 `json:"total_market_share"`
}

// Competitors summarizes a competitor collection. Records with a zero or
// absent SEO score are excluded from the average, not counted as 0.
func Competitors(records []domain.CompetitorProfile) CompetitorSummary {
	s := CompetitorSummary{TotalCompetitors: len(records)}

	var seoSum float64
	var seoCount int
	for _, c := range records {
		if c.ThreatLevel.IsElevated() {
			s.HighThreatCompetitors++
		}
		if c.SEOScore > 0 {
			seoSum += float64(c.SEOScore)
			seoCount++
		}
		s.TotalMarketShare += c.MarketShare
	}
	if seoCount > 0 {
		s.AverageSEOScore = int(math.Round(seoSum / float64(seoCount)))
	}
	return s
}

// CampaignSummary aggregates a campaign recommendation collection.
type CampaignSummary struct {
	TotalCampaigns     int `json:"total_campaigns"`
	ActiveCampaigns    int `json:"active_campaigns"`
	CompletedCampaigns int `json:"completed_campaigns"`
	SuccessRate        int `json:"success_rate"`
}

// Campaigns summarizes a recommendation collection. SuccessRate is
// completed/total as a rounded percentage, 0 when the collection is empty.
func Campaigns(records []domain.CampaignRecommendation) CampaignSummary {
	s := CampaignSummary{TotalCampaigns: len(records)}
	for _, c := range records {
		switch c.Status {
		case domain.RecommendationActive, domain.RecommendationDeployed:
			s.ActiveCampaigns++
		case domain.RecommendationCompleted:
			s.CompletedCampaigns++
		}
	}
	if s.TotalCampaigns > 0 {
		s.SuccessRate = int(math.Round(float64(s.CompletedCampaigns) / float64(s.TotalCampaigns) * 100))
	}
	return s
}

// IntelligenceSummary aggregates the intelligence feed.
type IntelligenceSummary struct {
	TotalInsights      int `json:"total_insights"`
	HighPriorityAlerts int `json:"high_priority_alerts"`
	TrendsIdentified   int `json:"trends_identified"`
	OpportunitiesFound int `json:"opportunities_found"`
}

// Intelligence summarizes a feed item collection. An empty feed yields the
// zero summary.
func Intelligence(items []domain.FeedItem) IntelligenceSummary {
	s := IntelligenceSummary{TotalInsights: len(items)}
	for _, it := range items {
		if it.Priority == domain.PriorityHigh {
			s.HighPriorityAlerts++
		}
		if it.Trending {
			s.TrendsIdentified++
		}
		if it.Impact == domain.ImpactPositive {
			s.OpportunitiesFound++
		}
	}
	return s
}
