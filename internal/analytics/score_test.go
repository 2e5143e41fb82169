package analytics_test

import (
	"testing"

	"github.com/marketscout/intel-monitor/internal/analytics"
	"github.com/marketscout/intel-monitor/internal/domain"
)

func TestScoreEmptyInputs(t *testing.T) {
	if got := analytics.Score(nil, nil, nil); got != 0 {
		t.Errorf("Score(nil, nil, nil) = %d, want 0", got)
	}
}

func TestScoreClampedAt100(t *testing.T) {
	// Oversized inputs must still produce a score inside [0,100].
	var competitors []domain.CompetitorProfile
	for i := 0; i < 1000; i++ {
		competitors = append(competitors, domain.CompetitorProfile{
			SEOScore:    90,
			MarketShare: 5,
			ThreatLevel: domain.ThreatHigh,
		})
	}
	var campaigns []domain.CampaignRecommendation
	for i := 0; i < 1000; i++ {
		campaigns = append(campaigns, domain.CampaignRecommendation{Status: domain.RecommendationCompleted})
	}
	var items []domain.FeedItem
	for i := 0; i < 1000; i++ {
		items = append(items, domain.FeedItem{
			Priority: domain.PriorityHigh,
			Trending: true,
			Impact:   domain.ImpactPositive,
		})
	}

	got := analytics.Score(competitors, campaigns, items)
	if got < 0 || got > 100 {
		t.Fatalf("Score = %d, want within [0,100]", got)
	}
	if got != 100 {
		t.Errorf("Score = %d, want 100 for saturated inputs", got)
	}
}

func TestScoreComponents(t *testing.T) {
	// 2 competitors (10 pts) with SEO and market share coverage (+10 bonus),
	// 1 completed campaign (5 pts, success rate 100 → +5 capped at 5),
	// 1 trending positive insight (2 pts, +10 bonus, no high-priority).
	competitors := []domain.CompetitorProfile{
		{SEOScore: 80, MarketShare: 10, ThreatLevel: domain.ThreatLow},
		{SEOScore: 60, MarketShare: 5, ThreatLevel: domain.ThreatLow},
	}
	campaigns := []domain.CampaignRecommendation{
		{Status: domain.RecommendationCompleted},
	}
	items := []domain.FeedItem{
		{Priority: domain.PriorityMedium, Trending: true, Impact: domain.ImpactPositive},
	}

	// 10 + 5 + 5 + 2 + 0 + (5+5+5+5) = 42
	if got := analytics.Score(competitors, campaigns, items); got != 42 {
		t.Errorf("Score = %d, want 42", got)
	}
}

func TestScoreCompetitorComponentCap(t *testing.T) {
	// 10 competitors would be 50 raw; capped at 30. No other inputs, but SEO
	// and market share bonuses apply: 30 + 5 + 5 = 40.
	var competitors []domain.CompetitorProfile
	for i := 0; i < 10; i++ {
		competitors = append(competitors, domain.CompetitorProfile{SEOScore: 50, MarketShare: 1, ThreatLevel: domain.ThreatLow})
	}
	if got := analytics.Score(competitors, nil, nil); got != 40 {
		t.Errorf("Score = %d, want 40", got)
	}
}
