package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/marketscout/intel-monitor/internal/config"
	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/pkg/httpretry"
	"github.com/marketscout/intel-monitor/internal/pkg/logger"
	"github.com/marketscout/intel-monitor/internal/service/competitor"
)

// FeedStore persists intelligence feed items.
type FeedStore interface {
	InsertItems(ctx context.Context, items []domain.FeedItem) error
	ListItems(ctx context.Context, ownerID string, limit int) ([]domain.FeedItem, error)
}

// Notifier delivers critical alerts out of band (email).
type Notifier interface {
	NotifyCriticalAlert(ctx context.Context, ownerID string, alert *domain.ThreatAlert) error
}

// Service runs intelligence refreshes and live feed ingestion.
type Service struct {
	provider    Provider
	competitors *competitor.Service
	feeds       FeedStore
	notifier    Notifier
	cfg         config.IntelligenceConfig
	parser      *gofeed.Parser
	httpClient  httpretry.Doer
}

// NewService creates an intelligence service. feeds and notifier may be nil;
// the corresponding features degrade gracefully.
func NewService(provider Provider, competitors *competitor.Service, feeds FeedStore, notifier Notifier, cfg config.IntelligenceConfig) *Service {
	return &Service{
		provider:    provider,
		competitors: competitors,
		feeds:       feeds,
		notifier:    notifier,
		cfg:         cfg,
		parser:      gofeed.NewParser(),
		httpClient:  httpretry.New(nil, 2),
	}
}

// Refresh synthesizes a new intelligence snapshot for one competitor,
// persists it, and raises threshold-derived threat alerts.
func (s *Service) Refresh(ctx context.Context, ownerID, competitorID string) (*domain.CompetitorProfile, error) {
	profile, err := s.competitors.Get(ctx, ownerID, competitorID)
	if err != nil {
		return nil, err
	}

	report := s.provider.Generate(profile.CompanyName)

	adActivity, _ := json.Marshal(map[string]interface{}{
		"platforms":              report.AdPlatforms,
		"estimated_monthly_spend": report.EstimatedSpend,
		"active_keywords":        report.Keywords,
	})
	socialSentiment, _ := json.Marshal(map[string]interface{}{
		"score":          report.SentimentScore,
		"negative_share": report.NegativeShare,
	})
	customerComplaints, _ := json.Marshal(map[string]interface{}{
		"themes": report.ComplaintThemes,
	})

	update := competitor.IntelligenceUpdate{
		SEOScore:           report.SEOScore,
		SentimentScore:     report.SentimentScore,
		MarketShare:        report.MarketShare,
		EstimatedSpend:     report.EstimatedSpend,
		Vulnerabilities:    report.Vulnerabilities,
		AdActivity:         adActivity,
		SocialSentiment:    socialSentiment,
		CustomerComplaints: customerComplaints,
	}
	if err := s.competitors.ApplyIntelligence(ctx, ownerID, competitorID, update); err != nil {
		return nil, fmt.Errorf("apply intelligence: %w", err)
	}

	s.raiseThresholdAlerts(ctx, ownerID, profile, report)

	return s.competitors.Get(ctx, ownerID, competitorID)
}

// raiseThresholdAlerts compares the report against configured thresholds.
// Alert failures are logged, never returned; the refresh itself succeeded.
func (s *Service) raiseThresholdAlerts(ctx context.Context, ownerID string, profile *domain.CompetitorProfile, report Report) {
	if report.EstimatedSpend > s.cfg.SpendAlertThreshold {
		severity := domain.SeverityHigh
		if report.EstimatedSpend > 2*s.cfg.SpendAlertThreshold {
			severity = domain.SeverityCritical
		}
		s.raiseAlert(ctx, ownerID, profile, severity, "High Ad Spend",
			fmt.Sprintf("%s estimated monthly ad spend reached $%.0f", profile.CompanyName, report.EstimatedSpend))
	}

	if report.NegativeShare > s.cfg.NegativeSentimentShare {
		s.raiseAlert(ctx, ownerID, profile, domain.SeverityMedium, "Negative Sentiment",
			fmt.Sprintf("%.0f%% of recent mentions of %s are negative", report.NegativeShare*100, profile.CompanyName))
	}
}

func (s *Service) raiseAlert(ctx context.Context, ownerID string, profile *domain.CompetitorProfile, severity domain.AlertSeverity, title, message string) {
	alert, err := s.competitors.RaiseAlert(ctx, ownerID, &profile.ID, severity, title, message)
	if err != nil {
		logger.Warn("raise alert failed", "owner_id", ownerID, "competitor_id", profile.ID, "error", err.Error())
		return
	}
	if severity == domain.SeverityCritical && s.notifier != nil {
		if err := s.notifier.NotifyCriticalAlert(ctx, ownerID, alert); err != nil {
			logger.Warn("critical alert notification failed", "owner_id", ownerID, "error", err.Error())
		}
	}
}

// RefreshAll refreshes every active competitor for the owner. Per-competitor
// failures are logged and skipped.
func (s *Service) RefreshAll(ctx context.Context, ownerID string) error {
	profiles, err := s.competitors.List(ctx, ownerID, competitor.ListFilter{})
	if err != nil {
		return err
	}
	for _, p := range profiles {
		if _, err := s.Refresh(ctx, ownerID, p.ID); err != nil {
			logger.Warn("competitor refresh failed", "owner_id", ownerID, "competitor_id", p.ID, "error", err.Error())
		}
	}
	return nil
}

// FetchLiveFeeds fetches and classifies RSS/Atom items from the given URLs.
// A failing feed is logged and skipped; the remaining feeds still contribute.
func (s *Service) FetchLiveFeeds(ctx context.Context, ownerID string, urls []string) ([]domain.FeedItem, error) {
	var out []domain.FeedItem
	for _, url := range urls {
		feed, err := s.fetchFeed(ctx, url)
		if err != nil {
			logger.Warn("feed fetch failed", "url", url, "error", err.Error())
			continue
		}
		source := feed.Title
		if source == "" {
			source = url
		}
		for _, item := range feed.Items {
			out = append(out, classifyFeedItem(ownerID, source, item))
		}
	}

	if s.feeds != nil && len(out) > 0 {
		if err := s.feeds.InsertItems(ctx, out); err != nil {
			logger.Warn("feed persist failed", "owner_id", ownerID, "error", err.Error())
		}
	}
	return out, nil
}

// fetchFeed downloads one feed through the retrying client and parses it.
func (s *Service) fetchFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}
	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// Feed returns the owner's stored feed items, newest first.
func (s *Service) Feed(ctx context.Context, ownerID string, limit int) ([]domain.FeedItem, error) {
	if s.feeds == nil {
		return []domain.FeedItem{}, nil
	}
	return s.feeds.ListItems(ctx, ownerID, limit)
}

var highPriorityKeywords = []string{"launch", "funding", "acquisition", "acquires", "raises", "ipo"}
var mediumPriorityKeywords = []string{"partnership", "hiring", "expands", "announces", "release"}
var negativeKeywords = []string{"lawsuit", "outage", "layoff", "breach", "recall", "decline"}
var positiveKeywords = []string{"growth", "record", "award", "milestone", "wins"}

func classifyFeedItem(ownerID, source string, item *gofeed.Item) domain.FeedItem {
	title := strings.ToLower(item.Title)

	priority := domain.PriorityLow
	if containsAny(title, highPriorityKeywords) {
		priority = domain.PriorityHigh
	} else if containsAny(title, mediumPriorityKeywords) {
		priority = domain.PriorityMedium
	}

	impact := domain.ImpactNeutral
	if containsAny(title, negativeKeywords) {
		impact = domain.ImpactNegative
	} else if containsAny(title, positiveKeywords) {
		impact = domain.ImpactPositive
	}

	published := time.Now()
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	}

	return domain.FeedItem{
		OwnerID:     ownerID,
		Title:       item.Title,
		Source:      source,
		URL:         item.Link,
		Priority:    priority,
		Trending:    time.Since(published) < 48*time.Hour,
		Impact:      impact,
		PublishedAt: published,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
