package domain

import (
	"encoding/json"
	"time"
)

// ThreatLevel enumerates how dangerous a competitor currently looks.
type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

// Valid reports whether the threat level is one of the known variants.
func (t ThreatLevel) Valid() bool {
	switch t {
	case ThreatLow, ThreatMedium, ThreatHigh, ThreatCritical:
		return true
	}
	return false
}

// IsElevated reports whether the level counts toward high-threat analytics.
func (t ThreatLevel) IsElevated() bool {
	return t == ThreatHigh || t == ThreatCritical
}

// CompetitorProfile represents a tracked competitor and its latest
// intelligence snapshot. The JSON blobs hold provider-shaped payloads that
// the dashboard renders as-is.
type CompetitorProfile struct {
	ID          string      `json:"id" db:"id"`
	OwnerID     string      `json:"owner_id" db:"owner_id"`
	CompanyName string      `json:"company_name" db:"company_name"`
	Website     string      `json:"website" db:"website"`
	ThreatLevel ThreatLevel `json:"threat_level" db:"threat_level"`

	// Intelligence metrics, refreshed by the intelligence service.
	SEOScore        int      `json:"seo_score" db:"seo_score"`               // 0-100
	SentimentScore  float64  `json:"sentiment_score" db:"sentiment_score"`   // 0.0-1.0
	MarketShare     float64  `json:"market_share" db:"market_share"`         // percent
	EstimatedSpend  float64  `json:"estimated_ad_spend" db:"estimated_ad_spend"`
	Vulnerabilities []string `json:"vulnerabilities" db:"vulnerabilities"`

	AdActivity         json.RawMessage `json:"ad_activity" db:"ad_activity"`
	SocialSentiment    json.RawMessage `json:"social_sentiment" db:"social_sentiment"`
	CustomerComplaints json.RawMessage `json:"customer_complaints" db:"customer_complaints"`

	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// IsDeleted reports whether the profile is in the trash.
func (c *CompetitorProfile) IsDeleted() bool { return c.DeletedAt != nil }
