package domain

import (
	"encoding/json"
	"time"
)

// RecommendationStatus enumerates the lifecycle states of a campaign
// recommendation.
type RecommendationStatus string

const (
	RecommendationPending   RecommendationStatus = "pending"
	RecommendationActive    RecommendationStatus = "active"
	RecommendationDeployed  RecommendationStatus = "deployed"
	RecommendationDismissed RecommendationStatus = "dismissed"
	RecommendationCompleted RecommendationStatus = "completed"
)

// Valid reports whether the status is one of the known variants.
func (s RecommendationStatus) Valid() bool {
	switch s {
	case RecommendationPending, RecommendationActive, RecommendationDeployed,
		RecommendationDismissed, RecommendationCompleted:
		return true
	}
	return false
}

// RecommendationType tags what kind of counter-campaign is being suggested.
type RecommendationType string

const (
	RecommendationSEO     RecommendationType = "seo"
	RecommendationAds     RecommendationType = "ads"
	RecommendationContent RecommendationType = "content"
	RecommendationSocial  RecommendationType = "social"
)

// Valid reports whether the type is one of the known variants.
func (t RecommendationType) Valid() bool {
	switch t {
	case RecommendationSEO, RecommendationAds, RecommendationContent, RecommendationSocial:
		return true
	}
	return false
}

// CampaignRecommendation is a suggested marketing campaign derived from
// competitor intelligence.
type CampaignRecommendation struct {
	ID          string               `json:"id" db:"id"`
	OwnerID     string               `json:"owner_id" db:"owner_id"`
	Type        RecommendationType   `json:"type" db:"type"`
	Title       string               `json:"title" db:"title"`
	Description string               `json:"description" db:"description"`
	Budget      float64              `json:"budget_estimate" db:"budget_estimate"`
	Status      RecommendationStatus `json:"status" db:"status"`

	// Detail holds target, confidence, and tactics as a provider-shaped blob.
	Detail json.RawMessage `json:"detail" db:"detail"`

	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// IsOpen reports whether the recommendation still needs a decision.
func (c *CampaignRecommendation) IsOpen() bool {
	return c.Status == RecommendationPending || c.Status == RecommendationActive
}
