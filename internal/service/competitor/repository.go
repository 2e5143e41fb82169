package competitor

import (
	"context"
	"encoding/json"

	"github.com/marketscout/intel-monitor/internal/domain"
)

// Repository defines the data access contract for competitor profiles.
// Implementations must be safe for concurrent use. Every method is scoped by
// ownerID; a row belonging to another owner behaves as if it did not exist.
type Repository interface {
	// Get returns a single active profile. Returns ErrNotFound if it doesn't
	// exist, is trashed, or belongs to another owner.
	Get(ctx context.Context, ownerID, id string) (*domain.CompetitorProfile, error)

	// List returns the owner's active profiles, ordered by created_at DESC.
	List(ctx context.Context, ownerID string, filter ListFilter) ([]domain.CompetitorProfile, error)

	// Create inserts a new profile and returns its ID.
	Create(ctx context.Context, c *domain.CompetitorProfile) (string, error)

	// Update modifies a profile. Only non-nil fields in the update are applied.
	Update(ctx context.Context, ownerID, id string, u UpdateFields) error

	// UpdateIntelligence overwrites the intelligence metrics and JSON blobs
	// after a refresh.
	UpdateIntelligence(ctx context.Context, ownerID, id string, intel IntelligenceUpdate) error

	// CreateAlert inserts a threat alert.
	CreateAlert(ctx context.Context, a *domain.ThreatAlert) (string, error)

	// ListAlerts returns the owner's alerts, newest first. unreadOnly filters
	// to read = false.
	ListAlerts(ctx context.Context, ownerID string, unreadOnly bool) ([]domain.ThreatAlert, error)

	// MarkAlertRead flips the read flag. Returns ErrNotFound for missing or
	// foreign alerts.
	MarkAlertRead(ctx context.Context, ownerID, id string) error

	// RecordMetric inserts a performance metric row.
	RecordMetric(ctx context.Context, m *domain.PerformanceMetric) (string, error)

	// ListMetrics returns the owner's metrics for one metric type, newest
	// period first.
	ListMetrics(ctx context.Context, ownerID, metricType string, limit int) ([]domain.PerformanceMetric, error)
}

// ListFilter controls filtering for competitor lists.
type ListFilter struct {
	ThreatLevel string
	Search      string
	Limit       int
	Offset      int
}

// UpdateFields holds the mutable fields for a profile update. Nil fields are
// not applied.
type UpdateFields struct {
	CompanyName *string
	Website     *string
	ThreatLevel *domain.ThreatLevel
}

// IntelligenceUpdate carries a full refresh of the intelligence columns.
type IntelligenceUpdate struct {
	SEOScore           int
	SentimentScore     float64
	MarketShare        float64
	EstimatedSpend     float64
	Vulnerabilities    []string
	AdActivity         json.RawMessage
	SocialSentiment    json.RawMessage
	CustomerComplaints json.RawMessage
}
