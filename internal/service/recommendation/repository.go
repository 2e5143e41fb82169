package recommendation

import (
	"context"

	"github.com/marketscout/intel-monitor/internal/domain"
)

// Repository defines the data access contract for campaign recommendations.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single active recommendation. Returns ErrNotFound if it
	// doesn't exist, is trashed, or belongs to another owner.
	Get(ctx context.Context, ownerID, id string) (*domain.CampaignRecommendation, error)

	// List returns the owner's active recommendations, ordered by created_at
	// DESC.
	List(ctx context.Context, ownerID string, filter ListFilter) ([]domain.CampaignRecommendation, error)

	// Create inserts a new recommendation and returns its ID.
	Create(ctx context.Context, c *domain.CampaignRecommendation) (string, error)

	// UpdateStatus transitions the recommendation's status.
	UpdateStatus(ctx context.Context, ownerID, id string, status domain.RecommendationStatus) error
}

// ListFilter controls filtering for recommendation lists.
type ListFilter struct {
	Status string
	Type   string
	Limit  int
	Offset int
}
