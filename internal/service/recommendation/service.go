package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/marketscout/intel-monitor/internal/domain"
)

// Service implements recommendation business logic.
type Service struct {
	repo Repository
}

// NewService creates a recommendation service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput holds the fields accepted when adding a recommendation.
type CreateInput struct {
	Type        domain.RecommendationType
	Title       string
	Description string
	Budget      float64
	Detail      json.RawMessage
}

// Get returns a single active recommendation.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.CampaignRecommendation, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// List returns the owner's active recommendations.
func (s *Service) List(ctx context.Context, ownerID string, f ListFilter) ([]domain.CampaignRecommendation, error) {
	return s.repo.List(ctx, ownerID, f)
}

// Create validates and persists a new recommendation in pending status.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*domain.CampaignRecommendation, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, input.Type)
	}

	c := &domain.CampaignRecommendation{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Type:        input.Type,
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		Detail:      input.Detail,
		Status:      domain.RecommendationPending,
	}
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// SetStatus transitions a recommendation. Terminal states (dismissed,
// completed) cannot be left again.
func (s *Service) SetStatus(ctx context.Context, ownerID, id string, status domain.RecommendationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, status)
	}
	current, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if current.Status == domain.RecommendationDismissed || current.Status == domain.RecommendationCompleted {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidStatus, current.Status)
	}
	return s.repo.UpdateStatus(ctx, ownerID, id, status)
}

// Deploy marks a recommendation as deployed.
func (s *Service) Deploy(ctx context.Context, ownerID, id string) error {
	return s.SetStatus(ctx, ownerID, id, domain.RecommendationDeployed)
}

// Dismiss marks a recommendation as dismissed.
func (s *Service) Dismiss(ctx context.Context, ownerID, id string) error {
	return s.SetStatus(ctx, ownerID, id, domain.RecommendationDismissed)
}
