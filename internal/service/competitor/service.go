package competitor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/marketscout/intel-monitor/internal/domain"
)

// Service implements competitor business logic.
type Service struct {
	repo Repository
}

// NewService creates a competitor service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput holds the fields accepted when adding a competitor.
type CreateInput struct {
	CompanyName string
	Website     string
	ThreatLevel domain.ThreatLevel
}

// Get returns a single active profile.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.CompetitorProfile, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// List returns the owner's active profiles.
func (s *Service) List(ctx context.Context, ownerID string, f ListFilter) ([]domain.CompetitorProfile, error) {
	return s.repo.List(ctx, ownerID, f)
}

// Create validates and persists a new competitor profile. Threat level
// defaults to medium when unset.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*domain.CompetitorProfile, error) {
	if strings.TrimSpace(input.CompanyName) == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrInvalidInput)
	}
	level := input.ThreatLevel
	if level == "" {
		level = domain.ThreatMedium
	}
	if !level.Valid() {
		return nil, fmt.Errorf("%w: unknown threat level %q", ErrInvalidInput, input.ThreatLevel)
	}

	c := &domain.CompetitorProfile{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		CompanyName: input.CompanyName,
		Website:     input.Website,
		ThreatLevel: level,
	}
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// Update modifies mutable profile fields.
func (s *Service) Update(ctx context.Context, ownerID, id string, u UpdateFields) error {
	if u.ThreatLevel != nil && !u.ThreatLevel.Valid() {
		return fmt.Errorf("%w: unknown threat level %q", ErrInvalidInput, *u.ThreatLevel)
	}
	return s.repo.Update(ctx, ownerID, id, u)
}

// ApplyIntelligence persists a refreshed intelligence snapshot.
func (s *Service) ApplyIntelligence(ctx context.Context, ownerID, id string, intel IntelligenceUpdate) error {
	return s.repo.UpdateIntelligence(ctx, ownerID, id, intel)
}

// RaiseAlert records a threat alert for the owner.
func (s *Service) RaiseAlert(ctx context.Context, ownerID string, competitorID *string, severity domain.AlertSeverity, title, message string) (*domain.ThreatAlert, error) {
	if !severity.Valid() {
		return nil, fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, severity)
	}
	a := &domain.ThreatAlert{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		CompetitorID: competitorID,
		Severity:     severity,
		Title:        title,
		Message:      message,
	}
	id, err := s.repo.CreateAlert(ctx, a)
	if err != nil {
		return nil, err
	}
	a.ID = id
	return a, nil
}

// Alerts returns the owner's alerts.
func (s *Service) Alerts(ctx context.Context, ownerID string, unreadOnly bool) ([]domain.ThreatAlert, error) {
	return s.repo.ListAlerts(ctx, ownerID, unreadOnly)
}

// MarkAlertRead flips an alert's read flag.
func (s *Service) MarkAlertRead(ctx context.Context, ownerID, id string) error {
	return s.repo.MarkAlertRead(ctx, ownerID, id)
}

// RecordMetric stores a performance metric data point.
func (s *Service) RecordMetric(ctx context.Context, m *domain.PerformanceMetric) (string, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.MetricType == "" {
		return "", fmt.Errorf("%w: metric type is required", ErrInvalidInput)
	}
	return s.repo.RecordMetric(ctx, m)
}

// Metrics returns recent data points for one metric type.
func (s *Service) Metrics(ctx context.Context, ownerID, metricType string, limit int) ([]domain.PerformanceMetric, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListMetrics(ctx, ownerID, metricType, limit)
}
