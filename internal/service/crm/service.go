package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketscout/intel-monitor/internal/domain"
)

// Service implements CRM business logic.
type Service struct {
	repo Repository
}

// NewService creates a CRM service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetLead returns a single active lead.
func (s *Service) GetLead(ctx context.Context, ownerID, id string) (*domain.Lead, error) {
	return s.repo.GetLead(ctx, ownerID, id)
}

// Leads returns the owner's active leads.
func (s *Service) Leads(ctx context.Context, ownerID string) ([]domain.Lead, error) {
	return s.repo.ListLeads(ctx, ownerID)
}

// CreateLead validates and persists a new lead.
func (s *Service) CreateLead(ctx context.Context, ownerID, name, email, company string) (*domain.Lead, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: lead name is required", ErrInvalidInput)
	}
	l := &domain.Lead{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Name:    name,
		Email:   email,
		Company: company,
		Status:  domain.LeadNew,
	}
	id, err := s.repo.CreateLead(ctx, l)
	if err != nil {
		return nil, err
	}
	l.ID = id
	return l, nil
}

// UpdateLead modifies mutable lead fields.
func (s *Service) UpdateLead(ctx context.Context, ownerID, id string, u LeadUpdate) error {
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("%w: unknown lead status %q", ErrInvalidInput, *u.Status)
	}
	return s.repo.UpdateLead(ctx, ownerID, id, u)
}

// Tasks returns the owner's active tasks.
func (s *Service) Tasks(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return s.repo.ListTasks(ctx, ownerID)
}

// CreateTask validates and persists a new open task.
func (s *Service) CreateTask(ctx context.Context, ownerID, title, notes string, dueAt *time.Time) (*domain.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: task title is required", ErrInvalidInput)
	}
	t := &domain.Task{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Title:   title,
		Notes:   notes,
		DueAt:   dueAt,
		Status:  domain.TaskOpen,
	}
	id, err := s.repo.CreateTask(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	return t, nil
}

// CompleteTask marks a task done.
func (s *Service) CompleteTask(ctx context.Context, ownerID, id string) error {
	return s.repo.SetTaskStatus(ctx, ownerID, id, domain.TaskDone)
}

// EmailCampaigns returns the owner's active email campaigns.
func (s *Service) EmailCampaigns(ctx context.Context, ownerID string) ([]domain.EmailCampaign, error) {
	return s.repo.ListEmailCampaigns(ctx, ownerID)
}

// CreateEmailCampaign validates and persists a new draft email campaign.
func (s *Service) CreateEmailCampaign(ctx context.Context, ownerID, name, subject, body string) (*domain.EmailCampaign, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("%w: name and subject are required", ErrInvalidInput)
	}
	c := &domain.EmailCampaign{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Name:    name,
		Subject: subject,
		Body:    body,
		Status:  domain.EmailCampaignDraft,
	}
	id, err := s.repo.CreateEmailCampaign(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// ScheduleEmailCampaign sets a future send time. Past times are rejected.
func (s *Service) ScheduleEmailCampaign(ctx context.Context, ownerID, id string, at time.Time) error {
	if at.Before(time.Now()) {
		return fmt.Errorf("%w: scheduled time is in the past", ErrInvalidInput)
	}
	return s.repo.ScheduleEmailCampaign(ctx, ownerID, id, at)
}
