package crm

import (
	"context"
	"time"

	"github.com/marketscout/intel-monitor/internal/domain"
)

// Repository defines the data access contract for CRM records. All methods
// operate on active (non-trashed) rows only; the trash service handles the
// rest of the lifecycle.
type Repository interface {
	// Leads
	GetLead(ctx context.Context, ownerID, id string) (*domain.Lead, error)
	ListLeads(ctx context.Context, ownerID string) ([]domain.Lead, error)
	CreateLead(ctx context.Context, l *domain.Lead) (string, error)
	UpdateLead(ctx context.Context, ownerID, id string, u LeadUpdate) error

	// Tasks
	ListTasks(ctx context.Context, ownerID string) ([]domain.Task, error)
	CreateTask(ctx context.Context, t *domain.Task) (string, error)
	SetTaskStatus(ctx context.Context, ownerID, id string, status domain.TaskStatus) error

	// Email campaigns
	ListEmailCampaigns(ctx context.Context, ownerID string) ([]domain.EmailCampaign, error)
	CreateEmailCampaign(ctx context.Context, c *domain.EmailCampaign) (string, error)
	ScheduleEmailCampaign(ctx context.Context, ownerID, id string, at time.Time) error
}

// LeadUpdate holds the mutable fields for a lead update. Nil fields are not
// applied.
type LeadUpdate struct {
	Name    *string
	Email   *string
	Company *string
	Status  *domain.LeadStatus
}
