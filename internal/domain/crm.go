package domain

import "time"

// LeadStatus enumerates the pipeline states of a CRM lead.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadWon       LeadStatus = "won"
	LeadLost      LeadStatus = "lost"
)

// Valid reports whether the status is one of the known variants.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadWon, LeadLost:
		return true
	}
	return false
}

// Lead is a CRM contact captured from the dashboard.
type Lead struct {
	ID      string     `json:"id" db:"id"`
	OwnerID string     `json:"owner_id" db:"owner_id"`
	Name    string     `json:"name" db:"name"`
	Email   string     `json:"email" db:"email"`
	Company string     `json:"company" db:"company"`
	Status  LeadStatus `json:"status" db:"status"`

	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// TaskStatus enumerates CRM task states.
type TaskStatus string

const (
	TaskOpen TaskStatus = "open"
	TaskDone TaskStatus = "done"
)

// Valid reports whether the status is one of the known variants.
func (s TaskStatus) Valid() bool { return s == TaskOpen || s == TaskDone }

// Task is a follow-up item attached to the owner's CRM workspace.
type Task struct {
	ID      string     `json:"id" db:"id"`
	OwnerID string     `json:"owner_id" db:"owner_id"`
	Title   string     `json:"title" db:"title"`
	Notes   string     `json:"notes" db:"notes"`
	DueAt   *time.Time `json:"due_at" db:"due_at"`
	Status  TaskStatus `json:"status" db:"status"`

	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// EmailCampaignStatus enumerates outbound email campaign states.
type EmailCampaignStatus string

const (
	EmailCampaignDraft     EmailCampaignStatus = "draft"
	EmailCampaignScheduled EmailCampaignStatus = "scheduled"
	EmailCampaignSent      EmailCampaignStatus = "sent"
)

// Valid reports whether the status is one of the known variants.
func (s EmailCampaignStatus) Valid() bool {
	switch s {
	case EmailCampaignDraft, EmailCampaignScheduled, EmailCampaignSent:
		return true
	}
	return false
}

// EmailCampaign is an outbound marketing email tracked alongside leads.
type EmailCampaign struct {
	ID          string              `json:"id" db:"id"`
	OwnerID     string              `json:"owner_id" db:"owner_id"`
	Name        string              `json:"name" db:"name"`
	Subject     string              `json:"subject" db:"subject"`
	Body        string              `json:"body" db:"body"`
	Status      EmailCampaignStatus `json:"status" db:"status"`
	ScheduledAt *time.Time          `json:"scheduled_at" db:"scheduled_at"`

	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
