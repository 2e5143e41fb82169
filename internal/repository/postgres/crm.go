package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/service/crm"
)

// CRMRepo implements crm.Repository against PostgreSQL. Leads, tasks, and
// email campaigns share the soft-delete convention: active queries filter on
// deleted_at IS NULL.
type CRMRepo struct{ db *sql.DB }

// NewCRMRepo creates a Postgres-backed CRM repository.
func NewCRMRepo(db *sql.DB) *CRMRepo { return &CRMRepo{db: db} }

func (r *CRMRepo) GetLead(ctx context.Context, ownerID, id string) (*domain.Lead, error) {
	l := &domain.Lead{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, COALESCE(email,''), COALESCE(company,''),
		       status, created_at, updated_at
		FROM crm_leads
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`, id, ownerID).Scan(
		&l.ID, &l.OwnerID, &l.Name, &l.Email, &l.Company,
		&l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, crm.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (r *CRMRepo) ListLeads(ctx context.Context, ownerID string) ([]domain.Lead, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, COALESCE(email,''), COALESCE(company,''),
		       status, created_at, updated_at
		FROM crm_leads
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Email, &l.Company,
			&l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *CRMRepo) CreateLead(ctx context.Context, l *domain.Lead) (string, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO crm_leads (id, owner_id, name, email, company, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, l.ID, l.OwnerID, l.Name, l.Email, l.Company, l.Status)
	if err != nil {
		return "", fmt.Errorf("create lead: %w", err)
	}
	return l.ID, nil
}

func (r *CRMRepo) UpdateLead(ctx context.Context, ownerID, id string, u crm.LeadUpdate) error {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Email != nil {
		add("email", *u.Email)
	}
	if u.Company != nil {
		add("company", *u.Company)
	}
	if u.Status != nil {
		add("status", *u.Status)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	q := fmt.Sprintf("UPDATE crm_leads SET %s WHERE id = $%d AND owner_id = $%d AND deleted_at IS NULL",
		joinComma(sets), idx, idx+1)
	args = append(args, id, ownerID)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return crm.ErrNotFound
	}
	return nil
}

func (r *CRMRepo) ListTasks(ctx context.Context, ownerID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, COALESCE(notes,''), due_at, status, created_at, updated_at
		FROM crm_tasks
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Notes, &t.DueAt,
			&t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *CRMRepo) CreateTask(ctx context.Context, t *domain.Task) (string, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO crm_tasks (id, owner_id, title, notes, due_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, t.ID, t.OwnerID, t.Title, t.Notes, t.DueAt, t.Status)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	return t.ID, nil
}

func (r *CRMRepo) SetTaskStatus(ctx context.Context, ownerID, id string, status domain.TaskStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE crm_tasks SET status = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3 AND deleted_at IS NULL
	`, status, id, ownerID)
	if err != nil {
		return fmt.Errorf("set task status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return crm.ErrNotFound
	}
	return nil
}

func (r *CRMRepo) ListEmailCampaigns(ctx context.Context, ownerID string) ([]domain.EmailCampaign, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, subject, COALESCE(body,''), status, scheduled_at,
		       created_at, updated_at
		FROM email_campaigns
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list email campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.EmailCampaign
	for rows.Next() {
		var c domain.EmailCampaign
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Subject, &c.Body,
			&c.Status, &c.ScheduledAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan email campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CRMRepo) CreateEmailCampaign(ctx context.Context, c *domain.EmailCampaign) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO email_campaigns (id, owner_id, name, subject, body, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, c.ID, c.OwnerID, c.Name, c.Subject, c.Body, c.Status)
	if err != nil {
		return "", fmt.Errorf("create email campaign: %w", err)
	}
	return c.ID, nil
}

func (r *CRMRepo) ScheduleEmailCampaign(ctx context.Context, ownerID, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE email_campaigns SET status = $1, scheduled_at = $2, updated_at = NOW()
		WHERE id = $3 AND owner_id = $4 AND deleted_at IS NULL
	`, domain.EmailCampaignScheduled, at, id, ownerID)
	if err != nil {
		return fmt.Errorf("schedule email campaign: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return crm.ErrNotFound
	}
	return nil
}
