package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/service/recommendation"
)

// RecommendationRepo implements recommendation.Repository against PostgreSQL.
type RecommendationRepo struct{ db *sql.DB }

// NewRecommendationRepo creates a Postgres-backed recommendation repository.
func NewRecommendationRepo(db *sql.DB) *RecommendationRepo { return &RecommendationRepo{db: db} }

func (r *RecommendationRepo) Get(ctx context.Context, ownerID, id string) (*domain.CampaignRecommendation, error) {
	c := &domain.CampaignRecommendation{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, type, title, COALESCE(description,''), budget_estimate,
		       status, COALESCE(detail, 'null'), created_at, updated_at
		FROM campaign_recommendations
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`, id, ownerID).Scan(
		&c.ID, &c.OwnerID, &c.Type, &c.Title, &c.Description, &c.Budget,
		&c.Status, &c.Detail, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, recommendation.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recommendation: %w", err)
	}
	return c, nil
}

func (r *RecommendationRepo) List(ctx context.Context, ownerID string, f recommendation.ListFilter) ([]domain.CampaignRecommendation, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	q := `
		SELECT id, owner_id, type, title, COALESCE(description,''), budget_estimate,
		       status, COALESCE(detail, 'null'), created_at, updated_at
		FROM campaign_recommendations
		WHERE owner_id = $1 AND deleted_at IS NULL`

	args := []interface{}{ownerID}
	idx := 2
	if f.Status != "" {
		q += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Type != "" {
		q += fmt.Sprintf(" AND type = $%d", idx)
		args = append(args, f.Type)
		idx++
	}
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	var out []domain.CampaignRecommendation
	for rows.Next() {
		var c domain.CampaignRecommendation
		if err := rows.Scan(
			&c.ID, &c.OwnerID, &c.Type, &c.Title, &c.Description, &c.Budget,
			&c.Status, &c.Detail, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *RecommendationRepo) Create(ctx context.Context, c *domain.CampaignRecommendation) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaign_recommendations
			(id, owner_id, type, title, description, budget_estimate, status, detail, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`, c.ID, c.OwnerID, c.Type, c.Title, c.Description, c.Budget, c.Status, []byte(c.Detail))
	if err != nil {
		return "", fmt.Errorf("create recommendation: %w", err)
	}
	return c.ID, nil
}

func (r *RecommendationRepo) UpdateStatus(ctx context.Context, ownerID, id string, status domain.RecommendationStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaign_recommendations SET status = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3 AND deleted_at IS NULL
	`, status, id, ownerID)
	if err != nil {
		return fmt.Errorf("update recommendation status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return recommendation.ErrNotFound
	}
	return nil
}
