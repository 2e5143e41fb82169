package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/service/competitor"
)

// CompetitorRepo implements competitor.Repository against PostgreSQL.
type CompetitorRepo struct{ db *sql.DB }

// NewCompetitorRepo creates a Postgres-backed competitor repository.
func NewCompetitorRepo(db *sql.DB) *CompetitorRepo { return &CompetitorRepo{db: db} }

func (r *CompetitorRepo) Get(ctx context.Context, ownerID, id string) (*domain.CompetitorProfile, error) {
	c := &domain.CompetitorProfile{}
	var vulns pq.StringArray
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, company_name, COALESCE(website,''), threat_level,
		       seo_score, sentiment_score, market_share, estimated_ad_spend,
		       COALESCE(vulnerabilities, '{}'),
		       COALESCE(ad_activity, 'null'), COALESCE(social_sentiment, 'null'),
		       COALESCE(customer_complaints, 'null'),
		       created_at, updated_at
		FROM competitor_profiles
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`, id, ownerID).Scan(
		&c.ID, &c.OwnerID, &c.CompanyName, &c.Website, &c.ThreatLevel,
		&c.SEOScore, &c.SentimentScore, &c.MarketShare, &c.EstimatedSpend,
		&vulns,
		&c.AdActivity, &c.SocialSentiment, &c.CustomerComplaints,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, competitor.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get competitor: %w", err)
	}
	c.Vulnerabilities = vulns
	return c, nil
}

func (r *CompetitorRepo) List(ctx context.Context, ownerID string, f competitor.ListFilter) ([]domain.CompetitorProfile, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	q := `
		SELECT id, owner_id, company_name, COALESCE(website,''), threat_level,
		       seo_score, sentiment_score, market_share, estimated_ad_spend,
		       COALESCE(vulnerabilities, '{}'),
		       COALESCE(ad_activity, 'null'), COALESCE(social_sentiment, 'null'),
		       COALESCE(customer_complaints, 'null'),
		       created_at, updated_at
		FROM competitor_profiles
		WHERE owner_id = $1 AND deleted_at IS NULL`

	args := []interface{}{ownerID}
	idx := 2
	if f.ThreatLevel != "" {
		q += fmt.Sprintf(" AND threat_level = $%d", idx)
		args = append(args, f.ThreatLevel)
		idx++
	}
	if f.Search != "" {
		q += fmt.Sprintf(" AND company_name ILIKE $%d", idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list competitors: %w", err)
	}
	defer rows.Close()

	var out []domain.CompetitorProfile
	for rows.Next() {
		var c domain.CompetitorProfile
		var vulns pq.StringArray
		if err := rows.Scan(
			&c.ID, &c.OwnerID, &c.CompanyName, &c.Website, &c.ThreatLevel,
			&c.SEOScore, &c.SentimentScore, &c.MarketShare, &c.EstimatedSpend,
			&vulns,
			&c.AdActivity, &c.SocialSentiment, &c.CustomerComplaints,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan competitor: %w", err)
		}
		c.Vulnerabilities = vulns
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CompetitorRepo) Create(ctx context.Context, c *domain.CompetitorProfile) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO competitor_profiles
			(id, owner_id, company_name, website, threat_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`, c.ID, c.OwnerID, c.CompanyName, c.Website, c.ThreatLevel)
	if err != nil {
		return "", fmt.Errorf("create competitor: %w", err)
	}
	return c.ID, nil
}

func (r *CompetitorRepo) Update(ctx context.Context, ownerID, id string, u competitor.UpdateFields) error {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if u.CompanyName != nil {
		add("company_name", *u.CompanyName)
	}
	if u.Website != nil {
		add("website", *u.Website)
	}
	if u.ThreatLevel != nil {
		add("threat_level", *u.ThreatLevel)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	q := fmt.Sprintf("UPDATE competitor_profiles SET %s WHERE id = $%d AND owner_id = $%d AND deleted_at IS NULL",
		joinComma(sets), idx, idx+1)
	args = append(args, id, ownerID)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update competitor: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return competitor.ErrNotFound
	}
	return nil
}

func (r *CompetitorRepo) UpdateIntelligence(ctx context.Context, ownerID, id string, in competitor.IntelligenceUpdate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE competitor_profiles SET
			seo_score = $1, sentiment_score = $2, market_share = $3,
			estimated_ad_spend = $4, vulnerabilities = $5,
			ad_activity = $6, social_sentiment = $7, customer_complaints = $8,
			updated_at = NOW()
		WHERE id = $9 AND owner_id = $10 AND deleted_at IS NULL
	`, in.SEOScore, in.SentimentScore, in.MarketShare,
		in.EstimatedSpend, pq.Array(in.Vulnerabilities),
		[]byte(in.AdActivity), []byte(in.SocialSentiment), []byte(in.CustomerComplaints),
		id, ownerID)
	if err != nil {
		return fmt.Errorf("update intelligence: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return competitor.ErrNotFound
	}
	return nil
}

func (r *CompetitorRepo) CreateAlert(ctx context.Context, a *domain.ThreatAlert) (string, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO threat_alerts (id, owner_id, competitor_id, severity, title, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, NOW())
	`, a.ID, a.OwnerID, a.CompetitorID, a.Severity, a.Title, a.Message)
	if err != nil {
		return "", fmt.Errorf("create alert: %w", err)
	}
	return a.ID, nil
}

func (r *CompetitorRepo) ListAlerts(ctx context.Context, ownerID string, unreadOnly bool) ([]domain.ThreatAlert, error) {
	q := `
		SELECT id, owner_id, competitor_id, severity, title, message, read, created_at
		FROM threat_alerts
		WHERE owner_id = $1`
	if unreadOnly {
		q += ` AND read = false`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []domain.ThreatAlert
	for rows.Next() {
		var a domain.ThreatAlert
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.CompetitorID, &a.Severity,
			&a.Title, &a.Message, &a.Read, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *CompetitorRepo) MarkAlertRead(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE threat_alerts SET read = true WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return competitor.ErrNotFound
	}
	return nil
}

func (r *CompetitorRepo) RecordMetric(ctx context.Context, m *domain.PerformanceMetric) (string, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO performance_metrics
			(id, owner_id, metric_type, value, period_start, period_end, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, m.ID, m.OwnerID, m.MetricType, m.Value, m.PeriodStart, m.PeriodEnd, []byte(m.Metadata))
	if err != nil {
		return "", fmt.Errorf("record metric: %w", err)
	}
	return m.ID, nil
}

func (r *CompetitorRepo) ListMetrics(ctx context.Context, ownerID, metricType string, limit int) ([]domain.PerformanceMetric, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, metric_type, value, period_start, period_end,
		       COALESCE(metadata, 'null'), created_at
		FROM performance_metrics
		WHERE owner_id = $1 AND metric_type = $2
		ORDER BY period_start DESC
		LIMIT $3
	`, ownerID, metricType, limit)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	defer rows.Close()

	var out []domain.PerformanceMetric
	for rows.Next() {
		var m domain.PerformanceMetric
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.MetricType, &m.Value,
			&m.PeriodStart, &m.PeriodEnd, &m.Metadata, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListOwners returns every distinct owner with at least one active profile.
// Used by the background worker to drive per-owner refreshes.
func (r *CompetitorRepo) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT owner_id FROM competitor_profiles WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		out = append(out, owner)
	}
	return out, rows.Err()
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
