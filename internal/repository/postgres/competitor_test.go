package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/service/competitor"
)

func TestCompetitorRepo_Get(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "company_name", "website", "threat_level",
		"seo_score", "sentiment_score", "market_share", "estimated_ad_spend",
		"vulnerabilities", "ad_activity", "social_sentiment", "customer_complaints",
		"created_at", "updated_at",
	}).AddRow(
		"comp-1", "owner-1", "Acme Inc", "https://acme.example", "high",
		72, 0.41, 12.5, 18000.0,
		"{\"weak mobile UX\"}", []byte(`null`), []byte(`null`), []byte(`null`),
		now, now,
	)

	mock.ExpectQuery(`(?s)SELECT .+ FROM competitor_profiles\s+WHERE id = \$1 AND owner_id = \$2 AND deleted_at IS NULL`).
		WithArgs("comp-1", "owner-1").
		WillReturnRows(rows)

	repo := NewCompetitorRepo(db)
	c, err := repo.Get(context.Background(), "owner-1", "comp-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if c.CompanyName != "Acme Inc" || c.ThreatLevel != domain.ThreatHigh {
		t.Errorf("unexpected profile: %+v", c)
	}
	if c.SEOScore != 72 {
		t.Errorf("SEOScore = %d, want 72", c.SEOScore)
	}
}

func TestCompetitorRepo_GetNotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)SELECT .+ FROM competitor_profiles`).
		WithArgs("comp-x", "owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewCompetitorRepo(db)
	_, err := repo.Get(context.Background(), "owner-1", "comp-x")
	if !errors.Is(err, competitor.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompetitorRepo_Create(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO competitor_profiles`).
		WithArgs(sqlmock.AnyArg(), "owner-1", "Acme Inc", "https://acme.example", domain.ThreatMedium).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCompetitorRepo(db)
	id, err := repo.Create(context.Background(), &domain.CompetitorProfile{
		OwnerID:     "owner-1",
		CompanyName: "Acme Inc",
		Website:     "https://acme.example",
		ThreatLevel: domain.ThreatMedium,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if id == "" {
		t.Error("Create() returned empty id")
	}
}

func TestCompetitorRepo_UpdateIntelligence(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE competitor_profiles SET\s+seo_score = \$1`).
		WithArgs(85, 0.3, 22.0, 41000.0, sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"comp-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCompetitorRepo(db)
	err := repo.UpdateIntelligence(context.Background(), "owner-1", "comp-1", competitor.IntelligenceUpdate{
		SEOScore:        85,
		SentimentScore:  0.3,
		MarketShare:     22.0,
		EstimatedSpend:  41000.0,
		Vulnerabilities: []string{"slow site"},
		AdActivity:      []byte(`{"platforms":["google"]}`),
		SocialSentiment: []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("UpdateIntelligence() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCompetitorRepo_MarkAlertReadNotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE threat_alerts SET read = true`).
		WithArgs("alert-1", "owner-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCompetitorRepo(db)
	err := repo.MarkAlertRead(context.Background(), "owner-2", "alert-1")
	if !errors.Is(err, competitor.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
