package competitor_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/service/competitor"
)

// memRepo is an in-memory competitor repository for unit testing.
type memRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.CompetitorProfile
	alerts   map[string]*domain.ThreatAlert
	metrics  []domain.PerformanceMetric
}

func newMemRepo() *memRepo {
	return &memRepo{
		profiles: make(map[string]*domain.CompetitorProfile),
		alerts:   make(map[string]*domain.ThreatAlert),
	}
}

func (m *memRepo) Get(_ context.Context, ownerID, id string) (*domain.CompetitorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.profiles[id]
	if !ok || c.OwnerID != ownerID || c.DeletedAt != nil {
		return nil, competitor.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, ownerID string, f competitor.ListFilter) ([]domain.CompetitorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CompetitorProfile
	for _, c := range m.profiles {
		if c.OwnerID != ownerID || c.DeletedAt != nil {
			continue
		}
		if f.ThreatLevel != "" && string(c.ThreatLevel) != f.ThreatLevel {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, c *domain.CompetitorProfile) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.profiles[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memRepo) Update(_ context.Context, ownerID, id string, u competitor.UpdateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.profiles[id]
	if !ok || c.OwnerID != ownerID {
		return competitor.ErrNotFound
	}
	if u.CompanyName != nil {
		c.CompanyName = *u.CompanyName
	}
	if u.Website != nil {
		c.Website = *u.Website
	}
	if u.ThreatLevel != nil {
		c.ThreatLevel = *u.ThreatLevel
	}
	return nil
}

func (m *memRepo) UpdateIntelligence(_ context.Context, ownerID, id string, intel competitor.IntelligenceUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.profiles[id]
	if !ok || c.OwnerID != ownerID {
		return competitor.ErrNotFound
	}
	c.SEOScore = intel.SEOScore
	c.SentimentScore = intel.SentimentScore
	c.MarketShare = intel.MarketShare
	c.EstimatedSpend = intel.EstimatedSpend
	c.Vulnerabilities = intel.Vulnerabilities
	c.AdActivity = intel.AdActivity
	c.SocialSentiment = intel.SocialSentiment
	c.CustomerComplaints = intel.CustomerComplaints
	return nil
}

func (m *memRepo) CreateAlert(_ context.Context, a *domain.ThreatAlert) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.alerts[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memRepo) ListAlerts(_ context.Context, ownerID string, unreadOnly bool) ([]domain.ThreatAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ThreatAlert
	for _, a := range m.alerts {
		if a.OwnerID != ownerID {
			continue
		}
		if unreadOnly && a.Read {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *memRepo) MarkAlertRead(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok || a.OwnerID != ownerID {
		return competitor.ErrNotFound
	}
	a.Read = true
	return nil
}

func (m *memRepo) RecordMetric(_ context.Context, metric *domain.PerformanceMetric) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = append(m.metrics, *metric)
	return metric.ID, nil
}

func (m *memRepo) ListMetrics(_ context.Context, ownerID, metricType string, limit int) ([]domain.PerformanceMetric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PerformanceMetric
	for _, pm := range m.metrics {
		if pm.OwnerID == ownerID && pm.MetricType == metricType {
			out = append(out, pm)
		}
	}
	return out, nil
}

const testOwner = "owner-1"

func TestCreate(t *testing.T) {
	svc := competitor.NewService(newMemRepo())
	c, err := svc.Create(context.Background(), testOwner, competitor.CreateInput{
		CompanyName: "Acme Corp", Website: "https://acme.example",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ThreatLevel != domain.ThreatMedium {
		t.Fatalf("expected default medium threat level, got %s", c.ThreatLevel)
	}
	if c.OwnerID != testOwner {
		t.Fatalf("owner = %s, want %s", c.OwnerID, testOwner)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := competitor.NewService(newMemRepo())
	_, err := svc.Create(context.Background(), testOwner, competitor.CreateInput{CompanyName: "  "})
	if !errors.Is(err, competitor.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = svc.Create(context.Background(), testOwner, competitor.CreateInput{
		CompanyName: "Acme", ThreatLevel: "apocalyptic",
	})
	if !errors.Is(err, competitor.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad threat level, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := competitor.NewService(newMemRepo())
	_, err := svc.Get(context.Background(), testOwner, "nonexistent")
	if err != competitor.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetOwnerScoping(t *testing.T) {
	repo := newMemRepo()
	svc := competitor.NewService(repo)
	c, _ := svc.Create(context.Background(), "other-owner", competitor.CreateInput{CompanyName: "Acme"})

	_, err := svc.Get(context.Background(), testOwner, c.ID)
	if err != competitor.ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign profile, got %v", err)
	}
}

func TestApplyIntelligence(t *testing.T) {
	repo := newMemRepo()
	svc := competitor.NewService(repo)
	c, _ := svc.Create(context.Background(), testOwner, competitor.CreateInput{CompanyName: "Acme"})

	err := svc.ApplyIntelligence(context.Background(), testOwner, c.ID, competitor.IntelligenceUpdate{
		SEOScore:       72,
		SentimentScore: 0.61,
		EstimatedSpend: 41000,
		Vulnerabilities: []string{
			"Slow mobile page speed",
			"No presence on short-form video",
		},
	})
	if err != nil {
		t.Fatalf("apply intelligence: %v", err)
	}

	got, _ := svc.Get(context.Background(), testOwner, c.ID)
	if got.SEOScore != 72 || got.SentimentScore != 0.61 {
		t.Fatalf("intelligence not applied: %+v", got)
	}
	if len(got.Vulnerabilities) != 2 {
		t.Fatalf("expected 2 vulnerabilities, got %d", len(got.Vulnerabilities))
	}
}

func TestRaiseAndReadAlert(t *testing.T) {
	svc := competitor.NewService(newMemRepo())
	ctx := context.Background()

	a, err := svc.RaiseAlert(ctx, testOwner, nil, domain.SeverityHigh, "High Ad Spend", "Acme spend crossed threshold")
	if err != nil {
		t.Fatalf("raise alert: %v", err)
	}

	unread, err := svc.Alerts(ctx, testOwner, true)
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("expected 1 unread alert, got %d", len(unread))
	}

	if err := svc.MarkAlertRead(ctx, testOwner, a.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	unread, _ = svc.Alerts(ctx, testOwner, true)
	if len(unread) != 0 {
		t.Fatalf("expected 0 unread after mark read, got %d", len(unread))
	}
}

func TestRaiseAlertInvalidSeverity(t *testing.T) {
	svc := competitor.NewService(newMemRepo())
	_, err := svc.RaiseAlert(context.Background(), testOwner, nil, "catastrophic", "t", "m")
	if !errors.Is(err, competitor.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRecordMetricValidation(t *testing.T) {
	svc := competitor.NewService(newMemRepo())
	_, err := svc.RecordMetric(context.Background(), &domain.PerformanceMetric{OwnerID: testOwner})
	if !errors.Is(err, competitor.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing metric type, got %v", err)
	}
}
