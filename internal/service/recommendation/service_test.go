package recommendation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/service/recommendation"
)

type memRepo struct {
	mu   sync.Mutex
	recs map[string]*domain.CampaignRecommendation
}

func newMemRepo() *memRepo {
	return &memRepo{recs: make(map[string]*domain.CampaignRecommendation)}
}

func (m *memRepo) Get(_ context.Context, ownerID, id string) (*domain.CampaignRecommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.recs[id]
	if !ok || c.OwnerID != ownerID || c.DeletedAt != nil {
		return nil, recommendation.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, ownerID string, f recommendation.ListFilter) ([]domain.CampaignRecommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CampaignRecommendation
	for _, c := range m.recs {
		if c.OwnerID != ownerID || c.DeletedAt != nil {
			continue
		}
		if f.Status != "" && string(c.Status) != f.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, c *domain.CampaignRecommendation) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.recs[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, ownerID, id string, status domain.RecommendationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.recs[id]
	if !ok || c.OwnerID != ownerID {
		return recommendation.ErrNotFound
	}
	c.Status = status
	return nil
}

const testOwner = "owner-1"

func TestCreateStartsPending(t *testing.T) {
	svc := recommendation.NewService(newMemRepo())
	c, err := svc.Create(context.Background(), testOwner, recommendation.CreateInput{
		Type: domain.RecommendationSEO, Title: "Target their weak keywords", Budget: 5000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Status != domain.RecommendationPending {
		t.Fatalf("expected pending, got %s", c.Status)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := recommendation.NewService(newMemRepo())
	_, err := svc.Create(context.Background(), testOwner, recommendation.CreateInput{Type: domain.RecommendationAds})
	if !errors.Is(err, recommendation.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty title, got %v", err)
	}
	_, err = svc.Create(context.Background(), testOwner, recommendation.CreateInput{Type: "billboard", Title: "x"})
	if !errors.Is(err, recommendation.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}
}

func TestDeploy(t *testing.T) {
	repo := newMemRepo()
	svc := recommendation.NewService(repo)
	c, _ := svc.Create(context.Background(), testOwner, recommendation.CreateInput{
		Type: domain.RecommendationAds, Title: "Counter their promo",
	})

	if err := svc.Deploy(context.Background(), testOwner, c.ID); err != nil {
		t.Fatalf("deploy: %v", err)
	}
	got, _ := svc.Get(context.Background(), testOwner, c.ID)
	if got.Status != domain.RecommendationDeployed {
		t.Fatalf("expected deployed, got %s", got.Status)
	}
}

func TestTerminalStatusIsFinal(t *testing.T) {
	repo := newMemRepo()
	svc := recommendation.NewService(repo)
	c, _ := svc.Create(context.Background(), testOwner, recommendation.CreateInput{
		Type: domain.RecommendationSocial, Title: "Engage their unhappy users",
	})

	if err := svc.Dismiss(context.Background(), testOwner, c.ID); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	err := svc.Deploy(context.Background(), testOwner, c.ID)
	if !errors.Is(err, recommendation.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus after dismiss, got %v", err)
	}
}

func TestSetStatusOwnerScoping(t *testing.T) {
	repo := newMemRepo()
	svc := recommendation.NewService(repo)
	c, _ := svc.Create(context.Background(), "other-owner", recommendation.CreateInput{
		Type: domain.RecommendationContent, Title: "Theirs",
	})

	err := svc.Deploy(context.Background(), testOwner, c.ID)
	if err != recommendation.ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign recommendation, got %v", err)
	}
}
