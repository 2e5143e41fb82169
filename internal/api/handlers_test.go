package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/marketscout/intel-monitor/internal/config"
	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/service/competitor"
	"github.com/marketscout/intel-monitor/internal/service/crm"
	"github.com/marketscout/intel-monitor/internal/service/recommendation"
	"github.com/marketscout/intel-monitor/internal/service/trash"
)

// In-memory repositories backing the handler tests. Owner scoping mirrors
// the postgres implementations: foreign rows behave as missing.

type memCompetitorRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.CompetitorProfile
	alerts   map[string]*domain.ThreatAlert
	metrics  []domain.PerformanceMetric
}

func newMemCompetitorRepo() *memCompetitorRepo {
	return &memCompetitorRepo{
		profiles: make(map[string]*domain.CompetitorProfile),
		alerts:   make(map[string]*domain.ThreatAlert),
	}
}

func (m *memCompetitorRepo) Get(_ context.Context, ownerID, id string) (*domain.CompetitorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok || p.OwnerID != ownerID || p.DeletedAt != nil {
		return nil, competitor.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memCompetitorRepo) List(_ context.Context, ownerID string, _ competitor.ListFilter) ([]domain.CompetitorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CompetitorProfile
	for _, p := range m.profiles {
		if p.OwnerID == ownerID && p.DeletedAt == nil {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memCompetitorRepo) Create(_ context.Context, c *domain.CompetitorProfile) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.profiles[c.ID] = &cp
	return c.ID, nil
}

func (m *memCompetitorRepo) Update(_ context.Context, ownerID, id string, u competitor.UpdateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok || p.OwnerID != ownerID || p.DeletedAt != nil {
		return competitor.ErrNotFound
	}
	if u.CompanyName != nil {
		p.CompanyName = *u.CompanyName
	}
	if u.Website != nil {
		p.Website = *u.Website
	}
	if u.ThreatLevel != nil {
		p.ThreatLevel = *u.ThreatLevel
	}
	return nil
}

func (m *memCompetitorRepo) UpdateIntelligence(_ context.Context, ownerID, id string, intel competitor.IntelligenceUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok || p.OwnerID != ownerID || p.DeletedAt != nil {
		return competitor.ErrNotFound
	}
	p.SEOScore = intel.SEOScore
	p.SentimentScore = intel.SentimentScore
	p.MarketShare = intel.MarketShare
	p.EstimatedSpend = intel.EstimatedSpend
	p.Vulnerabilities = intel.Vulnerabilities
	return nil
}

func (m *memCompetitorRepo) CreateAlert(_ context.Context, a *domain.ThreatAlert) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.alerts[a.ID] = &cp
	return a.ID, nil
}

func (m *memCompetitorRepo) ListAlerts(_ context.Context, ownerID string, unreadOnly bool) ([]domain.ThreatAlert, error) {
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

func (m *memCompetitorRepo) MarkAlertRead(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok || a.OwnerID != ownerID {
		return competitor.ErrNotFound
	}
	a.Read = true
	return nil
}

func (m *memCompetitorRepo) RecordMetric(_ context.Context, metric *domain.PerformanceMetric) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = append(m.metrics, *metric)
	return metric.ID, nil
}

func (m *memCompetitorRepo) ListMetrics(_ context.Context, ownerID, metricType string, _ int) ([]domain.PerformanceMetric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PerformanceMetric
	for _, metric := range m.metrics {
		if metric.OwnerID == ownerID && metric.MetricType == metricType {
			out = append(out, metric)
		}
	}
	return out, nil
}

type memRecommendationRepo struct {
	mu   sync.Mutex
	recs map[string]*domain.CampaignRecommendation
}

func newMemRecommendationRepo() *memRecommendationRepo {
	return &memRecommendationRepo{recs: make(map[string]*domain.CampaignRecommendation)}
}

func (m *memRecommendationRepo) Get(_ context.Context, ownerID, id string) (*domain.CampaignRecommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok || r.OwnerID != ownerID || r.DeletedAt != nil {
		return nil, recommendation.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRecommendationRepo) List(_ context.Context, ownerID string, _ recommendation.ListFilter) ([]domain.CampaignRecommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CampaignRecommendation
	for _, r := range m.recs {
		if r.OwnerID == ownerID && r.DeletedAt == nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRecommendationRepo) Create(_ context.Context, r *domain.CampaignRecommendation) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.recs[r.ID] = &cp
	return r.ID, nil
}

func (m *memRecommendationRepo) UpdateStatus(_ context.Context, ownerID, id string, status domain.RecommendationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok || r.OwnerID != ownerID || r.DeletedAt != nil {
		return recommendation.ErrNotFound
	}
	r.Status = status
	return nil
}

type memCRMRepo struct {
	mu        sync.Mutex
	leads     map[string]*domain.Lead
	tasks     map[string]*domain.Task
	campaigns map[string]*domain.EmailCampaign
}

func newMemCRMRepo() *memCRMRepo {
	return &memCRMRepo{
		leads:     make(map[string]*domain.Lead),
		tasks:     make(map[string]*domain.Task),
		campaigns: make(map[string]*domain.EmailCampaign),
	}
}

func (m *memCRMRepo) GetLead(_ context.Context, ownerID, id string) (*domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[id]
	if !ok || l.OwnerID != ownerID || l.DeletedAt != nil {
		return nil, crm.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memCRMRepo) ListLeads(_ context.Context, ownerID string) ([]domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Lead
	for _, l := range m.leads {
		if l.OwnerID == ownerID && l.DeletedAt == nil {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memCRMRepo) CreateLead(_ context.Context, l *domain.Lead) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.leads[l.ID] = &cp
	return l.ID, nil
}

func (m *memCRMRepo) UpdateLead(_ context.Context, ownerID, id string, u crm.LeadUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[id]
	if !ok || l.OwnerID != ownerID || l.DeletedAt != nil {
		return crm.ErrNotFound
	}
	if u.Name != nil {
		l.Name = *u.Name
	}
	if u.Email != nil {
		l.Email = *u.Email
	}
	if u.Company != nil {
		l.Company = *u.Company
	}
	if u.Status != nil {
		l.Status = *u.Status
	}
	return nil
}

func (m *memCRMRepo) ListTasks(_ context.Context, ownerID string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Task
	for _, t := range m.tasks {
		if t.OwnerID == ownerID && t.DeletedAt == nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memCRMRepo) CreateTask(_ context.Context, t *domain.Task) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tasks[t.ID] = &cp
	return t.ID, nil
}

func (m *memCRMRepo) SetTaskStatus(_ context.Context, ownerID, id string, status domain.TaskStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.OwnerID != ownerID || t.DeletedAt != nil {
		return crm.ErrNotFound
	}
	t.Status = status
	return nil
}

func (m *memCRMRepo) ListEmailCampaigns(_ context.Context, ownerID string) ([]domain.EmailCampaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.EmailCampaign
	for _, c := range m.campaigns {
		if c.OwnerID == ownerID && c.DeletedAt == nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memCRMRepo) CreateEmailCampaign(_ context.Context, c *domain.EmailCampaign) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.campaigns[c.ID] = &cp
	return c.ID, nil
}

func (m *memCRMRepo) ScheduleEmailCampaign(_ context.Context, ownerID, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.OwnerID != ownerID || c.DeletedAt != nil {
		return crm.ErrNotFound
	}
	c.Status = domain.EmailCampaignScheduled
	c.ScheduledAt = &at
	return nil
}

type trashRow struct {
	ownerID   string
	label     string
	deletedAt *time.Time
}

type memTrashRepo struct {
	mu   sync.Mutex
	rows map[string]map[string]*trashRow // table name -> id -> row
}

func newMemTrashRepo() *memTrashRepo {
	return &memTrashRepo{rows: make(map[string]map[string]*trashRow)}
}

func (m *memTrashRepo) put(table, id, ownerID, label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows[table] == nil {
		m.rows[table] = make(map[string]*trashRow)
	}
	m.rows[table][id] = &trashRow{ownerID: ownerID, label: label}
}

func (m *memTrashRepo) SoftDelete(_ context.Context, spec trash.TableSpec, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[spec.Table][id]
	if !ok || row.ownerID != ownerID || row.deletedAt != nil {
		return trash.ErrNotFound
	}
	now := time.Now()
	row.deletedAt = &now
	return nil
}

func (m *memTrashRepo) Restore(_ context.Context, spec trash.TableSpec, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[spec.Table][id]
	if !ok || row.ownerID != ownerID || row.deletedAt == nil {
		return trash.ErrNotFound
	}
	row.deletedAt = nil
	return nil
}

func (m *memTrashRepo) PermanentDelete(_ context.Context, spec trash.TableSpec, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[spec.Table][id]
	if !ok || row.ownerID != ownerID || row.deletedAt == nil {
		return trash.ErrNotFound
	}
	delete(m.rows[spec.Table], id)
	return nil
}

func (m *memTrashRepo) ListDeleted(_ context.Context, spec trash.TableSpec, ownerID string) ([]domain.TrashRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.TrashRecord
	for id, row := range m.rows[spec.Table] {
		if row.ownerID == ownerID && row.deletedAt != nil {
			out = append(out, domain.TrashRecord{
				Table:     spec.Name,
				ID:        id,
				Label:     row.label,
				OwnerID:   ownerID,
				DeletedAt: *row.deletedAt,
			})
		}
	}
	return out, nil
}

type testEnv struct {
	handlers    *Handlers
	competitors *memCompetitorRepo
	recs        *memRecommendationRepo
	crm         *memCRMRepo
	trash       *memTrashRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		competitors: newMemCompetitorRepo(),
		recs:        newMemRecommendationRepo(),
		crm:         newMemCRMRepo(),
		trash:       newMemTrashRepo(),
	}
	env.handlers = NewHandlers(
		competitor.NewService(env.competitors),
		recommendation.NewService(env.recs),
		crm.NewService(env.crm),
		trash.NewService(env.trash, trash.DefaultRegistry()),
	)
	return env
}

func (env *testEnv) seedCompetitor(ownerID, name string) string {
	id := uuid.NewString()
	env.competitors.profiles[id] = &domain.CompetitorProfile{
		ID:          id,
		OwnerID:     ownerID,
		CompanyName: name,
		ThreatLevel: domain.ThreatMedium,
		CreatedAt:   time.Now(),
	}
	env.trash.put("competitor_profiles", id, ownerID, name)
	return id
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func configCORS() config.CORSConfig {
	return config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}}
}

func TestCreateCompetitorHandler(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.handlers.CreateCompetitor, http.MethodPost, "/api/competitors", map[string]string{
		"company_name": "Acme Inc",
		"website":      "https://acme.example",
		"threat_level": "high",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var profile domain.CompetitorProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if profile.CompanyName != "Acme Inc" || profile.ThreatLevel != domain.ThreatHigh {
		t.Errorf("profile = %+v", profile)
	}
	if profile.OwnerID != "local-dev" {
		t.Errorf("owner = %s, want local-dev fallback", profile.OwnerID)
	}
}

func TestCreateCompetitorHandlerValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.handlers.CreateCompetitor, http.MethodPost, "/api/competitors", map[string]string{
		"company_name": "",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListCompetitorsScopedByOwner(t *testing.T) {
	env := newTestEnv(t)
	env.seedCompetitor("local-dev", "Acme Inc")
	env.seedCompetitor("somebody-else", "Rival Corp")

	req := httptest.NewRequest(http.MethodGet, "/api/competitors", nil)
	rec := httptest.NewRecorder()
	env.handlers.ListCompetitors(rec, req)

	var resp struct {
		Total       int                        `json:"total"`
		Competitors []domain.CompetitorProfile `json:"competitors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Competitors[0].CompanyName != "Acme Inc" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestOwnerHeaderOverride(t *testing.T) {
	env := newTestEnv(t)
	env.seedCompetitor("owner-a", "Acme Inc")

	req := httptest.NewRequest(http.MethodGet, "/api/competitors", nil)
	req.Header.Set("X-Owner-ID", "owner-a")
	rec := httptest.NewRecorder()
	env.handlers.ListCompetitors(rec, req)

	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Total)
	}
}

func TestGetCompetitorNotFound(t *testing.T) {
	env := newTestEnv(t)
	router := SetupRoutes(env.handlers, nil, configCORS())

	req := httptest.NewRequest(http.MethodGet, "/api/competitors/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteCompetitorMovesToTrash(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedCompetitor("local-dev", "Acme Inc")
	router := SetupRoutes(env.handlers, nil, configCORS())

	req := httptest.NewRequest(http.MethodDelete, "/api/competitors/"+id, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if env.trash.rows["competitor_profiles"][id].deletedAt == nil {
		t.Fatal("row not soft-deleted")
	}

	// Second delete targets no active row.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/competitors/"+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestTrashRestoreRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedCompetitor("local-dev", "Acme Inc")
	router := SetupRoutes(env.handlers, nil, configCORS())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/competitors/"+id, nil))

	rec := doJSON(t, env.handlers.ListTrash, http.MethodGet, "/api/trash", nil)
	var view trash.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Table != "competitors" {
		t.Fatalf("view = %+v", view)
	}

	rec = doJSON(t, env.handlers.RestoreFromTrash, http.MethodPost, "/api/trash/restore", map[string]string{
		"table": "competitors",
		"id":    id,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if env.trash.rows["competitor_profiles"][id].deletedAt != nil {
		t.Fatal("row still deleted after restore")
	}
}

func TestTrashUnknownTable(t *testing.T) {
	env := newTestEnv(t)
	rec := doJSON(t, env.handlers.RestoreFromTrash, http.MethodPost, "/api/trash/restore", map[string]string{
		"table": "users",
		"id":    uuid.NewString(),
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeployRecommendationHandler(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.NewString()
	env.recs.recs[id] = &domain.CampaignRecommendation{
		ID:      id,
		OwnerID: "local-dev",
		Title:   "Target weak mobile UX",
		Status:  domain.RecommendationPending,
	}
	router := SetupRoutes(env.handlers, nil, configCORS())

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations/"+id+"/deploy", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if env.recs.recs[id].Status != domain.RecommendationDeployed {
		t.Errorf("status = %s, want deployed", env.recs.recs[id].Status)
	}
}

func TestIntelFunctionUnknownAction(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.handlers.HandleIntelFunction, http.MethodPost, "/functions/intel", map[string]string{
		"action": "summon_demons",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Success || resp.Error == "" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestIntelFunctionSchedulePost(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.NewString()
	env.crm.campaigns[id] = &domain.EmailCampaign{
		ID:      id,
		OwnerID: "local-dev",
		Name:    "Q3 launch",
		Status:  domain.EmailCampaignDraft,
	}

	rec := doJSON(t, env.handlers.HandleIntelFunction, http.MethodPost, "/functions/intel", map[string]string{
		"action":      "schedule_post",
		"campaign_id": id,
		"send_at":     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if env.crm.campaigns[id].Status != domain.EmailCampaignScheduled {
		t.Errorf("status = %s, want scheduled", env.crm.campaigns[id].Status)
	}
}

func TestDashboardDegradesToZeroedShape(t *testing.T) {
	env := newTestEnv(t)
	// No snapshot store and no data: the handler still answers 200 with a
	// well-formed dashboard.
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/dashboard", nil)
	rec := httptest.NewRecorder()
	env.handlers.GetDashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Dashboard struct {
			IntelligenceScore int `json:"intelligence_score"`
		} `json:"dashboard"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Dashboard.IntelligenceScore != 0 {
		t.Errorf("score = %d, want 0", resp.Dashboard.IntelligenceScore)
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	router := SetupRoutes(env.handlers, nil, configCORS())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
