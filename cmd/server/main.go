package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marketscout/intel-monitor/internal/activity"
	"github.com/marketscout/intel-monitor/internal/api"
	"github.com/marketscout/intel-monitor/internal/assistant"
	"github.com/marketscout/intel-monitor/internal/auth"
	"github.com/marketscout/intel-monitor/internal/config"
	"github.com/marketscout/intel-monitor/internal/content"
	"github.com/marketscout/intel-monitor/internal/intelligence"
	"github.com/marketscout/intel-monitor/internal/notify"
	"github.com/marketscout/intel-monitor/internal/repository/postgres"
	"github.com/marketscout/intel-monitor/internal/service/competitor"
	"github.com/marketscout/intel-monitor/internal/service/crm"
	"github.com/marketscout/intel-monitor/internal/service/recommendation"
	"github.com/marketscout/intel-monitor/internal/service/trash"
	"github.com/marketscout/intel-monitor/internal/snapshot"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// checkPortAvailable verifies that the target port is not already in use so
// a stale process doesn't silently shadow this one.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

// analyticsContext feeds the assistant's system prompt with a compact view
// of the owner's current dashboard.
type analyticsContext struct {
	competitors     *competitor.Service
	recommendations *recommendation.Service
}

func (a *analyticsContext) DashboardContext(ctx context.Context, ownerID string) (string, error) {
	profiles, err := a.competitors.List(ctx, ownerID, competitor.ListFilter{})
	if err != nil {
		return "", err
	}
	recs, err := a.recommendations.List(ctx, ownerID, recommendation.ListFilter{})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tracked competitors: %d\n", len(profiles))
	for _, p := range profiles {
		fmt.Fprintf(&b, "- %s (threat: %s, SEO: %d, est. monthly ad spend: $%.0f)\n",
			p.CompanyName, p.ThreatLevel, p.SEOScore, p.EstimatedSpend)
	}
	fmt.Fprintf(&b, "Campaign recommendations: %d\n", len(recs))
	for _, rec := range recs {
		fmt.Fprintf(&b, "- [%s] %s (budget: $%.0f)\n", rec.Status, rec.Title, rec.Budget)
	}
	return b.String(), nil
}

func main() {
	log.Println("Starting MarketScout intel-monitor server...")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check failed: %v", err)
	}

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime())

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Core services
	competitorSvc := competitor.NewService(postgres.NewCompetitorRepo(db))
	recommendationSvc := recommendation.NewService(postgres.NewRecommendationRepo(db))
	crmSvc := crm.NewService(postgres.NewCRMRepo(db))
	trashSvc := trash.NewService(postgres.NewTrashRepo(db), trash.DefaultRegistry())
	feedRepo := postgres.NewFeedRepo(db)

	// Critical-alert email notifications
	var notifier intelligence.Notifier
	if cfg.Notify.Enabled {
		mailer, err := notify.NewMailer(ctx, cfg.Notify)
		if err != nil {
			log.Printf("Warning: SES notifier unavailable: %v", err)
		} else {
			notifier = mailer
			log.Printf("Critical alert emails enabled (to: %s)", cfg.Notify.ToAddress)
		}
	}

	provider := intelligence.NewRandomProvider(time.Now().UnixNano(), cfg.Intelligence.MaxAdSpend)
	intelSvc := intelligence.NewService(provider, competitorSvc, feedRepo, notifier, cfg.Intelligence)

	// Activity log (optional Redis)
	var activityLog *activity.Log
	if cfg.Redis.Enabled && cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Printf("Warning: invalid Redis URL, activity log disabled: %v", err)
		} else {
			activityLog = activity.NewLog(redis.NewClient(opts), int(cfg.Activity.MaxEntries))
			log.Println("Activity log enabled")
		}
	}

	// Snapshot archive
	snapStore, err := snapshot.New(ctx, cfg.Snapshot)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot store: %v", err)
	}

	// Auth
	var authManager *auth.Manager
	if cfg.Auth.Enabled && cfg.Auth.GoogleClientID != "" {
		baseURL := fmt.Sprintf("http://%s:%d", host, cfg.Server.Port)
		if envURL := os.Getenv("AUTH_BASE_URL"); envURL != "" {
			baseURL = envURL
		}
		authManager = auth.NewManager(cfg.Auth, baseURL+"/auth/callback")
		go authManager.CleanupExpiredSessions(ctx, time.Hour)
		log.Printf("Google OAuth enabled (callback: %s/auth/callback)", baseURL)
	} else {
		log.Println("Authentication disabled; owner scope falls back to X-Owner-ID")
	}

	// Handlers
	handlers := api.NewHandlers(competitorSvc, recommendationSvc, crmSvc, trashSvc)
	handlers.SetConfig(cfg)
	handlers.SetIntelligenceService(intelSvc)
	handlers.SetContentGenerator(content.NewGenerator())
	handlers.SetSnapshotStore(snapStore)
	if activityLog != nil {
		handlers.SetActivityLog(activityLog)
	}
	if authManager != nil {
		handlers.SetAuthManager(authManager)
	}

	if cfg.Assistant.Enabled {
		assistantSvc, err := assistant.NewService(ctx, cfg.Assistant, &analyticsContext{
			competitors:     competitorSvc,
			recommendations: recommendationSvc,
		})
		if err != nil {
			log.Printf("Warning: assistant unavailable: %v", err)
		} else {
			handlers.SetAssistantService(assistantSvc)
			log.Printf("Assistant enabled (model: %s)", cfg.Assistant.ModelID)
		}
	}

	router := api.SetupRoutes(handlers, authManager, cfg.CORS)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("Shutting down...")

	cancel()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
