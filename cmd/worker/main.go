package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marketscout/intel-monitor/internal/activity"
	"github.com/marketscout/intel-monitor/internal/config"
	"github.com/marketscout/intel-monitor/internal/intelligence"
	"github.com/marketscout/intel-monitor/internal/notify"
	"github.com/marketscout/intel-monitor/internal/pkg/distlock"
	"github.com/marketscout/intel-monitor/internal/repository/postgres"
	"github.com/marketscout/intel-monitor/internal/service/competitor"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// The worker runs the periodic intelligence refresh for every owner and a
// lightweight activity poll that surfaces new dashboard events in the logs.
func main() {
	log.Println("Starting MarketScout intelligence worker...")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

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

	competitorRepo := postgres.NewCompetitorRepo(db)
	competitorSvc := competitor.NewService(competitorRepo)
	feedRepo := postgres.NewFeedRepo(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notifier intelligence.Notifier
	if cfg.Notify.Enabled {
		mailer, err := notify.NewMailer(ctx, cfg.Notify)
		if err != nil {
			log.Printf("Warning: SES notifier unavailable: %v", err)
		} else {
			notifier = mailer
		}
	}

	provider := intelligence.NewRandomProvider(time.Now().UnixNano(), cfg.Intelligence.MaxAdSpend)
	intelSvc := intelligence.NewService(provider, competitorSvc, feedRepo, notifier, cfg.Intelligence)

	var redisClient *redis.Client
	var activityLog *activity.Log
	if cfg.Redis.Enabled && cfg.Redis.URL != "" {
		if opts, err := redis.ParseURL(cfg.Redis.URL); err == nil {
			redisClient = redis.NewClient(opts)
			activityLog = activity.NewLog(redisClient, int(cfg.Activity.MaxEntries))
		} else {
			log.Printf("Warning: invalid Redis URL, activity poll disabled: %v", err)
		}
	}

	// One replica runs the sweep at a time.
	sweepLock := distlock.New(redisClient, db, "intel:refresh-sweep", cfg.Intelligence.RefreshInterval())

	go refreshLoop(ctx, cfg, competitorRepo, intelSvc, activityLog, sweepLock)
	if activityLog != nil {
		go activityPollLoop(ctx, cfg, competitorRepo, activityLog)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("Shutting down worker...")
	cancel()
	time.Sleep(time.Second)
	log.Println("Worker stopped")
}

// refreshLoop regenerates intelligence and pulls live feeds for every owner
// on the configured cadence. One owner failing never stops the sweep.
func refreshLoop(ctx context.Context, cfg *config.Config, repo *postgres.CompetitorRepo, intelSvc *intelligence.Service, activityLog *activity.Log, lock distlock.Lock) {
	interval := cfg.Intelligence.RefreshInterval()
	log.Printf("Refresh loop running every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			acquired, err := lock.Acquire(ctx)
			if err != nil {
				log.Printf("Acquire sweep lock: %v", err)
				continue
			}
			if !acquired {
				continue // another replica owns this sweep
			}

			owners, err := repo.ListOwners(ctx)
			if err != nil {
				log.Printf("List owners: %v", err)
				lock.Release(ctx)
				continue
			}
			for _, owner := range owners {
				if err := intelSvc.RefreshAll(ctx, owner); err != nil {
					log.Printf("Refresh for owner %s: %v", owner, err)
					continue
				}
				if len(cfg.Intelligence.FeedURLs) > 0 {
					if _, err := intelSvc.FetchLiveFeeds(ctx, owner, cfg.Intelligence.FeedURLs); err != nil {
						log.Printf("Fetch feeds for owner %s: %v", owner, err)
					}
				}
				if activityLog != nil {
					_ = activityLog.Record(ctx, owner, "intelligence_refreshed", "Background intelligence refresh completed")
				}
			}
			log.Printf("Refresh sweep complete for %d owners", len(owners))
			lock.Release(ctx)
		}
	}
}

// activityPollLoop refetches each owner's activity on a short cadence and
// logs newly observed entries.
func activityPollLoop(ctx context.Context, cfg *config.Config, repo *postgres.CompetitorRepo, activityLog *activity.Log) {
	interval := cfg.Activity.PollInterval()
	log.Printf("Activity poll running every %s", interval)

	lastSeen := make(map[string]string) // owner -> newest entry ID

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			owners, err := repo.ListOwners(ctx)
			if err != nil {
				continue
			}
			for _, owner := range owners {
				entries, err := activityLog.Recent(ctx, owner, 1)
				if err != nil || len(entries) == 0 {
					continue
				}
				if entries[0].ID != lastSeen[owner] {
					lastSeen[owner] = entries[0].ID
					log.Printf("Activity [%s] %s: %s", owner, entries[0].Type, entries[0].Message)
				}
			}
		}
	}
}
