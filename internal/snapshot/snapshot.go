// Package snapshot archives per-owner analytics snapshots so the dashboard
// can fall back to the last known good aggregation. Two backends: local JSON
// files for development, DynamoDB + S3 for deployed environments.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/marketscout/intel-monitor/internal/analytics"
	"github.com/marketscout/intel-monitor/internal/config"
)

// Store persists and retrieves analytics snapshots.
type Store interface {
	Save(ctx context.Context, ownerID string, dash analytics.Dashboard) error
	Latest(ctx context.Context, ownerID string) (*analytics.Dashboard, error)
}

// ErrNoSnapshot is returned when an owner has no archived snapshot yet.
var ErrNoSnapshot = fmt.Errorf("no snapshot")

// New builds a store from configuration.
func New(ctx context.Context, cfg config.SnapshotConfig) (Store, error) {
	switch cfg.Type {
	case "", "local":
		path := cfg.LocalPath
		if path == "" {
			path = "data/snapshots"
		}
		return NewLocalStore(path)
	case "aws":
		return NewAWSStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown snapshot store type %q", cfg.Type)
	}
}

// LocalStore keeps one JSON file per owner under a base directory.
type LocalStore struct {
	dir string
	mu  sync.Mutex
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) path(ownerID string) string {
	return filepath.Join(s.dir, ownerID+".json")
}

func (s *LocalStore) Save(_ context.Context, ownerID string, dash analytics.Dashboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(dash, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.path(ownerID), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *LocalStore) Latest(_ context.Context, ownerID string) (*analytics.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(ownerID))
	if os.IsNotExist(err) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var dash analytics.Dashboard
	if err := json.Unmarshal(data, &dash); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &dash, nil
}
