package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/marketscout/intel-monitor/internal/analytics"
	"github.com/marketscout/intel-monitor/internal/config"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	ctx := context.Background()

	dash := analytics.Dashboard{IntelligenceScore: 42}
	dash.Competitors.TotalCompetitors = 3

	if err := store.Save(ctx, "owner-1", dash); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Latest(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Latest() error: %v", err)
	}
	if got.IntelligenceScore != 42 || got.Competitors.TotalCompetitors != 3 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestLocalStoreNoSnapshot(t *testing.T) {
	store, _ := NewLocalStore(t.TempDir())
	_, err := store.Latest(context.Background(), "owner-x")
	if !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestLocalStoreOverwriteKeepsLatest(t *testing.T) {
	store, _ := NewLocalStore(t.TempDir())
	ctx := context.Background()

	store.Save(ctx, "owner-1", analytics.Dashboard{IntelligenceScore: 10})
	store.Save(ctx, "owner-1", analytics.Dashboard{IntelligenceScore: 55})

	got, err := store.Latest(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Latest() error: %v", err)
	}
	if got.IntelligenceScore != 55 {
		t.Errorf("score = %d, want 55", got.IntelligenceScore)
	}
}

func TestNewFactory(t *testing.T) {
	store, err := New(context.Background(), config.SnapshotConfig{Type: "local", LocalPath: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, ok := store.(*LocalStore); !ok {
		t.Fatalf("expected LocalStore, got %T", store)
	}

	if _, err := New(context.Background(), config.SnapshotConfig{Type: "tape"}); err == nil {
		t.Fatal("expected error for unknown store type")
	}
}
