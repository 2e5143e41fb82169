package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketscout/intel-monitor/internal/domain"
)

// FeedRepo persists intelligence feed items.
type FeedRepo struct{ db *sql.DB }

// NewFeedRepo creates a Postgres-backed feed repository.
func NewFeedRepo(db *sql.DB) *FeedRepo { return &FeedRepo{db: db} }

// InsertItems stores a batch of feed items. Duplicate URLs for the same owner
// are skipped so repeated live-feed polls stay idempotent.
func (r *FeedRepo) InsertItems(ctx context.Context, items []domain.FeedItem) error {
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO feed_items
				(id, owner_id, title, source, url, priority, trending, impact, published_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			ON CONFLICT (owner_id, url) DO NOTHING
		`, it.ID, it.OwnerID, it.Title, it.Source, it.URL,
			it.Priority, it.Trending, it.Impact, it.PublishedAt)
		if err != nil {
			return fmt.Errorf("insert feed item: %w", err)
		}
	}
	return nil
}

// ListItems returns the owner's feed, newest first.
func (r *FeedRepo) ListItems(ctx context.Context, ownerID string, limit int) ([]domain.FeedItem, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, source, COALESCE(url,''), priority, trending,
		       impact, published_at, created_at
		FROM feed_items
		WHERE owner_id = $1
		ORDER BY published_at DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list feed items: %w", err)
	}
	defer rows.Close()

	var out []domain.FeedItem
	for rows.Next() {
		var it domain.FeedItem
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Source, &it.URL,
			&it.Priority, &it.Trending, &it.Impact, &it.PublishedAt, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feed item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
