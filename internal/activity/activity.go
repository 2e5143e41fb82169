// Package activity keeps a per-owner rolling log of dashboard events in
// Redis. When Redis is not configured the log degrades to empty reads rather
// than failing requests.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/marketscout/intel-monitor/internal/pkg/logger"
)

// Entry is one activity log line shown in the dashboard's live ticker.
type Entry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Log is the Redis-backed activity store. A nil client is valid and yields
// empty reads and dropped writes.
type Log struct {
	client     *redis.Client
	maxEntries int64
}

// NewLog creates an activity log capped at maxEntries per owner.
func NewLog(client *redis.Client, maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &Log{client: client, maxEntries: int64(maxEntries)}
}

func ownerKey(ownerID string) string { return "activity:" + ownerID }

// Record appends an entry and trims the list to the cap.
func (l *Log) Record(ctx context.Context, ownerID, entryType, message string) error {
	if l.client == nil {
		return nil
	}
	entry := Entry{
		ID:        uuid.New().String(),
		Type:      entryType,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal activity entry: %w", err)
	}

	key := ownerKey(ownerID)
	pipe := l.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, l.maxEntries-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first. Redis errors degrade
// to an empty list so the dashboard keeps rendering.
func (l *Log) Recent(ctx context.Context, ownerID string, limit int) ([]Entry, error) {
	if l.client == nil {
		return []Entry{}, nil
	}
	if limit <= 0 || int64(limit) > l.maxEntries {
		limit = int(l.maxEntries)
	}

	raw, err := l.client.LRange(ctx, ownerKey(ownerID), 0, int64(limit)-1).Result()
	if err != nil {
		logger.Warn("activity read failed", "owner_id", ownerID, "error", err.Error())
		return []Entry{}, nil
	}

	out := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
