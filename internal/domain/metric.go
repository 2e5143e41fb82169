package domain

import (
	"encoding/json"
	"time"
)

// PerformanceMetric is a single measured value over a time period, recorded
// against an owner's account (e.g. share-of-voice, organic traffic).
type PerformanceMetric struct {
	ID          string          `json:"id" db:"id"`
	OwnerID     string          `json:"owner_id" db:"owner_id"`
	MetricType  string          `json:"metric_type" db:"metric_type"`
	Value       float64         `json:"value" db:"value"`
	PeriodStart time.Time       `json:"period_start" db:"period_start"`
	PeriodEnd   time.Time       `json:"period_end" db:"period_end"`
	Metadata    json.RawMessage `json:"metadata" db:"metadata"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
