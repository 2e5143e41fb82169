package domain

import "time"

// AlertSeverity enumerates threat alert severities.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityHigh     AlertSeverity = "high"
	SeverityMedium   AlertSeverity = "medium"
	SeverityLow      AlertSeverity = "low"
)

// Valid reports whether the severity is one of the known variants.
func (s AlertSeverity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// ThreatAlert is a user-visible alert derived from intelligence thresholds.
type ThreatAlert struct {
	ID           string        `json:"id" db:"id"`
	OwnerID      string        `json:"owner_id" db:"owner_id"`
	CompetitorID *string       `json:"competitor_id" db:"competitor_id"`
	Severity     AlertSeverity `json:"severity" db:"severity"`
	Title        string        `json:"title" db:"title"`
	Message      string        `json:"message" db:"message"`
	Read         bool          `json:"read" db:"read"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}
