package domain

import "time"

// FeedPriority enumerates intelligence feed item priorities.
type FeedPriority string

const (
	PriorityHigh   FeedPriority = "high"
	PriorityMedium FeedPriority = "medium"
	PriorityLow    FeedPriority = "low"
)

// Valid reports whether the priority is one of the known variants.
func (p FeedPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// FeedImpact enumerates the expected business impact of a feed item.
type FeedImpact string

const (
	ImpactPositive FeedImpact = "positive"
	ImpactNeutral  FeedImpact = "neutral"
	ImpactNegative FeedImpact = "negative"
)

// Valid reports whether the impact is one of the known variants.
func (i FeedImpact) Valid() bool {
	switch i {
	case ImpactPositive, ImpactNeutral, ImpactNegative:
		return true
	}
	return false
}

// FeedItem is a single entry in the owner's intelligence feed, either
// synthesized by the refresh service or parsed from a live RSS/Atom source.
type FeedItem struct {
	ID          string       `json:"id" db:"id"`
	OwnerID     string       `json:"owner_id" db:"owner_id"`
	Title       string       `json:"title" db:"title"`
	Source      string       `json:"source" db:"source"`
	URL         string       `json:"url" db:"url"`
	Priority    FeedPriority `json:"priority" db:"priority"`
	Trending    bool         `json:"trending" db:"trending"`
	Impact      FeedImpact   `json:"impact" db:"impact"`
	PublishedAt time.Time    `json:"published_at" db:"published_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}
