package domain

import "time"

// TrashRecord is one soft-deleted row in the cross-table trash view. Table is
// the logical registry name, not the physical table name.
type TrashRecord struct {
	Table     string    `json:"table"`
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	OwnerID   string    `json:"owner_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
