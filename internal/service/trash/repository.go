package trash

import (
	"context"

	"github.com/marketscout/intel-monitor/internal/domain"
)

// Repository defines the data access contract for the soft-delete lifecycle.
// Implementations must be safe for concurrent use; List fans out one call per
// table from separate goroutines.
type Repository interface {
	// SoftDelete stamps deleted_at on an active row. Returns ErrNotFound if
	// no active row matches the id and owner.
	SoftDelete(ctx context.Context, spec TableSpec, ownerID, id string) error

	// Restore clears deleted_at on a trashed row. Returns ErrNotFound if no
	// trashed row matches the id and owner.
	Restore(ctx context.Context, spec TableSpec, ownerID, id string) error

	// PermanentDelete removes the row entirely. Irreversible. Returns
	// ErrNotFound when zero rows match, which includes owner mismatches.
	PermanentDelete(ctx context.Context, spec TableSpec, ownerID, id string) error

	// ListDeleted returns the owner's soft-deleted rows for one table. An
	// owner with no trashed rows yields an empty slice, not an error.
	ListDeleted(ctx context.Context, spec TableSpec, ownerID string) ([]domain.TrashRecord, error)
}
