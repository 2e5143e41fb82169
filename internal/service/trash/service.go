package trash

import (
	"context"
	"sort"
	"sync"

	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/pkg/logger"
)

// TableFailure records a table whose trash query failed. The view still
// renders; the failed table just contributes nothing.
type TableFailure struct {
	Table string `json:"table"`
	Error string `json:"error"`
}

// View is the combined trash view: merged items plus any per-table failures.
type View struct {
	Items    []domain.TrashRecord `json:"items"`
	Failures []TableFailure       `json:"failures,omitempty"`
}

// Service implements the soft-delete lifecycle over the table registry.
type Service struct {
	repo     Repository
	registry *Registry
}

// NewService creates a trash service backed by the given repository and
// registry.
func NewService(repo Repository, registry *Registry) *Service {
	return &Service{repo: repo, registry: registry}
}

// SoftDelete marks a record as deleted. Idempotent from the caller's view:
// deleting an already-trashed record reports ErrNotFound because the active
// query matches nothing, and the record stays in the trash.
func (s *Service) SoftDelete(ctx context.Context, ownerID, table, id string) error {
	spec, ok := s.registry.Lookup(table)
	if !ok {
		return ErrUnknownTable
	}
	return s.repo.SoftDelete(ctx, spec, ownerID, id)
}

// Restore clears the deletion stamp and returns the record to the active set.
func (s *Service) Restore(ctx context.Context, ownerID, table, id string) error {
	spec, ok := s.registry.Lookup(table)
	if !ok {
		return ErrUnknownTable
	}
	return s.repo.Restore(ctx, spec, ownerID, id)
}

// PermanentDelete removes the row entirely. There is no archival copy and no
// recovery path.
func (s *Service) PermanentDelete(ctx context.Context, ownerID, table, id string) error {
	spec, ok := s.registry.Lookup(table)
	if !ok {
		return ErrUnknownTable
	}
	return s.repo.PermanentDelete(ctx, spec, ownerID, id)
}

// List returns the owner's full trash view: one query per registered table,
// issued in parallel, merged and sorted by deletion time descending. A failed
// table contributes an empty list and an entry in Failures instead of
// aborting the whole view. The view is unpaginated; it is held in memory.
func (s *Service) List(ctx context.Context, ownerID string) (*View, error) {
	specs := s.registry.All()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		items    []domain.TrashRecord
		failures []TableFailure
	)

	for _, spec := range specs {
		wg.Add(1)
		go func(spec TableSpec) {
			defer wg.Done()
			records, err := s.repo.ListDeleted(ctx, spec, ownerID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("trash query failed", "table", spec.Name, "error", err.Error())
				failures = append(failures, TableFailure{Table: spec.Name, Error: err.Error()})
				return
			}
			items = append(items, records...)
		}(spec)
	}
	wg.Wait()

	sort.Slice(items, func(i, j int) bool {
		return items[i].DeletedAt.After(items[j].DeletedAt)
	})
	sort.Slice(failures, func(i, j int) bool { return failures[i].Table < failures[j].Table })

	if items == nil {
		items = []domain.TrashRecord{}
	}
	return &View{Items: items, Failures: failures}, nil
}
