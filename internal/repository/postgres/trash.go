package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/service/trash"
)

// TrashRepo implements trash.Repository against PostgreSQL. Table and column
// names are interpolated from the closed registry, never from request input,
// so the dynamic SQL here is safe.
type TrashRepo struct{ db *sql.DB }

// NewTrashRepo creates a Postgres-backed trash repository.
func NewTrashRepo(db *sql.DB) *TrashRepo { return &TrashRepo{db: db} }

func (r *TrashRepo) SoftDelete(ctx context.Context, spec trash.TableSpec, ownerID, id string) error {
	q := fmt.Sprintf(`UPDATE %s SET deleted_at = NOW() WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`, spec.Table)
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return fmt.Errorf("soft delete %s: %w", spec.Name, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return trash.ErrNotFound
	}
	return nil
}

func (r *TrashRepo) Restore(ctx context.Context, spec trash.TableSpec, ownerID, id string) error {
	q := fmt.Sprintf(`UPDATE %s SET deleted_at = NULL WHERE id = $1 AND owner_id = $2 AND deleted_at IS NOT NULL`, spec.Table)
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return fmt.Errorf("restore %s: %w", spec.Name, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return trash.ErrNotFound
	}
	return nil
}

func (r *TrashRepo) PermanentDelete(ctx context.Context, spec trash.TableSpec, ownerID, id string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND owner_id = $2`, spec.Table)
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return fmt.Errorf("permanent delete %s: %w", spec.Name, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return trash.ErrNotFound
	}
	return nil
}

func (r *TrashRepo) ListDeleted(ctx context.Context, spec trash.TableSpec, ownerID string) ([]domain.TrashRecord, error) {
	q := fmt.Sprintf(`
		SELECT id, %s, owner_id, deleted_at
		FROM %s
		WHERE owner_id = $1 AND deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
	`, spec.LabelColumn, spec.Table)

	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list deleted %s: %w", spec.Name, err)
	}
	defer rows.Close()

	var out []domain.TrashRecord
	for rows.Next() {
		var rec domain.TrashRecord
		var deletedAt sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.Label, &rec.OwnerID, &deletedAt); err != nil {
			return nil, fmt.Errorf("scan deleted %s: %w", spec.Name, err)
		}
		rec.Table = spec.Name
		if deletedAt.Valid {
			rec.DeletedAt = deletedAt.Time
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
