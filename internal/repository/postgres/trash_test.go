package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/marketscout/intel-monitor/internal/service/trash"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock, func() { db.Close() }
}

var leadSpec = trash.TableSpec{Name: "leads", Table: "crm_leads", LabelColumn: "name"}

func TestTrashRepo_SoftDelete(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE crm_leads SET deleted_at = NOW\(\) WHERE id = \$1 AND owner_id = \$2 AND deleted_at IS NULL`).
		WithArgs("lead-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewTrashRepo(db)
	if err := repo.SoftDelete(context.Background(), leadSpec, "owner-1", "lead-1"); err != nil {
		t.Fatalf("SoftDelete() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTrashRepo_SoftDeleteMissingRow(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE crm_leads SET deleted_at = NOW\(\)`).
		WithArgs("lead-x", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTrashRepo(db)
	err := repo.SoftDelete(context.Background(), leadSpec, "owner-1", "lead-x")
	if !errors.Is(err, trash.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTrashRepo_Restore(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE crm_leads SET deleted_at = NULL WHERE id = \$1 AND owner_id = \$2 AND deleted_at IS NOT NULL`).
		WithArgs("lead-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewTrashRepo(db)
	if err := repo.Restore(context.Background(), leadSpec, "owner-1", "lead-1"); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTrashRepo_PermanentDeleteOwnerMismatch(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	// The owner predicate makes a foreign row look like zero rows matched.
	mock.ExpectExec(`DELETE FROM crm_leads WHERE id = \$1 AND owner_id = \$2`).
		WithArgs("lead-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTrashRepo(db)
	err := repo.PermanentDelete(context.Background(), leadSpec, "intruder", "lead-1")
	if !errors.Is(err, trash.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTrashRepo_ListDeleted(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "owner_id", "deleted_at"}).
		AddRow("lead-2", "Beta Corp", "owner-1", now).
		AddRow("lead-1", "Acme Inc", "owner-1", now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT id, name, owner_id, deleted_at\s+FROM crm_leads\s+WHERE owner_id = \$1 AND deleted_at IS NOT NULL`).
		WithArgs("owner-1").
		WillReturnRows(rows)

	repo := NewTrashRepo(db)
	out, err := repo.ListDeleted(context.Background(), leadSpec, "owner-1")
	if err != nil {
		t.Fatalf("ListDeleted() error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].Table != "leads" || out[0].Label != "Beta Corp" {
		t.Errorf("unexpected first record: %+v", out[0])
	}
}

func TestTrashRepo_ListDeletedEmpty(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT id, name, owner_id, deleted_at`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_id", "deleted_at"}))

	repo := NewTrashRepo(db)
	out, err := repo.ListDeleted(context.Background(), leadSpec, "owner-1")
	if err != nil {
		t.Fatalf("ListDeleted() error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty trash, got %d records", len(out))
	}
}
