// Package trash implements the soft-delete lifecycle over a fixed registry
// of tables.
//
// Records are never hard-deleted by normal UI actions: deletion sets a
// deleted_at timestamp, restore clears it, and only an explicit purge removes
// the row. The trash view is the union of soft-deleted rows across every
// registered table for one owner, newest deletion first.
//
// Only tables present in the registry are reachable through this package;
// unknown logical names are rejected before any query is issued.
package trash
