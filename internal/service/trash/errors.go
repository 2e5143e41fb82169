package trash

import "errors"

// Sentinel errors for the trash service layer.
var (
	ErrNotFound     = errors.New("record not found")
	ErrUnknownTable = errors.New("table not in soft-delete registry")
)
