package crm

import "errors"

// Sentinel errors for the crm service layer.
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)
