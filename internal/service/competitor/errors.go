package competitor

import "errors"

// Sentinel errors for the competitor service layer.
var (
	ErrNotFound     = errors.New("competitor not found")
	ErrInvalidInput = errors.New("invalid competitor input")
)
