package recommendation

import "errors"

// Sentinel errors for the recommendation service layer.
var (
	ErrNotFound      = errors.New("recommendation not found")
	ErrInvalidInput  = errors.New("invalid recommendation input")
	ErrInvalidStatus = errors.New("invalid status transition")
)
