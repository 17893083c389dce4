package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidInput     = errors.New("INVALID_INPUT")
	ErrNotFound         = errors.New("NOT_FOUND")
	ErrStoreUnavailable = errors.New("STORE_UNAVAILABLE")
	ErrInvalidToken     = errors.New("INVALID_TOKEN")
)
