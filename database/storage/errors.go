package storage

import "errors"

// Errors for storages.
var (
	ErrNotFound       = errors.New("storage entry not found")
	ErrUnknownStorage = errors.New("unknown storage type")
	ErrInvalidKey     = errors.New("invalid key")
	ErrReadOnly       = errors.New("storage is read-only")
)
