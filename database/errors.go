package database

import (
	"errors"
)

// Errors.
var (
	ErrNotFound           = errors.New("database entry not found")
	ErrNotInitialized     = errors.New("database not initialized")
	ErrInitialized        = errors.New("database already initialized")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDecodeFailure      = errors.New("failed to decode record")
	ErrEncodeFailure      = errors.New("failed to encode object")
	ErrInvalidStorageType = errors.New("invalid database storage type")
	ErrClassRegistered    = errors.New("class already registered")
	ErrClassNotRegistered = errors.New("class not registered")
	ErrInvalidClassName   = errors.New("class name must only contain alphanumeric and `_-` characters")
	ErrInvalidModel       = errors.New("model must be a pointer to a struct")
)
