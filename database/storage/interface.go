package storage

import (
	"github.com/safing/objectbase/database/record"
	"github.com/safing/objectbase/formats/dsd"
)

// Interface defines the database storage API. Every backend holds the
// records of exactly one class.
type Interface interface {
	// Get returns the record with the given key or ErrNotFound.
	Get(key record.Key) (*record.Record, error)
	// Put creates or replaces the record.
	Put(r *record.Record) error
	// Delete removes the record. Deleting an absent key is not an error.
	Delete(key record.Key) error
	// Scan returns a consistent snapshot of all records, ordered by key.
	Scan() ([]*record.Record, error)
	// Shutdown releases the resources of the backend.
	Shutdown() error
}

// Maintainer is implemented by backends that need periodic housekeeping,
// like garbage collection of value logs.
type Maintainer interface {
	Maintain() error
}

// Options holds backend settings that are not part of the location.
type Options struct {
	// Format is the serialization format of table files.
	Format dsd.SerializationFormat
	// Compress enables GZIP compression of table files.
	Compress bool
	// ReadOnly opens the backend without creating or changing anything.
	// Writes fail with ErrReadOnly.
	ReadOnly bool
}
