package bbolt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/safing/objectbase/database/record"
	"github.com/safing/objectbase/database/storage"
	"github.com/safing/objectbase/utils"
)

// BBolt database made pluggable for objectbase.
// Records are kept in a bucket named after the class.
type BBolt struct {
	name     string
	bucket   []byte
	db       *bbolt.DB
	readOnly bool
}

func init() {
	_ = storage.Register("bbolt", NewBBolt)
}

// NewBBolt opens/creates a bbolt database file at location.
// In read-only mode the file must already exist.
func NewBBolt(name, location string, opts *storage.Options) (storage.Interface, error) {
	if name == "" || location == "" {
		return nil, errors.New("bbolt: name and location are required")
	}
	readOnly := opts != nil && opts.ReadOnly

	if !readOnly {
		err := os.MkdirAll(filepath.Dir(location), 0o0700)
		if err != nil {
			return nil, fmt.Errorf("bbolt: failed to create directory for %s: %w", location, err)
		}
	}

	db, err := bbolt.Open(location, 0o600, &bbolt.Options{
		Timeout:  5 * time.Second,
		ReadOnly: readOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("bbolt: failed to open %s: %w", location, err)
	}

	// Create bucket
	bucket := []byte(name)
	if !readOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucket)
			return err
		})
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &BBolt{
		name:     name,
		bucket:   bucket,
		db:       db,
		readOnly: readOnly,
	}, nil
}

func (b *BBolt) checkKey(key record.Key) error {
	if !key.Valid() || key.Class != b.name {
		return fmt.Errorf("bbolt: %w: %s does not belong to %s", storage.ErrInvalidKey, key, b.name)
	}
	return nil
}

// Get returns a database record.
func (b *BBolt) Get(key record.Key) (*record.Record, error) {
	if err := b.checkKey(key); err != nil {
		return nil, err
	}

	var r *record.Record
	err := b.db.View(func(tx *bbolt.Tx) error {
		// get value from db
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return storage.ErrNotFound
		}
		value := bucket.Get([]byte(key.ID))
		if value == nil {
			return storage.ErrNotFound
		}

		// values are only valid during the transaction
		r = record.New(key, utils.DuplicateBytes(value))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Put stores a record in the database.
func (b *BBolt) Put(r *record.Record) error {
	if err := b.checkKey(r.Key); err != nil {
		return err
	}
	if b.readOnly {
		return storage.ErrReadOnly
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(r.Key.ID), r.Data)
	})
}

// Delete deletes a record from the database.
func (b *BBolt) Delete(key record.Key) error {
	if err := b.checkKey(key); err != nil {
		return err
	}
	if b.readOnly {
		return storage.ErrReadOnly
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(b.bucket).Delete([]byte(key.ID))
	})
}

// Scan returns a snapshot of all records in key order.
func (b *BBolt) Scan() ([]*record.Record, error) {
	var records []*record.Record

	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			// nothing was ever written
			return nil
		}

		// Iterate over items in sorted key order.
		c := bucket.Cursor()
		for key, value := c.First(); key != nil; key, value = c.Next() {
			records = append(records, record.New(
				record.NewKey(b.name, string(key)),
				utils.DuplicateBytes(value),
			))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Shutdown shuts down the database.
func (b *BBolt) Shutdown() error {
	return b.db.Close()
}
