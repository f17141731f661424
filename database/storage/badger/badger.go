package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger"

	"github.com/safing/objectbase/database/record"
	"github.com/safing/objectbase/database/storage"
	"github.com/safing/objectbase/log"
)

// Badger database made pluggable for objectbase.
// Every class gets its own badger directory.
type Badger struct {
	name     string
	db       *badger.DB
	readOnly bool
}

func init() {
	_ = storage.Register("badger", NewBadger)
}

// NewBadger opens/creates a badger database in the location directory.
// In read-only mode the directory must already exist.
func NewBadger(name, location string, storageOpts *storage.Options) (storage.Interface, error) {
	if name == "" || location == "" {
		return nil, errors.New("badger: name and location are required")
	}
	readOnly := storageOpts != nil && storageOpts.ReadOnly

	opts := badger.DefaultOptions(location).
		WithLogger(&logger{name: name}).
		WithReadOnly(readOnly)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: failed to open %s: %w", location, err)
	}

	return &Badger{
		name:     name,
		db:       db,
		readOnly: readOnly,
	}, nil
}

func (b *Badger) checkKey(key record.Key) error {
	if !key.Valid() || key.Class != b.name {
		return fmt.Errorf("badger: %w: %s does not belong to %s", storage.ErrInvalidKey, key, b.name)
	}
	return nil
}

// Get returns a database record.
func (b *Badger) Get(key record.Key) (*record.Record, error) {
	if err := b.checkKey(key); err != nil {
		return nil, err
	}

	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.ID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if item.IsDeletedOrExpired() {
			return storage.ErrNotFound
		}

		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record.New(key, data), nil
}

// Put stores a record in the database.
func (b *Badger) Put(r *record.Record) error {
	if err := b.checkKey(r.Key); err != nil {
		return err
	}
	if b.readOnly {
		return storage.ErrReadOnly
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(r.Key.ID), r.Data)
	})
}

// Delete deletes a record from the database.
func (b *Badger) Delete(key record.Key) error {
	if err := b.checkKey(key); err != nil {
		return err
	}
	if b.readOnly {
		return storage.ErrReadOnly
	}

	return b.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key.ID))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
}

// Scan returns a snapshot of all records in key order.
func (b *Badger) Scan() ([]*record.Record, error) {
	var records []*record.Record

	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if item.IsDeletedOrExpired() {
				continue
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			records = append(records, record.New(
				record.NewKey(b.name, string(item.KeyCopy(nil))),
				data,
			))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Maintain runs a light maintenance operation on the database.
func (b *Badger) Maintain() error {
	if b.readOnly {
		return nil
	}

	err := b.db.RunValueLogGC(0.7)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return err
	}
	return nil
}

// Shutdown shuts down the database.
func (b *Badger) Shutdown() error {
	return b.db.Close()
}

// logger routes badger logs to the objectbase logger.
type logger struct {
	name string
}

func (l *logger) Errorf(format string, args ...interface{}) {
	log.Errorf("badger/%s: "+format, append([]interface{}{l.name}, args...)...)
}

func (l *logger) Warningf(format string, args ...interface{}) {
	log.Warningf("badger/%s: "+format, append([]interface{}{l.name}, args...)...)
}

func (l *logger) Infof(format string, args ...interface{}) {
	log.Debugf("badger/%s: "+format, append([]interface{}{l.name}, args...)...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	log.Tracef("badger/%s: "+format, append([]interface{}{l.name}, args...)...)
}
