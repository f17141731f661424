package hashmap

import (
	"fmt"
	"sync"

	"github.com/armon/go-radix"

	"github.com/safing/objectbase/database/record"
	"github.com/safing/objectbase/database/storage"
)

// table holds the records of one class for the lifetime of the process.
type table struct {
	lock sync.RWMutex
	tree *radix.Tree
}

var (
	tables     = make(map[string]*table)
	tablesLock sync.Mutex
)

// HashMap storage. All HashMap instances of the same name share one
// process-wide table, which outlives Shutdown.
type HashMap struct {
	name  string
	table *table
}

func init() {
	_ = storage.Register("hashmap", NewHashMap)
}

// NewHashMap returns the memory database of the given class. The location is ignored.
func NewHashMap(name, _ string, _ *storage.Options) (storage.Interface, error) {
	if name == "" {
		return nil, fmt.Errorf("hashmap: %w: empty table name", storage.ErrInvalidKey)
	}

	tablesLock.Lock()
	defer tablesLock.Unlock()

	t, ok := tables[name]
	if !ok {
		t = &table{tree: radix.New()}
		tables[name] = t
	}

	return &HashMap{
		name:  name,
		table: t,
	}, nil
}

func (hm *HashMap) checkKey(key record.Key) error {
	if !key.Valid() || key.Class != hm.name {
		return fmt.Errorf("hashmap: %w: %s does not belong to %s", storage.ErrInvalidKey, key, hm.name)
	}
	return nil
}

// Get returns a database record.
func (hm *HashMap) Get(key record.Key) (*record.Record, error) {
	if err := hm.checkKey(key); err != nil {
		return nil, err
	}

	hm.table.lock.RLock()
	defer hm.table.lock.RUnlock()

	v, ok := hm.table.tree.Get(key.ID)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return record.New(key, v.([]byte)).Copy(), nil
}

// Put stores a record in the database.
func (hm *HashMap) Put(r *record.Record) error {
	if err := hm.checkKey(r.Key); err != nil {
		return err
	}
	data := r.Copy().Data

	hm.table.lock.Lock()
	defer hm.table.lock.Unlock()

	hm.table.tree.Insert(r.Key.ID, data)
	return nil
}

// Delete deletes a record from the database.
func (hm *HashMap) Delete(key record.Key) error {
	if err := hm.checkKey(key); err != nil {
		return err
	}

	hm.table.lock.Lock()
	defer hm.table.lock.Unlock()

	hm.table.tree.Delete(key.ID)
	return nil
}

// Scan returns a snapshot of all records in key order.
func (hm *HashMap) Scan() ([]*record.Record, error) {
	hm.table.lock.RLock()
	defer hm.table.lock.RUnlock()

	records := make([]*record.Record, 0, hm.table.tree.Len())
	hm.table.tree.Walk(func(id string, v interface{}) bool {
		records = append(records, record.New(record.NewKey(hm.name, id), v.([]byte)).Copy())
		return false
	})
	return records, nil
}

// Len returns the number of records in the table.
func (hm *HashMap) Len() int {
	hm.table.lock.RLock()
	defer hm.table.lock.RUnlock()

	return hm.table.tree.Len()
}

// Shutdown shuts down the database. The table stays in memory.
func (hm *HashMap) Shutdown() error {
	return nil
}
