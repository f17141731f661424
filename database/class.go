package database

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/gofrs/uuid"

	"github.com/safing/objectbase/database/accessor"
	"github.com/safing/objectbase/database/query"
	"github.com/safing/objectbase/database/record"
	"github.com/safing/objectbase/database/storage"
	"github.com/safing/objectbase/formats/dsd"
	"github.com/safing/objectbase/log"
	"github.com/safing/objectbase/utils"
)

// Class is the registered type of a model. It routes queries to both the
// disk and the memory database of the class.
type Class[T Model] struct {
	ctrl      *controller
	schema    *accessor.Schema
	modelType reflect.Type
}

// Register registers the model type T, which must be a pointer to a struct,
// under the given class name. The name is part of every storage key.
func Register[T Model](name string, opts *ClassOptions) (*Class[T], error) {
	var sample T
	typ := reflect.TypeOf(sample)
	if typ == nil || typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidModel, sample)
	}

	schema, err := accessor.NewSchema(sample)
	if err != nil {
		return nil, err
	}

	pather, _ := reflect.New(typ.Elem()).Interface().(DatabasePather)
	ctrl, err := registerController(name, opts, pather)
	if err != nil {
		return nil, err
	}

	return &Class[T]{
		ctrl:      ctrl,
		schema:    schema,
		modelType: typ.Elem(),
	}, nil
}

// MustRegister is like Register, but panics on error.
func MustRegister[T Model](name string, opts *ClassOptions) *Class[T] {
	c, err := Register[T](name, opts)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the class name.
func (c *Class[T]) Name() string {
	return c.ctrl.name
}

// Schema returns the attribute schema of the model type.
func (c *Class[T]) Schema() *accessor.Schema {
	return c.schema
}

// DatabasePath returns the location of the disk database of the class.
func (c *Class[T]) DatabasePath() string {
	return c.ctrl.databasePath()
}

// New returns a new object handle for m. An ID is assigned if m has none.
func (c *Class[T]) New(m T) *Object[T] {
	if m.ObjectID() != "" {
		return c.Wrap(m)
	}

	id, err := newObjectID()
	if err != nil {
		log.Warningf("database: failed to create id for new %s: %s", c.ctrl.name, err)
	} else {
		m.SetObjectID(id)
	}
	return newObject(c, m, stateTransient)
}

// Wrap returns an object handle for m, which might already be archived.
func (c *Class[T]) Wrap(m T) *Object[T] {
	if m.ObjectID() == "" {
		return newObject(c, m, stateTransient)
	}
	return newObject(c, m, stateUnknown)
}

// Get returns the object with the given ID, looking on disk first.
func (c *Class[T]) Get(id string) (*Object[T], error) {
	key := record.NewKey(c.ctrl.name, id)
	if !key.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	for _, inMemory := range []bool{false, true} {
		backend, err := c.ctrl.backend(inMemory)
		if err != nil {
			if errors.Is(err, ErrNotInitialized) {
				continue
			}
			return nil, err
		}

		r, err := backend.Get(key)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			continue
		case err != nil:
			storageErrors(c.ctrl.name, backendName(inMemory)).Inc()
			return nil, fmt.Errorf("%w: failed to get %s: %w", ErrStorageUnavailable, key, err)
		}

		m, err := c.decode(r)
		if err != nil {
			decodeFailures(c.ctrl.name).Inc()
			return nil, err
		}
		o := newObject(c, m, stateOf(inMemory))
		o.inMemoryOnly.SetTo(inMemory)
		return o, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
}

// AllObjects returns all archived objects, disk objects first.
// Storage problems result in fewer or no objects, never in an error.
func (c *Class[T]) AllObjects() []T {
	objects, err := c.Query(query.New())
	if err != nil {
		log.Warningf("database: failed to get all objects of %s: %s", c.ctrl.name, err)
		return []T{}
	}
	return objects
}

// ObjectsWhere returns the archived objects matching the filter expression.
// See query.ParseWhere for the syntax.
func (c *Class[T]) ObjectsWhere(format string, args ...interface{}) ([]T, error) {
	cond, err := query.ParseWhere(format, args...)
	if err != nil {
		return nil, err
	}
	return c.ObjectsWithPredicate(cond)
}

// ObjectsWithPredicate returns the archived objects matching the condition.
func (c *Class[T]) ObjectsWithPredicate(cond query.Condition) ([]T, error) {
	return c.Query(query.New().Where(cond))
}

// Query returns the archived objects matching the query, disk objects
// first. Records that cannot be decoded are skipped.
func (c *Class[T]) Query(q *query.Query) ([]T, error) {
	// shared queries stay untouched
	q, err := q.Copy().Check()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer queryDuration(c.ctrl.name).UpdateDuration(start)
	queries(c.ctrl.name).Inc()

	records := c.ctrl.scan()
	results := make([]T, 0, len(records))
	for _, r := range records {
		m, err := c.decode(r)
		if err != nil {
			log.Warningf("database: skipping record %s: %s", utils.PreviewBytes(r.Data), err)
			decodeFailures(c.ctrl.name).Inc()
			continue
		}

		acc, err := c.schema.Accessor(m)
		if err != nil {
			log.Warningf("database: skipping record %s: %s", r.Key, err)
			continue
		}
		if q.Matches(acc) {
			results = append(results, m)
		}
	}

	from, to := q.Window(len(results))
	return results[from:to], nil
}

// Count returns the number of archived objects.
func (c *Class[T]) Count() int {
	return len(c.ctrl.scan())
}

func (c *Class[T]) decode(r *record.Record) (T, error) {
	m := reflect.New(c.modelType).Interface().(T)
	_, err := dsd.Load(r.Data, m)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w %s: %w", ErrDecodeFailure, r.Key, err)
	}

	if m.ObjectID() == "" {
		m.SetObjectID(r.Key.ID)
	}
	return m, nil
}

func newObjectID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
