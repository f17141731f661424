package database

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tevino/abool"

	"github.com/safing/objectbase/database/record"
	"github.com/safing/objectbase/database/storage"
	"github.com/safing/objectbase/formats/dsd"
	"github.com/safing/objectbase/log"
)

// ArchiveOption defines when an object is archived.
type ArchiveOption uint8

// Archive options.
const (
	// ArchiveManual only archives on Archive calls.
	ArchiveManual ArchiveOption = iota
	// ArchiveOnClose also archives once when the object is closed.
	ArchiveOnClose
)

func (ao ArchiveOption) String() string {
	switch ao {
	case ArchiveManual:
		return "manual"
	case ArchiveOnClose:
		return "on-close"
	default:
		return "unknown"
	}
}

type objectState uint8

const (
	stateTransient objectState = iota // not archived by this handle
	stateUnknown                      // might be archived anywhere
	stateDisk
	stateMemory
)

func stateOf(inMemory bool) objectState {
	if inMemory {
		return stateMemory
	}
	return stateDisk
}

func backendName(inMemory bool) string {
	if inMemory {
		return backendMemory
	}
	return backendDisk
}

// Object controls the persistence of a single model object.
// The database only keeps serialized copies, the model stays owned by the
// application.
type Object[T Model] struct {
	class *Class[T]
	model T

	lock          sync.Mutex
	state         objectState
	archiveOption ArchiveOption
	inMemoryOnly  *abool.AtomicBool

	closeOnce sync.Once
	closeErr  error
}

func newObject[T Model](class *Class[T], m T, state objectState) *Object[T] {
	return &Object[T]{
		class:        class,
		model:        m,
		state:        state,
		inMemoryOnly: abool.New(),
	}
}

// Model returns the model object.
func (o *Object[T]) Model() T {
	return o.model
}

// Key returns the storage key of the object.
func (o *Object[T]) Key() record.Key {
	return record.NewKey(o.class.ctrl.name, o.model.ObjectID())
}

// SetInMemoryOnly sets whether future archives go to the memory database
// instead of the disk database.
func (o *Object[T]) SetInMemoryOnly(inMemoryOnly bool) {
	o.inMemoryOnly.SetTo(inMemoryOnly)
}

// InMemoryOnly returns whether the object is archived to memory.
func (o *Object[T]) InMemoryOnly() bool {
	return o.inMemoryOnly.IsSet()
}

// SetArchiveOption sets when the object is archived.
func (o *Object[T]) SetArchiveOption(option ArchiveOption) {
	o.lock.Lock()
	defer o.lock.Unlock()

	o.archiveOption = option
}

// ArchiveOption returns when the object is archived.
func (o *Object[T]) ArchiveOption() ArchiveOption {
	o.lock.Lock()
	defer o.lock.Unlock()

	return o.archiveOption
}

// IsArchived returns whether this handle knows the object to be archived.
func (o *Object[T]) IsArchived() bool {
	o.lock.Lock()
	defer o.lock.Unlock()

	return o.state == stateDisk || o.state == stateMemory
}

// Archive writes the current state of the object to the memory database if
// it is in-memory-only, or to the disk database otherwise. A copy in the
// other database is removed.
func (o *Object[T]) Archive() error {
	o.lock.Lock()
	defer o.lock.Unlock()

	ctrl := o.class.ctrl
	if o.model.ObjectID() == "" {
		id, err := newObjectID()
		if err != nil {
			return fmt.Errorf("database: failed to create id for %s: %w", ctrl.name, err)
		}
		o.model.SetObjectID(id)
		o.state = stateTransient
	}
	key := o.Key()

	data, err := dsd.Dump(o.model, ctrl.format())
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrEncodeFailure, key, err)
	}
	r := record.New(key, data)

	inMemory := o.inMemoryOnly.IsSet()
	target, err := ctrl.backend(inMemory)
	if err != nil {
		return err
	}

	err = target.Put(r)
	if err != nil {
		log.Warningf("database: failed to archive %s to %s, retrying: %s", key, backendName(inMemory), err)
		err = target.Put(r)
	}
	if err != nil {
		storageErrors(ctrl.name, backendName(inMemory)).Inc()
		return fmt.Errorf("%w: failed to archive %s to %s: %w", ErrStorageUnavailable, key, backendName(inMemory), err)
	}
	archives(ctrl.name, backendName(inMemory)).Inc()

	// remove the copy in the other database
	err = o.removeStaleCopy(!inMemory, key)
	if err != nil {
		o.state = stateUnknown
		return fmt.Errorf("archived %s to %s, but failed to remove the old copy: %w", key, backendName(inMemory), err)
	}

	o.state = stateOf(inMemory)
	return nil
}

// Delete removes the object from the database that holds it.
// Deleting an object that was never archived is a no-op.
func (o *Object[T]) Delete() error {
	o.lock.Lock()
	defer o.lock.Unlock()

	if o.model.ObjectID() == "" {
		return nil
	}
	key := o.Key()

	switch o.state {
	case stateTransient:
		return nil

	case stateDisk, stateMemory:
		err := o.deleteFrom(o.state == stateMemory, key)
		if err != nil {
			return err
		}

	case stateUnknown:
		// look in the database selected by the flag first
		first := o.inMemoryOnly.IsSet()
		for _, inMemory := range []bool{first, !first} {
			found, err := o.has(inMemory, key)
			if errors.Is(err, ErrNotInitialized) {
				continue
			}
			if err != nil {
				return err
			}
			if found {
				err = o.deleteFrom(inMemory, key)
				if err != nil {
					return err
				}
				break
			}
		}
	}

	o.state = stateTransient
	return nil
}

// Close runs the automatic archive if the archive option is ArchiveOnClose.
// It only does so once, further calls return the first result. Errors are
// logged and returned.
func (o *Object[T]) Close() error {
	o.closeOnce.Do(func() {
		if o.ArchiveOption() != ArchiveOnClose {
			return
		}

		err := o.Archive()
		if err != nil {
			log.Errorf("database: failed to archive %s on close: %s", o.Key(), err)
			o.closeErr = err
		}
	})
	return o.closeErr
}

func (o *Object[T]) removeStaleCopy(inMemory bool, key record.Key) error {
	switch o.state {
	case stateOf(inMemory):
		return o.deleteFrom(inMemory, key)
	case stateUnknown:
		found, err := o.has(inMemory, key)
		switch {
		case errors.Is(err, ErrNotInitialized):
			log.Tracef("database: cannot check %s for a stale copy of %s: %s", backendName(inMemory), key, err)
			return nil
		case err != nil:
			return err
		case found:
			return o.deleteFrom(inMemory, key)
		}
	}
	return nil
}

func (o *Object[T]) has(inMemory bool, key record.Key) (found bool, err error) {
	backend, err := o.class.ctrl.backend(inMemory)
	if err != nil {
		return false, err
	}

	_, err = backend.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	default:
		storageErrors(o.class.ctrl.name, backendName(inMemory)).Inc()
		return false, fmt.Errorf("%w: failed to look up %s in %s: %w", ErrStorageUnavailable, key, backendName(inMemory), err)
	}
}

func (o *Object[T]) deleteFrom(inMemory bool, key record.Key) error {
	ctrl := o.class.ctrl
	backend, err := ctrl.backend(inMemory)
	if err != nil {
		return err
	}

	err = backend.Delete(key)
	if err != nil {
		storageErrors(ctrl.name, backendName(inMemory)).Inc()
		return fmt.Errorf("%w: failed to delete %s from %s: %w", ErrStorageUnavailable, key, backendName(inMemory), err)
	}
	deletes(ctrl.name, backendName(inMemory)).Inc()
	return nil
}
