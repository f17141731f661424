package badger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/objectbase/database/record"
	"github.com/safing/objectbase/database/storage"
)

func TestBadger(t *testing.T) {
	t.Parallel()

	testDir := t.TempDir()
	db, err := storage.StartDatabase("test", "badger", testDir, nil)
	require.NoError(t, err)

	a := record.NewKey("test", "A")
	b := record.NewKey("test", "B")

	// put records
	require.NoError(t, db.Put(record.New(b, []byte("banana"))))
	require.NoError(t, db.Put(record.New(a, []byte("apple"))))

	// get record
	r, err := db.Get(a)
	require.NoError(t, err)
	assert.Equal(t, "apple", string(r.Data))

	// scan
	records, err := db.Scan()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, a, records[0].Key)
	assert.Equal(t, b, records[1].Key)

	// delete
	require.NoError(t, db.Delete(a))
	_, err = db.Get(a)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// maintenance
	var _ storage.Maintainer = &Badger{}
	require.NoError(t, db.(storage.Maintainer).Maintain())

	// reopen
	require.NoError(t, db.Shutdown())
	db, err = NewBadger("test", testDir, nil)
	require.NoError(t, err)
	r, err = db.Get(b)
	require.NoError(t, err)
	assert.Equal(t, "banana", string(r.Data))
	require.NoError(t, db.Shutdown())
}

func TestBadgerReadOnly(t *testing.T) {
	t.Parallel()

	testDir := t.TempDir()
	readOnly := &storage.Options{ReadOnly: true}

	// a missing directory is not created
	missing := filepath.Join(testDir, "missing")
	_, err := NewBadger("test", missing, readOnly)
	require.Error(t, err)
	assert.NoDirExists(t, missing)

	location := filepath.Join(testDir, "test")
	db, err := NewBadger("test", location, nil)
	require.NoError(t, err)
	a := record.NewKey("test", "A")
	require.NoError(t, db.Put(record.New(a, []byte("apple"))))
	require.NoError(t, db.Shutdown())

	db, err = NewBadger("test", location, readOnly)
	require.NoError(t, err)
	records, err := db.Scan()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "apple", string(records[0].Data))
	assert.ErrorIs(t, db.Put(record.New(a, []byte("apricot"))), storage.ErrReadOnly)
	assert.ErrorIs(t, db.Delete(a), storage.ErrReadOnly)
	require.NoError(t, db.(storage.Maintainer).Maintain())
	require.NoError(t, db.Shutdown())
}
