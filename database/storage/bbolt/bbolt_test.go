package bbolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/objectbase/database/record"
	"github.com/safing/objectbase/database/storage"
)

func TestBBolt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "databases", "test.bbolt")
	db, err := storage.StartDatabase("test", "bbolt", path, nil)
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
	assert.Equal(t, "banana", string(records[1].Data))

	// wrong class
	err = db.Put(record.New(record.NewKey("other", "A"), nil))
	assert.ErrorIs(t, err, storage.ErrInvalidKey)

	// delete
	require.NoError(t, db.Delete(a))
	require.NoError(t, db.Delete(a))
	_, err = db.Get(a)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// reopen
	require.NoError(t, db.Shutdown())
	db, err = NewBBolt("test", path, nil)
	require.NoError(t, err)
	r, err = db.Get(b)
	require.NoError(t, err)
	assert.Equal(t, "banana", string(r.Data))
	require.NoError(t, db.Shutdown())
}

func TestBBoltReadOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	readOnly := &storage.Options{ReadOnly: true}

	// a missing file is not created
	missing := filepath.Join(dir, "missing", "test.bbolt")
	_, err := NewBBolt("test", missing, readOnly)
	require.Error(t, err)
	assert.NoFileExists(t, missing)
	assert.NoDirExists(t, filepath.Dir(missing))

	path := filepath.Join(dir, "test.bbolt")
	db, err := NewBBolt("test", path, nil)
	require.NoError(t, err)
	a := record.NewKey("test", "A")
	require.NoError(t, db.Put(record.New(a, []byte("apple"))))
	require.NoError(t, db.Shutdown())

	db, err = NewBBolt("test", path, readOnly)
	require.NoError(t, err)
	r, err := db.Get(a)
	require.NoError(t, err)
	assert.Equal(t, "apple", string(r.Data))
	assert.ErrorIs(t, db.Put(record.New(a, []byte("apricot"))), storage.ErrReadOnly)
	assert.ErrorIs(t, db.Delete(a), storage.ErrReadOnly)
	require.NoError(t, db.Shutdown())

	// a class without a bucket reads as empty
	other, err := NewBBolt("other", path, readOnly)
	require.NoError(t, err)
	records, err := other.Scan()
	require.NoError(t, err)
	assert.Empty(t, records)
	_, err = other.Get(record.NewKey("other", "A"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, other.Shutdown())
}
