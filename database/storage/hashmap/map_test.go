package hashmap

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/objectbase/database/record"
	"github.com/safing/objectbase/database/storage"
)

func TestHashMap(t *testing.T) {
	t.Parallel()

	db, err := NewHashMap("test", "", nil)
	require.NoError(t, err)

	key := record.NewKey("test", "A")
	data := []byte("banana")

	// put record
	err = db.Put(record.New(key, data))
	require.NoError(t, err)
	data[0] = 'B'

	// get record
	r, err := db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "banana", string(r.Data), "stored blob must be a copy")
	r.Data[0] = 'X'
	r, err = db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "banana", string(r.Data), "returned blob must be a copy")

	// overwrite
	require.NoError(t, db.Put(record.New(key, []byte("cherry"))))
	r, err = db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "cherry", string(r.Data))

	// wrong class
	err = db.Put(record.New(record.NewKey("other", "A"), data))
	assert.ErrorIs(t, err, storage.ErrInvalidKey)

	// delete
	require.NoError(t, db.Delete(key))
	require.NoError(t, db.Delete(key), "deleting an absent key")
	_, err = db.Get(key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, db.Shutdown())
}

func TestSharedTable(t *testing.T) {
	t.Parallel()

	a, err := storage.StartDatabase("shared", "hashmap", "", nil)
	require.NoError(t, err)
	key := record.NewKey("shared", "1")
	require.NoError(t, a.Put(record.New(key, []byte("x"))))
	require.NoError(t, a.Shutdown())

	b, err := NewHashMap("shared", "", nil)
	require.NoError(t, err)
	r, err := b.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "x", string(r.Data))
}

func TestScan(t *testing.T) {
	t.Parallel()

	db, err := NewHashMap("scan", "", nil)
	require.NoError(t, err)

	records, err := db.Scan()
	require.NoError(t, err)
	assert.Empty(t, records)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, db.Put(record.New(record.NewKey("scan", fmt.Sprintf("%02d", i)), []byte{byte(i)})))
			_, err := db.Scan()
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	records, err = db.Scan()
	require.NoError(t, err)
	require.Len(t, records, 50)
	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("scan:%02d", i), r.Key.String())
		assert.Equal(t, []byte{byte(i)}, r.Data)
	}
	assert.Equal(t, 50, db.(*HashMap).Len())
}
