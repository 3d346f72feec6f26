package leveldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDatabase(t *testing.T) {
	db, err := NewMemory()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("a/1"), []byte("one")))
	require.NoError(t, db.Put([]byte("a/2"), []byte("two")))
	require.NoError(t, db.Put([]byte("b/1"), []byte("other")))

	val, err := db.Get([]byte("a/1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), val)

	_, err = db.Get([]byte("missing"))
	assert.True(t, IsNotFoundErr(err))

	it := db.NewIterator([]byte("a/"), nil)
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Release()
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"a/1", "a/2"}, keys)
}

func TestBatchWrite(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "state"), 0, 0, false)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("gone"), []byte("x")))

	b := db.NewBatch()
	require.NoError(t, b.Put([]byte("k"), []byte("v")))
	require.NoError(t, b.Delete([]byte("gone")))

	has, err := db.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has, "batch must not be visible before write")

	require.NoError(t, b.Write())
	has, err = db.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)
	has, err = db.Has([]byte("gone"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestIteratorStart(t *testing.T) {
	db, err := NewMemory()
	require.NoError(t, err)
	defer db.Close()

	for _, k := range []string{"p/1", "p/2", "p/3", "q/1"} {
		require.NoError(t, db.Put([]byte(k), []byte(k)))
	}
	it := db.NewIterator([]byte("p/"), []byte("2"))
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"p/2", "p/3"}, keys)
}
