package store

import (
	"testing"

	"github.com/anyswap/CrossChain-Swaps/leveldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *leveldb.Database {
	db, err := leveldb.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func collect(t *testing.T, s KVStore, prefix string) map[string]string {
	res := make(map[string]string)
	var order []string
	err := s.Iterate([]byte(prefix), func(key, value []byte) bool {
		res[string(key)] = string(value)
		order = append(order, string(key))
		return true
	})
	require.NoError(t, err)
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1], order[i], "keys must be ascending")
	}
	return res
}

func TestCacheStoreIsolation(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Put([]byte("p/a"), []byte("1")))

	s := NewCacheStore(db)
	require.NoError(t, s.Put([]byte("p/b"), []byte("2")))
	require.NoError(t, s.Delete([]byte("p/a")))

	_, err := s.Get([]byte("p/a"))
	assert.Equal(t, ErrNotFound, err)
	val, err := s.Get([]byte("p/b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)

	has, err := db.Has([]byte("p/b"))
	require.NoError(t, err)
	assert.False(t, has, "parent must not see uncommitted writes")

	assert.Equal(t, map[string]string{"p/b": "2"}, collect(t, s, "p/"))
}

func TestCacheStoreWrite(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Put([]byte("p/a"), []byte("1")))

	s := NewCacheStore(db)
	require.NoError(t, s.Put([]byte("p/c"), []byte("3")))
	require.NoError(t, s.Delete([]byte("p/a")))
	assert.Equal(t, 2, s.Dirty())
	require.NoError(t, s.Write())
	assert.Equal(t, 0, s.Dirty())

	fresh := NewCacheStore(db)
	assert.Equal(t, map[string]string{"p/c": "3"}, collect(t, fresh, "p/"))
}

func TestCacheStoreDiscard(t *testing.T) {
	db := newTestDB(t)
	s := NewCacheStore(db)
	require.NoError(t, s.Put([]byte("k"), []byte("v")))
	s.Discard()
	require.NoError(t, s.Write())

	has, err := db.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCacheStoreIterateStop(t *testing.T) {
	db := newTestDB(t)
	s := NewCacheStore(db)
	for _, k := range []string{"x/1", "x/2", "x/3"} {
		require.NoError(t, s.Put([]byte(k), []byte(k)))
	}
	count := 0
	require.NoError(t, s.Iterate([]byte("x/"), func(key, value []byte) bool {
		count++
		return count < 2
	}))
	assert.Equal(t, 2, count)
}

func TestCacheStoreMergedIterate(t *testing.T) {
	db := newTestDB(t)
	for _, k := range []string{"m/1", "m/3", "m/5", "n/1"} {
		require.NoError(t, db.Put([]byte(k), []byte("parent")))
	}

	s := NewCacheStore(db)
	require.NoError(t, s.Put([]byte("m/2"), []byte("cache")))
	require.NoError(t, s.Put([]byte("m/3"), []byte("cache")))
	require.NoError(t, s.Delete([]byte("m/5")))
	require.NoError(t, s.Delete([]byte("m/4")))
	require.NoError(t, s.Put([]byte("m/4"), []byte("again")))
	require.NoError(t, s.Put([]byte("m/1"), []byte("cache")))
	require.NoError(t, s.Delete([]byte("m/1")))

	assert.Equal(t, map[string]string{
		"m/2": "cache",
		"m/3": "cache",
		"m/4": "again",
	}, collect(t, s, "m/"))

	has, err := s.Has([]byte("m/1"))
	require.NoError(t, err)
	assert.False(t, has)
	has, err = s.Has([]byte("m/4"))
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, 5, s.Dirty())

	require.NoError(t, s.Write())
	assert.Equal(t, map[string]string{
		"m/2": "cache",
		"m/3": "cache",
		"m/4": "again",
	}, collect(t, NewCacheStore(db), "m/"))
	assert.Equal(t, map[string]string{"n/1": "parent"}, collect(t, NewCacheStore(db), "n/"))
}
