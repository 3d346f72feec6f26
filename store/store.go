// Package store provides the transactional key-value view each invocation
// of the swaps contract runs against.
package store

import (
	"bytes"
	"errors"

	"github.com/anyswap/CrossChain-Swaps/leveldb"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// ErrNotFound is returned by Get if the key does not exist.
var ErrNotFound = errors.New("store: key not found")

const initialCacheCapacity = 4 * 1024

// KVStore is the state interface used by the contract.
type KVStore interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	// Iterate calls fn in ascending key order for every key with prefix.
	// Iteration stops early if fn returns false.
	Iterate(prefix []byte, fn func(key, value []byte) bool) error
}

// CacheStore buffers all writes in memory on top of a parent database.
// Nothing reaches the parent until Write is called, so a failed invocation
// only needs to drop the cache.
//
// A key is either in writes or in deletes, never in both.
type CacheStore struct {
	parent  leveldb.KeyValueStore
	writes  *memdb.DB
	deletes *memdb.DB
}

var _ KVStore = (*CacheStore)(nil)

// NewCacheStore new cache store over parent
func NewCacheStore(parent leveldb.KeyValueStore) *CacheStore {
	return &CacheStore{
		parent:  parent,
		writes:  memdb.New(comparer.DefaultComparer, initialCacheCapacity),
		deletes: memdb.New(comparer.DefaultComparer, 0),
	}
}

func cloneBytes(b []byte) []byte {
	return append([]byte{}, b...)
}

// Get get value, returns ErrNotFound if not exist
func (s *CacheStore) Get(key []byte) ([]byte, error) {
	if s.deletes.Contains(key) {
		return nil, ErrNotFound
	}
	if val, err := s.writes.Get(key); err == nil {
		return cloneBytes(val), nil
	}
	val, err := s.parent.Get(key)
	if err != nil {
		if leveldb.IsNotFoundErr(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

// Has check key exist
func (s *CacheStore) Has(key []byte) (bool, error) {
	if s.deletes.Contains(key) {
		return false, nil
	}
	if s.writes.Contains(key) {
		return true, nil
	}
	return s.parent.Has(key)
}

// Put set value of key
func (s *CacheStore) Put(key, value []byte) error {
	_ = s.deletes.Delete(key)
	return s.writes.Put(key, value)
}

// Delete delete key
func (s *CacheStore) Delete(key []byte) error {
	_ = s.writes.Delete(key)
	return s.deletes.Put(key, nil)
}

// Iterate iterate keys with prefix, merged view of parent and cache
func (s *CacheStore) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	parent := s.parent.NewIterator(prefix, nil)
	defer parent.Release()
	dirty := s.writes.NewIterator(util.BytesPrefix(prefix))
	defer dirty.Release()

	hasParent, hasDirty := parent.Next(), dirty.Next()
	for hasParent || hasDirty {
		var key, value []byte
		cmp := 1
		if hasParent && hasDirty {
			cmp = bytes.Compare(parent.Key(), dirty.Key())
		} else if hasParent {
			cmp = -1
		}
		switch {
		case cmp < 0:
			key, value = cloneBytes(parent.Key()), cloneBytes(parent.Value())
			hasParent = parent.Next()
			if s.deletes.Contains(key) {
				continue
			}
		case cmp == 0:
			key, value = cloneBytes(dirty.Key()), cloneBytes(dirty.Value())
			hasParent, hasDirty = parent.Next(), dirty.Next()
		default:
			key, value = cloneBytes(dirty.Key()), cloneBytes(dirty.Value())
			hasDirty = dirty.Next()
		}
		if !fn(key, value) {
			break
		}
	}
	if err := parent.Error(); err != nil {
		return err
	}
	return dirty.Error()
}

// Dirty returns the number of buffered writes
func (s *CacheStore) Dirty() int {
	return s.writes.Len() + s.deletes.Len()
}

// Write commits all buffered writes to parent in one batch
func (s *CacheStore) Write() error {
	if s.Dirty() == 0 {
		return nil
	}
	batch := s.parent.NewBatch()
	it := s.deletes.NewIterator(nil)
	for it.Next() {
		if err := batch.Delete(it.Key()); err != nil {
			it.Release()
			return err
		}
	}
	it.Release()
	it = s.writes.NewIterator(nil)
	for it.Next() {
		if err := batch.Put(it.Key(), it.Value()); err != nil {
			it.Release()
			return err
		}
	}
	it.Release()
	if err := batch.Write(); err != nil {
		return err
	}
	s.Discard()
	return nil
}

// Discard drops all buffered writes
func (s *CacheStore) Discard() {
	s.writes.Reset()
	s.deletes.Reset()
}
