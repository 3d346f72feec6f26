// Package leveldb keeps the swaps state in goleveldb.
package leveldb

import (
	"errors"

	"github.com/anyswap/CrossChain-Swaps/log"
	goleveldb "github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// lower bounds of the cache (MB) and open files handed to goleveldb
const (
	minCache   = 16
	minHandles = 16
)

var _ KeyValueStore = (*Database)(nil)

// IsNotFoundErr is err 'ErrNotFound'
func IsNotFoundErr(err error) bool {
	return errors.Is(err, dberrors.ErrNotFound)
}

// Database the state database
type Database struct {
	lvldb *goleveldb.DB
}

// New open the state database at path.
// cache is in MB, both cache and handles are raised to their minimum.
func New(path string, cache, handles int, readonly bool) (*Database, error) {
	if cache < minCache {
		cache = minCache
	}
	if handles < minHandles {
		handles = minHandles
	}
	options := defaultOptions()
	options.OpenFilesCacheCapacity = handles
	options.BlockCacheCapacity = cache / 2 * opt.MiB
	options.WriteBuffer = cache / 4 * opt.MiB
	options.ReadOnly = readonly

	log.Info("open state database", "path", path, "cacheMB", cache, "handles", handles, "readonly", readonly)

	db, err := goleveldb.OpenFile(path, options)
	if dberrors.IsCorrupted(err) {
		log.Warn("state database is corrupted, try to recover", "path", path, "err", err)
		db, err = goleveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, err
	}
	return &Database{lvldb: db}, nil
}

// NewMemory state database in memory, its content is lost when closed
func NewMemory() (*Database, error) {
	db, err := goleveldb.Open(storage.NewMemStorage(), defaultOptions())
	if err != nil {
		return nil, err
	}
	return &Database{lvldb: db}, nil
}

func defaultOptions() *opt.Options {
	return &opt.Options{
		Filter:                 filter.NewBloomFilter(10),
		DisableSeeksCompaction: true,
	}
}

// Close close database
func (db *Database) Close() error {
	return db.lvldb.Close()
}

// Has is key exist
func (db *Database) Has(key []byte) (bool, error) {
	return db.lvldb.Has(key, nil)
}

// Get get value of key, the error satisfies IsNotFoundErr if not exist
func (db *Database) Get(key []byte) ([]byte, error) {
	return db.lvldb.Get(key, nil)
}

// Put set value of key
func (db *Database) Put(key, value []byte) error {
	return db.lvldb.Put(key, value, nil)
}

// Delete delete key
func (db *Database) Delete(key []byte) error {
	return db.lvldb.Delete(key, nil)
}

// NewBatch new batch which is applied atomically by Write
func (db *Database) NewBatch() Batch {
	return &batch{db: db.lvldb, b: new(goleveldb.Batch)}
}

// NewIterator iterate keys with prefix in ascending order,
// starting at prefix+start
func (db *Database) NewIterator(prefix, start []byte) Iterator {
	r := util.BytesPrefix(prefix)
	r.Start = append(r.Start, start...)
	return db.lvldb.NewIterator(r, nil)
}

type batch struct {
	db *goleveldb.DB
	b  *goleveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Write() error {
	return b.db.Write(b.b, nil)
}
