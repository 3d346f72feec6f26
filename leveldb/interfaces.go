package leveldb

import (
	"io"

	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// KeyValueReader read access
type KeyValueReader interface {
	Has(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
}

// KeyValueWriter write access
type KeyValueWriter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Iterator ascending key order iterator of goleveldb
type Iterator = iterator.Iterator

// Batch writes which are buffered until Write
type Batch interface {
	KeyValueWriter
	Write() error
}

// KeyValueStore the database the swaps host commits to
type KeyValueStore interface {
	KeyValueReader
	KeyValueWriter
	NewBatch() Batch
	NewIterator(prefix, start []byte) Iterator
	io.Closer
}
