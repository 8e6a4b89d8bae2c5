package kv

import (
	"context"
	"time"
)

// CDCOperation is the type of mutation captured in a CDC entry
type CDCOperation string

const (
	// SETOP is a set operation
	SETOP CDCOperation = "SET"
	// DELOP is a delete operation
	DELOP CDCOperation = "DEL"
)

// CDC is a change-data-capture entry broadcast when a transaction commits
type CDC struct {
	Operation CDCOperation `json:"operation"`
	Key       []byte       `json:"key"`
	Value     []byte       `json:"value"`
}

// TxOpts are options when opening a transaction
type TxOpts struct {
	// IsReadOnly forbids writes within the transaction
	IsReadOnly bool
	// IsBatch opens a write batch instead of a transaction - reads are unsupported and writes are unordered but fast
	IsBatch bool
}

// IterOpts are options when opening an iterator
type IterOpts struct {
	// Prefix constrains iteration to keys sharing the prefix
	Prefix []byte `json:"prefix"`
	// Seek positions the iterator at the first key >= Seek
	Seek []byte `json:"seek"`
	// UpperBound constrains iteration to keys <= UpperBound
	UpperBound []byte `json:"upper_bound"`
	// Reverse iterates in descending key order
	Reverse bool `json:"reverse"`
}

// TxFunc is executed against an open transaction
type TxFunc func(ctx context.Context, tx Tx) error

// DB is a key value database implementation
type DB interface {
	// Tx executes the function against a new transaction, committing on a nil
	// error and rolling back otherwise
	Tx(ctx context.Context, opts TxOpts, fn TxFunc) error
	// NewTx returns a new transaction - the caller owns commit/rollback
	NewTx(ctx context.Context, opts TxOpts) (Tx, error)
	// NewLocker returns a lease-based lock on the given key
	NewLocker(key []byte, leaseInterval time.Duration) (Locker, error)
	// DropPrefix efficiently deletes all keys sharing the given prefixes
	DropPrefix(ctx context.Context, prefix ...[]byte) error
	// Close closes the database
	Close(ctx context.Context) error
}

// Tx is a database transaction
type Tx interface {
	// Get returns the value at key, or nil if the key does not exist
	Get(ctx context.Context, key []byte) ([]byte, error)
	// Set sets the value at key
	Set(ctx context.Context, key, value []byte) error
	// Delete deletes the key
	Delete(ctx context.Context, key []byte) error
	// NewIterator opens an iterator within the transaction
	NewIterator(opts IterOpts) (Iterator, error)
	// Rollback discards the transaction
	Rollback(ctx context.Context) error
	// Commit commits the transaction
	Commit(ctx context.Context) error
	// Close releases the transaction's resources
	Close(ctx context.Context)
}

// Iterator iterates over a range of keys in order
type Iterator interface {
	// Seek positions the iterator at the first key >= key
	Seek(key []byte)
	// Key returns the key at the current position
	Key() []byte
	// Value returns the value at the current position
	Value() ([]byte, error)
	// Valid returns whether the current position holds an entry
	Valid() bool
	// Next advances the iterator
	Next() error
	// Close closes the iterator
	Close()
}

// Locker is a lease-based lock held until unlocked or the lease lapses
type Locker interface {
	// TryLock attempts to acquire the lock without blocking
	TryLock(ctx context.Context) (bool, error)
	// IsLocked returns whether the lock is currently held by any holder
	IsLocked(ctx context.Context) (bool, error)
	// Unlock releases the lock
	Unlock(ctx context.Context)
}
