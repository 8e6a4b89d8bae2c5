package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/autom8ter/grizzly/kv"
	"github.com/autom8ter/grizzly/kv/registry"
	"github.com/autom8ter/machine/v4"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/ristretto"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cast"
)

// internalPrefix marks hot metadata keys that are served from the ristretto cache
var internalPrefix = []byte("internal.")

func init() {
	registry.Register("badger", func(params map[string]interface{}) (kv.DB, error) {
		return open(cast.ToString(params["storage_path"]))
	})
}

type badgerKV struct {
	db      *badger.DB
	cache   *ristretto.Cache
	machine machine.Machine
}

// open opens a badger database at the given path - an empty path opens an in-memory database
func open(storagePath string) (kv.DB, error) {
	opts := badger.DefaultOptions(storagePath)
	if storagePath == "" {
		opts.InMemory = true
		opts.Dir = ""
		opts.ValueDir = ""
	}
	opts = opts.WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of (10M).
		MaxCost:     1000,  // maximum cost of cache (1GB).
		BufferItems: 64,    // number of keys per Get buffer.
	})
	if err != nil {
		return nil, err
	}
	return &badgerKV{
		db:      db,
		cache:   cache,
		machine: machine.New(),
	}, nil
}

func (b *badgerKV) Tx(ctx context.Context, opts kv.TxOpts, fn kv.TxFunc) error {
	tx, err := b.NewTx(ctx, opts)
	if err != nil {
		return err
	}
	defer tx.Close(ctx)
	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (b *badgerKV) NewTx(ctx context.Context, opts kv.TxOpts) (kv.Tx, error) {
	if opts.IsBatch {
		return &badgerTx{opts: opts, batch: b.db.NewWriteBatch(), db: b, machine: b.machine}, nil
	}
	return &badgerTx{opts: opts, db: b, machine: b.machine}, nil
}

func (b *badgerKV) NewLocker(key []byte, leaseInterval time.Duration) (kv.Locker, error) {
	return &badgerLock{
		id:            ksuid.New().String(),
		key:           key,
		db:            b,
		leaseInterval: leaseInterval,
		hasUnlocked:   make(chan struct{}),
		unlock:        make(chan struct{}),
	}, nil
}

func (b *badgerKV) DropPrefix(ctx context.Context, prefix ...[]byte) error {
	for _, p := range prefix {
		if bytes.HasPrefix(p, internalPrefix) {
			b.cache.Clear()
			break
		}
	}
	return b.db.DropPrefix(prefix...)
}

func (b *badgerKV) Close(ctx context.Context) error {
	if err := b.db.Sync(); err != nil {
		return err
	}
	b.cache.Close()
	return b.db.Close()
}
