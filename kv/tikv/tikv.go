package tikv

import (
	"context"
	"time"

	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/kv"
	"github.com/autom8ter/grizzly/kv/registry"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cast"
	"github.com/tikv/client-go/v2/txnkv"
)

func init() {
	registry.Register("tikv", func(params map[string]interface{}) (kv.DB, error) {
		if params["pd_addr"] == nil {
			return nil, errors.New(errors.Validation, "'pd_addr' is a required parameter")
		}
		return open(cast.ToStringSlice(params["pd_addr"]))
	})
}

type tikvKV struct {
	db *txnkv.Client
}

func open(pdAddr []string) (kv.DB, error) {
	if len(pdAddr) == 0 {
		return nil, errors.New(errors.Validation, "empty pd address")
	}
	client, err := txnkv.NewClient(pdAddr)
	if err != nil {
		return nil, err
	}
	return &tikvKV{
		db: client,
	}, nil
}

func (b *tikvKV) Tx(ctx context.Context, opts kv.TxOpts, fn kv.TxFunc) error {
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

func (b *tikvKV) NewTx(ctx context.Context, opts kv.TxOpts) (kv.Tx, error) {
	txn, err := b.db.Begin()
	if err != nil {
		return nil, err
	}
	return &tikvTx{txn: txn, db: b, opts: opts}, nil
}

func (b *tikvKV) NewLocker(key []byte, leaseInterval time.Duration) (kv.Locker, error) {
	return &tikvLock{
		id:            ksuid.New().String(),
		key:           key,
		db:            b,
		leaseInterval: leaseInterval,
		hasUnlocked:   make(chan struct{}),
		unlock:        make(chan struct{}),
	}, nil
}

// DropPrefix scans then deletes - tikv has no transactional range delete
func (b *tikvKV) DropPrefix(ctx context.Context, prefix ...[]byte) error {
	for _, p := range prefix {
		if err := b.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
			it, err := tx.NewIterator(kv.IterOpts{Prefix: p})
			if err != nil {
				return err
			}
			var keys [][]byte
			for it.Valid() {
				key := make([]byte, len(it.Key()))
				copy(key, it.Key())
				keys = append(keys, key)
				if err := it.Next(); err != nil {
					it.Close()
					return err
				}
			}
			it.Close()
			for _, key := range keys {
				if err := tx.Delete(ctx, key); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func (b *tikvKV) Close(ctx context.Context) error {
	return b.db.Close()
}
