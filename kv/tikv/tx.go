package tikv

import (
	"context"

	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/kv"
	"github.com/autom8ter/grizzly/kv/kvutil"
	tikvErr "github.com/tikv/client-go/v2/error"
	"github.com/tikv/client-go/v2/txnkv/transaction"
)

type tikvTx struct {
	txn  *transaction.KVTxn
	opts kv.TxOpts
	db   *tikvKV
}

func (t *tikvTx) NewIterator(kopts kv.IterOpts) (kv.Iterator, error) {
	if kopts.Reverse {
		upper := kopts.UpperBound
		if kopts.Seek != nil {
			upper = kopts.Seek
		}
		if upper == nil {
			upper = kopts.Prefix
		}
		iter, err := t.txn.IterReverse(kvutil.NextPrefix(upper))
		if err != nil {
			return nil, err
		}
		return &tikvIterator{iter: iter, opts: kopts}, nil
	}
	start := kopts.Seek
	if start == nil {
		start = kopts.Prefix
	}
	var upper []byte
	if kopts.UpperBound != nil {
		upper = kvutil.NextPrefix(kopts.UpperBound)
	} else if kopts.Prefix != nil {
		upper = kvutil.NextPrefix(kopts.Prefix)
	}
	iter, err := t.txn.Iter(start, upper)
	if err != nil {
		return nil, err
	}
	return &tikvIterator{iter: iter, opts: kopts}, nil
}

func (t *tikvTx) Get(ctx context.Context, key []byte) ([]byte, error) {
	val, err := t.txn.Get(ctx, key)
	if err != nil {
		if tikvErr.IsErrNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

func (t *tikvTx) Set(ctx context.Context, key, value []byte) error {
	if t.opts.IsReadOnly {
		return errors.New(errors.Forbidden, "writes forbidden in read-only transaction")
	}
	return t.txn.Set(key, value)
}

func (t *tikvTx) Delete(ctx context.Context, key []byte) error {
	if t.opts.IsReadOnly {
		return errors.New(errors.Forbidden, "writes forbidden in read-only transaction")
	}
	return t.txn.Delete(key)
}

func (t *tikvTx) Rollback(ctx context.Context) error {
	return t.txn.Rollback()
}

func (t *tikvTx) Commit(ctx context.Context) error {
	return t.txn.Commit(ctx)
}

func (t *tikvTx) Close(ctx context.Context) {}
