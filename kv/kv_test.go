package kv_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/autom8ter/grizzly/kv"
	_ "github.com/autom8ter/grizzly/kv/badger"
	"github.com/autom8ter/grizzly/kv/registry"
	"github.com/stretchr/testify/assert"
)

func Test(t *testing.T) {
	ctx := context.Background()
	var providers = []string{"badger"}
	for _, provider := range providers {
		t.Run(provider, func(t *testing.T) {
			db, err := registry.Open(provider, map[string]interface{}{
				"storage_path": "",
			})
			assert.NoError(t, err)
			defer db.Close(ctx)
			data := map[string]string{}
			for i := 0; i < 10; i++ {
				data[fmt.Sprintf("testing.%d", i)] = fmt.Sprint(i)
			}
			t.Run("set", func(t *testing.T) {
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
					for k, v := range data {
						assert.Nil(t, tx.Set(ctx, []byte(k), []byte(v)))
					}
					return nil
				}))
			})
			t.Run("get", func(t *testing.T) {
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(ctx context.Context, tx kv.Tx) error {
					for k, v := range data {
						val, err := tx.Get(ctx, []byte(k))
						assert.NoError(t, err)
						assert.EqualValues(t, v, string(val))
					}
					return nil
				}))
			})
			t.Run("get missing key returns nil", func(t *testing.T) {
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(ctx context.Context, tx kv.Tx) error {
					val, err := tx.Get(ctx, []byte("does.not.exist"))
					assert.NoError(t, err)
					assert.Nil(t, val)
					return nil
				}))
			})
			t.Run("iterate prefix", func(t *testing.T) {
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(ctx context.Context, tx kv.Tx) error {
					it, err := tx.NewIterator(kv.IterOpts{Prefix: []byte("testing.")})
					assert.NoError(t, err)
					defer it.Close()
					count := 0
					for it.Valid() {
						val, err := it.Value()
						assert.NoError(t, err)
						assert.EqualValues(t, data[string(it.Key())], string(val))
						count++
						assert.Nil(t, it.Next())
					}
					assert.Equal(t, len(data), count)
					return nil
				}))
			})
			t.Run("batch set", func(t *testing.T) {
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{IsBatch: true}, func(ctx context.Context, tx kv.Tx) error {
					for i := 0; i < 10; i++ {
						assert.Nil(t, tx.Set(ctx, []byte(fmt.Sprintf("batch.%d", i)), []byte(fmt.Sprint(i))))
					}
					return nil
				}))
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(ctx context.Context, tx kv.Tx) error {
					val, err := tx.Get(ctx, []byte("batch.3"))
					assert.NoError(t, err)
					assert.EqualValues(t, "3", string(val))
					return nil
				}))
			})
			t.Run("delete", func(t *testing.T) {
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
					return tx.Delete(ctx, []byte("testing.0"))
				}))
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(ctx context.Context, tx kv.Tx) error {
					val, err := tx.Get(ctx, []byte("testing.0"))
					assert.NoError(t, err)
					assert.Nil(t, val)
					return nil
				}))
			})
			t.Run("rollback on error", func(t *testing.T) {
				assert.Error(t, db.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
					if err := tx.Set(ctx, []byte("rollback.1"), []byte("1")); err != nil {
						return err
					}
					return fmt.Errorf("abort")
				}))
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(ctx context.Context, tx kv.Tx) error {
					val, err := tx.Get(ctx, []byte("rollback.1"))
					assert.NoError(t, err)
					assert.Nil(t, val)
					return nil
				}))
			})
			t.Run("drop prefix", func(t *testing.T) {
				assert.Nil(t, db.DropPrefix(ctx, []byte("batch.")))
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(ctx context.Context, tx kv.Tx) error {
					val, err := tx.Get(ctx, []byte("batch.3"))
					assert.NoError(t, err)
					assert.Nil(t, val)
					return nil
				}))
			})
			t.Run("locker", func(t *testing.T) {
				locker, err := db.NewLocker([]byte("internal.locks.testing"), 100*time.Millisecond)
				assert.NoError(t, err)
				gotLock, err := locker.TryLock(ctx)
				assert.NoError(t, err)
				assert.True(t, gotLock)
				isLocked, err := locker.IsLocked(ctx)
				assert.NoError(t, err)
				assert.True(t, isLocked)

				second, err := db.NewLocker([]byte("internal.locks.testing"), 100*time.Millisecond)
				assert.NoError(t, err)
				gotLock, err = second.TryLock(ctx)
				assert.NoError(t, err)
				assert.False(t, gotLock)

				locker.Unlock(ctx)
				gotLock, err = second.TryLock(ctx)
				assert.NoError(t, err)
				assert.True(t, gotLock)
				second.Unlock(ctx)
			})
		})
	}
}
