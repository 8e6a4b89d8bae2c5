package tikv

import (
	"context"
	"encoding/json"
	"time"

	"github.com/autom8ter/grizzly/kv"
)

type tikvLock struct {
	id            string
	key           []byte
	db            *tikvKV
	leaseInterval time.Duration
	start         time.Time
	hasUnlocked   chan struct{}
	unlock        chan struct{}
}

type lockMeta struct {
	ID         string    `json:"id"`
	Start      time.Time `json:"start"`
	LastUpdate time.Time `json:"lastUpdate"`
	Key        []byte    `json:"key"`
}

func (b *tikvLock) IsLocked(ctx context.Context) (bool, error) {
	isLocked := true
	err := b.db.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
		val, err := tx.Get(ctx, b.key)
		if err != nil {
			return err
		}
		if val == nil {
			isLocked = false
			return nil
		}
		var current lockMeta
		if err := json.Unmarshal(val, &current); err != nil {
			return err
		}
		if time.Since(current.LastUpdate) > 4*b.leaseInterval && current.ID != b.id {
			isLocked = false
		}
		return nil
	})
	return isLocked, err
}

func (b *tikvLock) TryLock(ctx context.Context) (bool, error) {
	b.start = time.Now()
	gotLock := false
	err := b.db.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
		val, err := tx.Get(ctx, b.key)
		if err != nil {
			return err
		}
		if val == nil {
			if err := b.setLock(ctx, tx); err != nil {
				return err
			}
			gotLock = true
			return nil
		}
		var current lockMeta
		if err := json.Unmarshal(val, &current); err != nil {
			return err
		}
		// steal the lock if the holder's lease has lapsed
		if time.Since(current.LastUpdate) > 4*b.leaseInterval && current.ID != b.id {
			if err := b.setLock(ctx, tx); err != nil {
				return err
			}
			gotLock = true
		}
		return nil
	})
	if err == nil && gotLock {
		go b.keepalive()
	}
	return gotLock, err
}

func (b *tikvLock) Unlock(ctx context.Context) {
	b.unlock <- struct{}{}
	<-b.hasUnlocked
}

func (b *tikvLock) setLock(ctx context.Context, tx kv.Tx) error {
	meta := &lockMeta{
		ID:         b.id,
		Start:      b.start,
		LastUpdate: time.Now(),
		Key:        b.key,
	}
	bits, _ := json.Marshal(meta)
	return tx.Set(ctx, b.key, bits)
}

func (b *tikvLock) getLock(ctx context.Context, tx kv.Tx) (*lockMeta, error) {
	val, err := tx.Get(ctx, b.key)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	var m lockMeta
	if err := json.Unmarshal(val, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (b *tikvLock) keepalive() {
	ctx := context.Background()
	ticker := time.NewTicker(b.leaseInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			// update lease
			_ = b.db.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
				val, err := b.getLock(ctx, tx)
				if err != nil {
					return err
				}
				if val != nil && val.ID == b.id {
					return b.setLock(ctx, tx)
				}
				return nil
			})
		case <-b.unlock:
			_ = b.db.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
				val, err := b.getLock(ctx, tx)
				if err != nil {
					return err
				}
				if val != nil && val.ID == b.id {
					return tx.Delete(ctx, b.key)
				}
				return nil
			})
			b.hasUnlocked <- struct{}{}
			return
		}
	}
}
