package grizzly

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/autom8ter/grizzly/cache"
	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/kv"
	"github.com/autom8ter/grizzly/kv/registry"
	"github.com/autom8ter/machine/v4"
)

// DB is an embedded database serving the command surface directly: it is its
// own executor. Collection configurations live in storage under the internal.
// prefix and are mirrored in memory for trigger, schema and index lookups.
type DB struct {
	database       string
	kv             kv.DB
	machine        machine.Machine
	events         stream[Event]
	cache          cache.Cache
	cacheTTL       time.Duration
	globalTriggers []Trigger
	collections    sync.Map
	closeOnce      sync.Once
}

// collectionState pairs a persisted config with its compiled schema
type collectionState struct {
	config *CollectionConfig
	schema *documentSchema
}

// Open opens a database on the named kv provider. Available providers register
// themselves via blank import (badger, tikv).
func Open(ctx context.Context, provider string, providerParams map[string]any, opts ...DBOpt) (*DB, error) {
	kvDB, err := registry.Open(provider, providerParams)
	if err != nil {
		return nil, errors.Wrap(err, 0, "failed to open kv provider: %s", provider)
	}
	d := &DB{
		database: "default",
		kv:       kvDB,
		machine:  machine.New(),
		cacheTTL: time.Minute,
	}
	d.events = newStream[Event](d.machine)
	for _, opt := range opts {
		opt(d)
	}
	if err := d.loadCollections(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// loadCollections mirrors the persisted collection configs into memory.
// Collection names cannot contain dots, so the database is the first segment
// of the key suffix.
func (d *DB) loadCollections(ctx context.Context) error {
	return d.kv.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(ctx context.Context, tx kv.Tx) error {
		it, err := tx.NewIterator(kv.IterOpts{Prefix: []byte("internal.collections.")})
		if err != nil {
			return err
		}
		defer it.Close()
		for it.Valid() {
			bits, err := it.Value()
			if err != nil {
				return err
			}
			parts := strings.SplitN(strings.TrimPrefix(string(it.Key()), "internal.collections."), ".", 2)
			if len(bits) > 0 && len(parts) == 2 {
				config, err := NewCollectionConfig(bits)
				if err != nil {
					return errors.Wrap(err, errors.Internal, "failed to load persisted collection config")
				}
				if err := d.setState(parts[0], config); err != nil {
					return err
				}
			}
			if err := it.Next(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *DB) setState(database string, config *CollectionConfig) error {
	state := &collectionState{config: config}
	if config.Schema != "" {
		schema, err := newDocumentSchema(config.Schema)
		if err != nil {
			return err
		}
		state.schema = schema
	}
	d.collections.Store(fmt.Sprintf("%s.%s", database, config.Name), state)
	return nil
}

func (d *DB) getState(database, collection string) (*collectionState, bool) {
	value, ok := d.collections.Load(fmt.Sprintf("%s.%s", database, collection))
	if !ok {
		return nil, false
	}
	return value.(*collectionState), true
}

func (d *DB) dropState(database, collection string) {
	d.collections.Delete(fmt.Sprintf("%s.%s", database, collection))
}

// persistConfig writes the config to storage and refreshes the in-memory mirror
func (d *DB) persistConfig(ctx context.Context, database string, config *CollectionConfig) error {
	doc, err := config.Document()
	if err != nil {
		return err
	}
	if err := d.kv.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
		return tx.Set(ctx, collectionConfigKey(database, config.Name), doc.Bytes())
	}); err != nil {
		return err
	}
	return d.setState(database, config)
}

// Ping verifies storage is reachable with a read-only round trip.
func (d *DB) Ping(ctx context.Context) error {
	raw, err := d.Execute(ctx, NewCommand(d.database, "ping", 1)).Await(ctx)
	if err != nil {
		return err
	}
	if raw.GetInt("ok") != 1 {
		return errors.New(errors.Internal, "ping failed: %s", raw.String())
	}
	return nil
}

// Close drains in-flight work, then closes the cache and storage. Close is
// idempotent.
func (d *DB) Close(ctx context.Context) error {
	var closeErr error
	d.closeOnce.Do(func() {
		closeErr = d.machine.Wait()
		if d.cache != nil {
			if err := d.cache.Close(ctx); err != nil && closeErr == nil {
				closeErr = err
			}
		}
		if err := d.kv.Close(ctx); err != nil && closeErr == nil {
			closeErr = err
		}
	})
	return closeErr
}

// Collection returns a handle on the named collection, carrying the read
// preference configured for it (if any).
func (d *DB) Collection(name string) *Collection {
	var opts []CollectionOpt
	if state, ok := d.getState(d.database, name); ok && state.config.ReadPreference != "" {
		opts = append(opts, WithReadPreference(state.config.ReadPreference))
	}
	return NewCollection(d, d.database, name, opts...)
}

// Collections lists the database's collection names.
func (d *DB) Collections(ctx context.Context) ([]string, error) {
	raw, err := d.Execute(ctx, NewCommand(d.database, "listCollections", 1)).Await(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, doc := range raw.GetDocuments("cursor.firstBatch") {
		names = append(names, doc.GetString("name"))
	}
	return names, nil
}

// ConfigureCollection creates or updates a collection from a yaml (or json)
// configuration: the collection is created if missing, the config is persisted,
// and the declared indexes are built.
func (d *DB) ConfigureCollection(ctx context.Context, config []byte) error {
	cfg, err := NewCollectionConfig(config)
	if err != nil {
		return err
	}
	createCmd := NewCommand(d.database, "create", cfg.Name)
	if cfg.Capped {
		createCmd = createCmd.
			With("capped", true).
			With("size", cfg.CappedSize).
			With("max", cfg.CappedMax)
	}
	if _, err := d.Execute(ctx, createCmd).Await(ctx); err != nil {
		if cmdErr, ok := AsCommandError(err); !ok || cmdErr.Code != CodeNamespaceExists {
			return err
		}
	}
	// indexes are added through createIndexes below so their entries get built;
	// indexes already on the collection are preserved
	persisted := *cfg
	persisted.Indexes = nil
	if state, ok := d.getState(d.database, cfg.Name); ok {
		persisted.Indexes = state.config.Indexes
	}
	if err := d.persistConfig(ctx, d.database, &persisted); err != nil {
		return err
	}
	if len(cfg.Indexes) > 0 {
		admin := d.Collection(cfg.Name).Admin().Blocking()
		if err := admin.CreateIndexes(ctx, cfg.Indexes...); err != nil {
			return err
		}
	}
	return nil
}

// Events blocks, delivering each administration event to fn until the context
// is cancelled or fn returns false.
func (d *DB) Events(ctx context.Context, fn EventHandler) error {
	return d.events.Pull(ctx, eventsChannel, func(ctx context.Context, event Event) (bool, error) {
		return fn(ctx, event)
	})
}
