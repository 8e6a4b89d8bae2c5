package grizzly

import (
	"context"
	"time"

	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/kv"
)

// Seed loads documents into the collection, creating it if missing. The whole
// seed commits atomically: schema validation, unique index enforcement and
// capped eviction all happen before the commit. Documents without an _id are
// assigned a ksuid; a document with an existing _id replaces the stored one.
func (d *DB) Seed(ctx context.Context, collection string, documents Documents) error {
	if len(documents) == 0 {
		return nil
	}
	database := d.database
	state, ok := d.getState(database, collection)
	if !ok {
		body := NewDocument()
		if err := body.Set("create", collection); err != nil {
			return err
		}
		if _, err := d.runCreate(ctx, database, body); err != nil {
			return err
		}
		state, _ = d.getState(database, collection)
	}
	config := state.config
	seeded := make(Documents, 0, len(documents))
	for _, doc := range documents {
		if doc == nil || !doc.Valid() {
			return errors.New(errors.Validation, "cannot seed an invalid document")
		}
		doc = doc.Clone()
		if !doc.Exists("_id") {
			if err := doc.Set("_id", newID()); err != nil {
				return err
			}
		}
		if state.schema != nil {
			if err := state.schema.Validate(doc); err != nil {
				return err
			}
		}
		seeded = append(seeded, doc)
	}
	if err := d.kv.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
		for _, doc := range seeded {
			if err := d.writeDocument(ctx, tx, database, collection, config, doc); err != nil {
				return err
			}
		}
		if config.Capped && config.CappedMax > 0 {
			return d.enforceCap(ctx, tx, database, collection, config)
		}
		return nil
	}); err != nil {
		return err
	}
	if d.cache != nil {
		_ = d.cache.DelPrefix(ctx, database+"|")
	}
	response := NewDocument()
	if err := response.Set("ok", 1); err != nil {
		return err
	}
	if err := response.Set("nSeeded", len(seeded)); err != nil {
		return err
	}
	event := Event{
		ID:         newID(),
		Operation:  "seed",
		Database:   database,
		Collection: collection,
		Timestamp:  time.Now(),
		Response:   response,
		Metadata:   ExtractMetadata(ctx),
	}
	d.events.Broadcast(ctx, eventsChannel, event)
	return d.runTriggers(ctx, config, event)
}

// writeDocument stores the document and its index entries. A replaced
// document's stale index entries are removed first.
func (d *DB) writeDocument(ctx context.Context, tx kv.Tx, database, collection string, config *CollectionConfig, doc *Document) error {
	id := doc.GetString("_id")
	existing, err := tx.Get(ctx, documentKey(database, collection, id))
	if err != nil {
		return err
	}
	if existing != nil {
		old, err := NewDocumentFromBytes(existing)
		if err == nil {
			for _, ix := range config.Indexes {
				if value, indexed := encodeIndexEntry(ix, old); indexed {
					if err := tx.Delete(ctx, indexKey(database, collection, ix.IndexName(), value, id)); err != nil {
						return err
					}
				}
			}
		}
	}
	for _, ix := range config.Indexes {
		value, indexed := encodeIndexEntry(ix, doc)
		if !indexed {
			continue
		}
		if ix.Unique {
			if err := probeUnique(tx, database, collection, ix, value, id, doc); err != nil {
				return err
			}
		}
		if err := tx.Set(ctx, indexKey(database, collection, ix.IndexName(), value, id), []byte(id)); err != nil {
			return err
		}
	}
	return tx.Set(ctx, documentKey(database, collection, id), doc.Bytes())
}

// probeUnique fails when another document already holds the index value
func probeUnique(tx kv.Tx, database, collection string, ix Index, value []byte, id string, doc *Document) error {
	it, err := tx.NewIterator(kv.IterOpts{Prefix: indexValuePrefix(database, collection, ix.IndexName(), value)})
	if err != nil {
		return err
	}
	defer it.Close()
	for it.Valid() {
		holder, err := it.Value()
		if err != nil {
			return err
		}
		if string(holder) != id {
			return duplicateKeyError(database, collection, ix, doc)
		}
		if err := it.Next(); err != nil {
			return err
		}
	}
	return nil
}

// enforceCap evicts the oldest documents beyond the collection's cap. ksuid
// ids sort by creation time, so key order approximates insertion order.
func (d *DB) enforceCap(ctx context.Context, tx kv.Tx, database, collection string, config *CollectionConfig) error {
	it, err := tx.NewIterator(kv.IterOpts{Prefix: documentPrefix(database, collection)})
	if err != nil {
		return err
	}
	var (
		keys [][]byte
		docs Documents
	)
	for it.Valid() {
		bits, err := it.Value()
		if err != nil {
			it.Close()
			return err
		}
		doc, err := NewDocumentFromBytes(bits)
		if err != nil {
			it.Close()
			return err
		}
		keys = append(keys, append([]byte{}, it.Key()...))
		docs = append(docs, doc)
		if err := it.Next(); err != nil {
			it.Close()
			return err
		}
	}
	it.Close()
	overflow := int64(len(keys)) - config.CappedMax
	for i := int64(0); i < overflow; i++ {
		if err := tx.Delete(ctx, keys[i]); err != nil {
			return err
		}
		id := docs[i].GetString("_id")
		for _, ix := range config.Indexes {
			if value, indexed := encodeIndexEntry(ix, docs[i]); indexed {
				if err := tx.Delete(ctx, indexKey(database, collection, ix.IndexName(), value, id)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
