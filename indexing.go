package grizzly

import (
	"context"
	"fmt"
	"time"

	"github.com/autom8ter/grizzly/kv"
	"github.com/autom8ter/grizzly/util"
	"golang.org/x/sync/errgroup"
)

const indexBuildLease = time.Second

func (d *DB) runCreateIndexes(ctx context.Context, database, collection string, body *Document) (*Document, error) {
	requested := body.GetDocuments("indexes")
	if len(requested) == 0 {
		return nil, NewCommandError(CodeBadValue, "The 'indexes' array cannot be empty", nil)
	}
	var indexes []Index
	for _, doc := range requested {
		ix, err := indexFromDocument(doc)
		if err != nil {
			return nil, NewCommandError(CodeBadValue, err.Error(), nil)
		}
		indexes = append(indexes, ix)
	}
	created := false
	state, ok := d.getState(database, collection)
	if !ok {
		createBody := NewDocument()
		if err := createBody.Set("create", collection); err != nil {
			return nil, err
		}
		if _, err := d.runCreate(ctx, database, createBody); err != nil {
			return nil, err
		}
		created = true
		state, _ = d.getState(database, collection)
	}
	// one index build at a time per collection
	locker, err := d.kv.NewLocker(indexBuildLockKey(database, collection), indexBuildLease)
	if err != nil {
		return nil, err
	}
	acquired, err := locker.TryLock(ctx)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, NewCommandError(CodeLockTimeout,
			fmt.Sprintf("an index build is already in progress for %s.%s", database, collection), nil)
	}
	defer locker.Unlock(ctx)

	config := state.config
	numIndexesBefore := 1 + len(config.Indexes)
	var toBuild []Index
	for _, ix := range indexes {
		name := ix.IndexName()
		if existing, ok := config.GetIndex(name); ok {
			if !sameIndexSpec(existing, ix) {
				return nil, NewCommandError(CodeIndexOptionsConflict,
					fmt.Sprintf("Index with name: %s already exists with different options", name), nil)
			}
			continue
		}
		if name == "_id_" {
			if len(ix.Keys) == 1 && ix.Keys[0].Field == "_id" {
				continue
			}
			return nil, NewCommandError(CodeIndexOptionsConflict,
				"Index with name: _id_ already exists with different options", nil)
		}
		toBuild = append(toBuild, ix)
	}
	if err := d.buildIndexes(ctx, database, collection, toBuild); err != nil {
		return nil, err
	}
	if len(toBuild) > 0 {
		next := *config
		next.Indexes = append(append([]Index{}, config.Indexes...), toBuild...)
		if err := d.persistConfig(ctx, database, &next); err != nil {
			return nil, err
		}
		config = &next
	}
	response := NewDocument()
	if err := response.Set("createdCollectionAutomatically", created); err != nil {
		return nil, err
	}
	if err := response.Set("numIndexesBefore", numIndexesBefore); err != nil {
		return nil, err
	}
	if err := response.Set("numIndexesAfter", 1+len(config.Indexes)); err != nil {
		return nil, err
	}
	if len(toBuild) == 0 {
		if err := response.Set("note", "all indexes already exist"); err != nil {
			return nil, err
		}
	}
	if err := response.Set("ok", 1); err != nil {
		return nil, err
	}
	return response, nil
}

// buildIndexes backfills entries for each index over the collection's
// documents, one goroutine per index
func (d *DB) buildIndexes(ctx context.Context, database, collection string, indexes []Index) error {
	egp, ctx := errgroup.WithContext(ctx)
	for _, ix := range indexes {
		ix := ix
		egp.Go(func() error {
			return d.buildIndex(ctx, database, collection, ix)
		})
	}
	return egp.Wait()
}

func (d *DB) buildIndex(ctx context.Context, database, collection string, ix Index) error {
	name := ix.IndexName()
	seen := map[string]string{}
	return d.kv.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
		it, err := tx.NewIterator(kv.IterOpts{Prefix: documentPrefix(database, collection)})
		if err != nil {
			return err
		}
		defer it.Close()
		for it.Valid() {
			bits, err := it.Value()
			if err != nil {
				return err
			}
			doc, err := NewDocumentFromBytes(bits)
			if err != nil {
				return err
			}
			id := doc.GetString("_id")
			value, indexed := encodeIndexEntry(ix, doc)
			if indexed {
				if ix.Unique {
					if holder, ok := seen[string(value)]; ok && holder != id {
						return duplicateKeyError(database, collection, ix, doc)
					}
					seen[string(value)] = id
				}
				if err := tx.Set(ctx, indexKey(database, collection, name, value, id), []byte(id)); err != nil {
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

func (d *DB) runListIndexes(ctx context.Context, database, collection string) (*Document, error) {
	state, ok := d.getState(database, collection)
	if !ok {
		return nil, NewCommandError(CodeNamespaceNotFound, "ns not found", nil)
	}
	idIndex, err := idIndexResponse()
	if err != nil {
		return nil, err
	}
	batch := Documents{idIndex}
	for _, ix := range state.config.Indexes {
		doc, err := indexResponseDocument(ix)
		if err != nil {
			return nil, err
		}
		batch = append(batch, doc)
	}
	return cursorResponse(fmt.Sprintf("%s.$cmd.listIndexes.%s", database, collection), batch)
}

func (d *DB) runDropIndexes(ctx context.Context, database, collection string, body *Document) (*Document, error) {
	state, ok := d.getState(database, collection)
	if !ok {
		return nil, NewCommandError(CodeNamespaceNotFound, "ns not found", nil)
	}
	if !body.Exists("index") {
		return nil, NewCommandError(CodeBadValue, "the 'index' field is required", nil)
	}
	name := body.GetString("index")
	config := state.config
	nIndexesWas := 1 + len(config.Indexes)
	if name == "_id_" {
		return nil, NewCommandError(CodeInvalidOptions, "cannot drop _id index", nil)
	}
	response := NewDocument()
	if err := response.Set("nIndexesWas", nIndexesWas); err != nil {
		return nil, err
	}
	if name == "*" {
		var prefixes [][]byte
		for _, ix := range config.Indexes {
			prefixes = append(prefixes, indexPrefix(database, collection, ix.IndexName()))
		}
		if len(prefixes) > 0 {
			if err := d.kv.DropPrefix(ctx, prefixes...); err != nil {
				return nil, err
			}
		}
		next := *config
		next.Indexes = nil
		if err := d.persistConfig(ctx, database, &next); err != nil {
			return nil, err
		}
		if err := response.Set("msg", "non-_id indexes dropped for collection"); err != nil {
			return nil, err
		}
		if err := response.Set("ok", 1); err != nil {
			return nil, err
		}
		return response, nil
	}
	if _, ok := config.GetIndex(name); !ok {
		return nil, NewCommandError(CodeIndexNotFound,
			fmt.Sprintf("index not found with name [%s]", name), nil)
	}
	if err := d.kv.DropPrefix(ctx, indexPrefix(database, collection, name)); err != nil {
		return nil, err
	}
	next := *config
	next.Indexes = nil
	for _, ix := range config.Indexes {
		if ix.IndexName() != name {
			next.Indexes = append(next.Indexes, ix)
		}
	}
	if err := d.persistConfig(ctx, database, &next); err != nil {
		return nil, err
	}
	if err := response.Set("ok", 1); err != nil {
		return nil, err
	}
	return response, nil
}

func sameIndexSpec(a, b Index) bool {
	aDoc, aErr := a.Document()
	bDoc, bErr := b.Document()
	if aErr != nil || bErr != nil {
		return false
	}
	return aDoc.String() == bDoc.String()
}

func indexBuildLockKey(database, collection string) []byte {
	return []byte(fmt.Sprintf("internal.lock.index_build.%s.%s", database, collection))
}

// encodeIndexEntry encodes the document's key field values into the index
// entry's composite value. The bool is false when a sparse index skips the
// document because every key field is missing.
func encodeIndexEntry(ix Index, doc *Document) ([]byte, bool) {
	var (
		value   []byte
		present bool
	)
	for i, k := range ix.Keys {
		if i > 0 {
			value = append(value, 0x00)
		}
		if doc.Exists(k.Field) {
			present = true
		}
		value = append(value, util.EncodeIndexValue(doc.Get(k.Field))...)
	}
	if ix.Sparse && !present {
		return nil, false
	}
	return value, true
}

func indexValuePrefix(database, collection, index string, value []byte) []byte {
	key := indexPrefix(database, collection, index)
	key = append(key, value...)
	key = append(key, '.')
	return key
}

func duplicateKeyError(database, collection string, ix Index, doc *Document) error {
	dup := NewDocument()
	for _, k := range ix.Keys {
		_ = dup.Set(escapeFieldPath(k.Field), doc.Get(k.Field))
	}
	return NewCommandError(CodeDuplicateKey,
		fmt.Sprintf("E11000 duplicate key error collection: %s.%s index: %s dup key: %s",
			database, collection, ix.IndexName(), dup.String()), nil)
}

// indexResponseDocument is the listIndexes form of an index: the wire form
// prefixed with the index version
func indexResponseDocument(ix Index) (*Document, error) {
	wire, err := ix.Document()
	if err != nil {
		return nil, err
	}
	doc := NewDocument()
	if err := doc.Set("v", 2); err != nil {
		return nil, err
	}
	for _, field := range wire.Fields() {
		if err := doc.Set(field, []byte(wire.result.Get(field).Raw)); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func idIndexResponse() (*Document, error) {
	return indexResponseDocument(Index{Name: "_id_", Keys: []IndexKey{{Field: "_id", Order: 1}}})
}
