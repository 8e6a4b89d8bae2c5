package grizzly

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/autom8ter/grizzly/kv"
	"github.com/tidwall/sjson"
)

func (d *DB) runCreate(ctx context.Context, database string, body *Document) (*Document, error) {
	name := body.GetString("create")
	if name == "" || strings.Contains(name, ".") {
		return nil, NewCommandError(CodeInvalidNamespace,
			fmt.Sprintf("Invalid namespace specified '%s.%s'", database, name), nil)
	}
	if _, ok := d.getState(database, name); ok {
		return nil, NewCommandError(CodeNamespaceExists,
			fmt.Sprintf("Collection already exists. NS: %s.%s", database, name), nil)
	}
	config := &CollectionConfig{
		Name:       name,
		Capped:     body.GetBool("capped"),
		CappedSize: body.GetInt("size"),
		CappedMax:  body.GetInt("max"),
	}
	if config.Capped && config.CappedSize <= 0 {
		return nil, NewCommandError(CodeInvalidOptions,
			"the 'size' field is required when 'capped' is true", nil)
	}
	if err := d.persistConfig(ctx, database, config); err != nil {
		return nil, err
	}
	return okResponse()
}

func (d *DB) runDrop(ctx context.Context, database, name string) (*Document, error) {
	state, ok := d.getState(database, name)
	if !ok {
		return nil, NewCommandError(CodeNamespaceNotFound, "ns not found", nil)
	}
	nIndexesWas := 1 + len(state.config.Indexes)
	if err := d.kv.DropPrefix(ctx, collectionPrefix(database, name)); err != nil {
		return nil, err
	}
	if err := d.kv.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
		return tx.Delete(ctx, collectionConfigKey(database, name))
	}); err != nil {
		return nil, err
	}
	d.dropState(database, name)
	response := NewDocument()
	if err := response.Set("nIndexesWas", nIndexesWas); err != nil {
		return nil, err
	}
	if err := response.Set("ns", fmt.Sprintf("%s.%s", database, name)); err != nil {
		return nil, err
	}
	if err := response.Set("ok", 1); err != nil {
		return nil, err
	}
	return response, nil
}

func (d *DB) runCollStats(ctx context.Context, database, name string, body *Document) (*Document, error) {
	scale := body.GetInt("scale")
	if scale < 0 {
		return nil, NewCommandError(CodeBadValue, "scale has to be >= 1", nil)
	}
	if scale == 0 {
		scale = 1
	}
	state, ok := d.getState(database, name)
	if !ok {
		return nil, NewCommandError(CodeNamespaceNotFound,
			fmt.Sprintf("Collection [%s.%s] not found.", database, name), nil)
	}
	var (
		count          int64
		size           int64
		totalIndexSize int64
	)
	if err := d.kv.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(ctx context.Context, tx kv.Tx) error {
		it, err := tx.NewIterator(kv.IterOpts{Prefix: documentPrefix(database, name)})
		if err != nil {
			return err
		}
		defer it.Close()
		for it.Valid() {
			bits, err := it.Value()
			if err != nil {
				return err
			}
			count++
			size += int64(len(bits))
			// document keys double as the primary key index
			totalIndexSize += int64(len(it.Key()))
			if err := it.Next(); err != nil {
				return err
			}
		}
		for _, ix := range state.config.Indexes {
			ixIter, err := tx.NewIterator(kv.IterOpts{Prefix: indexPrefix(database, name, ix.IndexName())})
			if err != nil {
				return err
			}
			for ixIter.Valid() {
				bits, err := ixIter.Value()
				if err != nil {
					ixIter.Close()
					return err
				}
				totalIndexSize += int64(len(ixIter.Key()) + len(bits))
				if err := ixIter.Next(); err != nil {
					ixIter.Close()
					return err
				}
			}
			ixIter.Close()
		}
		return nil
	}); err != nil {
		return nil, err
	}
	response := NewDocument()
	for _, set := range []struct {
		field string
		value any
	}{
		{"ns", fmt.Sprintf("%s.%s", database, name)},
		{"count", count},
		{"size", size / scale},
		{"storageSize", size / scale},
		{"capped", state.config.Capped},
		{"nindexes", 1 + len(state.config.Indexes)},
		{"totalIndexSize", totalIndexSize / scale},
		{"totalSize", (size + totalIndexSize) / scale},
		{"scaleFactor", scale},
	} {
		if err := response.Set(set.field, set.value); err != nil {
			return nil, err
		}
	}
	if state.config.Capped {
		if err := response.Set("max", state.config.CappedMax); err != nil {
			return nil, err
		}
		if err := response.Set("maxSize", state.config.CappedSize/scale); err != nil {
			return nil, err
		}
	}
	if err := response.Set("ok", 1); err != nil {
		return nil, err
	}
	return response, nil
}

func (d *DB) runListCollections(ctx context.Context, database string) (*Document, error) {
	var names []string
	d.collections.Range(func(key, _ any) bool {
		ns := key.(string)
		if strings.HasPrefix(ns, database+".") {
			names = append(names, strings.TrimPrefix(ns, database+"."))
		}
		return true
	})
	sort.Strings(names)
	var batch Documents
	for _, name := range names {
		state, ok := d.getState(database, name)
		if !ok {
			continue
		}
		doc := NewDocument()
		if err := doc.Set("name", name); err != nil {
			return nil, err
		}
		if err := doc.Set("type", "collection"); err != nil {
			return nil, err
		}
		options := NewDocument()
		if state.config.Capped {
			if err := options.Set("capped", true); err != nil {
				return nil, err
			}
			if err := options.Set("size", state.config.CappedSize); err != nil {
				return nil, err
			}
			if err := options.Set("max", state.config.CappedMax); err != nil {
				return nil, err
			}
		}
		if err := doc.Set("options", options); err != nil {
			return nil, err
		}
		idIndex, err := idIndexResponse()
		if err != nil {
			return nil, err
		}
		if err := doc.Set("idIndex", idIndex); err != nil {
			return nil, err
		}
		batch = append(batch, doc)
	}
	return cursorResponse(fmt.Sprintf("%s.$cmd.listCollections", database), batch)
}

// cursorResponse wraps a result batch in the single-batch cursor shape:
// {cursor: {id: 0, ns: ..., firstBatch: [...]}, ok: 1}
func cursorResponse(ns string, batch Documents) (*Document, error) {
	raw := "[]"
	for _, doc := range batch {
		var err error
		raw, err = sjson.SetRaw(raw, "-1", doc.String())
		if err != nil {
			return nil, err
		}
	}
	cursor := NewDocument()
	if err := cursor.Set("id", 0); err != nil {
		return nil, err
	}
	if err := cursor.Set("ns", ns); err != nil {
		return nil, err
	}
	if err := cursor.Set("firstBatch", []byte(raw)); err != nil {
		return nil, err
	}
	response := NewDocument()
	if err := response.Set("cursor", cursor); err != nil {
		return nil, err
	}
	if err := response.Set("ok", 1); err != nil {
		return nil, err
	}
	return response, nil
}

