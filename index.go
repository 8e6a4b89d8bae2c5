package grizzly

import (
	"fmt"
	"strings"

	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/util"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// IndexKey is a single field of an index key document. Order is 1 for
// ascending and -1 for descending; 0 is treated as ascending.
type IndexKey struct {
	Field string `json:"field" validate:"required"`
	Order int    `json:"order" validate:"oneof=-1 0 1"`
}

// Index describes a collection index. The key field order is significant:
// it is preserved on the wire and in the derived index name.
type Index struct {
	Name   string     `json:"name"`
	Keys   []IndexKey `json:"keys" validate:"min=1,dive"`
	Unique bool       `json:"unique"`
	Sparse bool       `json:"sparse"`
}

// Validate checks the index descriptor.
func (i Index) Validate() error {
	return util.ValidateStruct(&i)
}

// IndexName returns the explicit name, or derives one from the keys in the
// form field_1_other_-1.
func (i Index) IndexName() string {
	if i.Name != "" {
		return i.Name
	}
	parts := lo.Map(i.Keys, func(k IndexKey, _ int) string {
		order := k.Order
		if order == 0 {
			order = 1
		}
		return fmt.Sprintf("%s_%d", k.Field, order)
	})
	return strings.Join(parts, "_")
}

// Document returns the wire form of the index:
// {key: {field: order, ...}, name: ..., unique: ..., sparse: ...}
func (i Index) Document() (*Document, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}
	keyRaw := "{}"
	for _, k := range i.Keys {
		order := k.Order
		if order == 0 {
			order = 1
		}
		var err error
		// escape dots so nested field paths stay single literal keys
		keyRaw, err = sjson.Set(keyRaw, escapeFieldPath(k.Field), order)
		if err != nil {
			return nil, err
		}
	}
	doc := NewDocument()
	if err := doc.Set("key", []byte(keyRaw)); err != nil {
		return nil, err
	}
	if err := doc.Set("name", i.IndexName()); err != nil {
		return nil, err
	}
	if i.Unique {
		if err := doc.Set("unique", true); err != nil {
			return nil, err
		}
	}
	if i.Sparse {
		if err := doc.Set("sparse", true); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// NewIndexFromDocument parses the wire form of an index back into a
// descriptor.
func NewIndexFromDocument(doc *Document) (Index, error) {
	return indexFromDocument(doc)
}

// indexFromDocument parses the wire form of an index back into a descriptor.
func indexFromDocument(doc *Document) (Index, error) {
	ix := Index{
		Name:   doc.GetString("name"),
		Unique: doc.GetBool("unique"),
		Sparse: doc.GetBool("sparse"),
	}
	key := doc.result.Get("key")
	if !key.Exists() || !key.IsObject() {
		return Index{}, errors.New(errors.Validation, "index %q has no key document", ix.Name)
	}
	key.ForEach(func(field, order gjson.Result) bool {
		ix.Keys = append(ix.Keys, IndexKey{Field: field.String(), Order: int(order.Int())})
		return true
	})
	if err := ix.Validate(); err != nil {
		return Index{}, err
	}
	return ix, nil
}

func escapeFieldPath(field string) string {
	return strings.ReplaceAll(field, ".", `\.`)
}
