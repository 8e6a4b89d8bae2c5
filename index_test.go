package grizzly_test

import (
	"testing"

	"github.com/autom8ter/grizzly"
	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	t.Run("derived name follows field order", func(t *testing.T) {
		ix := grizzly.Index{Keys: []grizzly.IndexKey{
			{Field: "account_id", Order: 1},
			{Field: "age", Order: -1},
		}}
		assert.Equal(t, "account_id_1_age_-1", ix.IndexName())
	})
	t.Run("zero order means ascending", func(t *testing.T) {
		ix := grizzly.Index{Keys: []grizzly.IndexKey{{Field: "name"}}}
		assert.Equal(t, "name_1", ix.IndexName())
	})
	t.Run("explicit name wins", func(t *testing.T) {
		ix := grizzly.Index{Name: "by_age", Keys: []grizzly.IndexKey{{Field: "age", Order: -1}}}
		assert.Equal(t, "by_age", ix.IndexName())
	})
	t.Run("wire document", func(t *testing.T) {
		ix := grizzly.Index{
			Keys:   []grizzly.IndexKey{{Field: "email", Order: 1}},
			Unique: true,
		}
		doc, err := ix.Document()
		assert.NoError(t, err)
		assert.Equal(t, []string{"key", "name", "unique"}, doc.Fields())
		assert.EqualValues(t, 1, doc.GetInt("key.email"))
		assert.Equal(t, "email_1", doc.GetString("name"))
		assert.True(t, doc.GetBool("unique"))
		assert.False(t, doc.Exists("sparse"))
	})
	t.Run("dotted fields stay single keys", func(t *testing.T) {
		ix := grizzly.Index{Keys: []grizzly.IndexKey{{Field: "contact.email", Order: 1}}}
		doc, err := ix.Document()
		assert.NoError(t, err)
		assert.EqualValues(t, 1, doc.GetInt(`key.contact\.email`))
		assert.Equal(t, "contact.email_1", doc.GetString("name"))
	})
	t.Run("round trip", func(t *testing.T) {
		ix := grizzly.Index{
			Name:   "age_desc",
			Keys:   []grizzly.IndexKey{{Field: "age", Order: -1}},
			Sparse: true,
		}
		doc, err := ix.Document()
		assert.NoError(t, err)
		parsed, err := grizzly.NewIndexFromDocument(doc)
		assert.NoError(t, err)
		assert.Equal(t, ix, parsed)
	})
	t.Run("empty keys are rejected", func(t *testing.T) {
		_, err := grizzly.Index{Name: "empty"}.Document()
		assert.Error(t, err)
		assert.Error(t, grizzly.Index{}.Validate())
	})
	t.Run("bad order is rejected", func(t *testing.T) {
		err := grizzly.Index{Keys: []grizzly.IndexKey{{Field: "age", Order: 2}}}.Validate()
		assert.Error(t, err)
	})
	t.Run("document without key is rejected", func(t *testing.T) {
		doc := grizzly.NewDocument()
		assert.NoError(t, doc.Set("name", "broken"))
		_, err := grizzly.NewIndexFromDocument(doc)
		assert.Error(t, err)
	})
}
