package grizzly

import (
	"bytes"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func TestDocument(t *testing.T) {
	type contact struct {
		Email string `json:"email"`
		Phone string `json:"phone,omitempty"`
	}
	type user struct {
		ID      string  `json:"_id"`
		Contact contact `json:"contact"`
		Name    string  `json:"name"`
		Age     int     `json:"age"`
	}
	const email = "john.smith@yahoo.com"
	usr := user{ID: gofakeit.UUID(), Contact: contact{Email: email, Phone: gofakeit.Phone()}, Name: "john smith", Age: 50}
	doc, err := NewDocumentFrom(&usr)
	if err != nil {
		t.Fatal(err)
	}
	t.Run("get id", func(t *testing.T) {
		assert.Equal(t, usr.ID, doc.GetString("_id"))
	})
	t.Run("get email", func(t *testing.T) {
		assert.Equal(t, usr.Contact.Email, doc.Get("contact.email"))
	})
	t.Run("get phone", func(t *testing.T) {
		assert.Equal(t, usr.Contact.Phone, doc.GetString("contact.phone"))
	})
	t.Run("get age", func(t *testing.T) {
		assert.EqualValues(t, 50, doc.GetInt("age"))
		assert.EqualValues(t, 50, doc.GetFloat("age"))
	})
	t.Run("exists", func(t *testing.T) {
		assert.True(t, doc.Exists("contact.email"))
		assert.False(t, doc.Exists("contact.fax"))
	})
	t.Run("set preserves field order", func(t *testing.T) {
		d := NewDocument()
		assert.NoError(t, d.Set("collStats", "user"))
		assert.NoError(t, d.Set("scale", 1024))
		assert.NoError(t, d.Set("verbose", true))
		assert.Equal(t, []string{"collStats", "scale", "verbose"}, d.Fields())
	})
	t.Run("set raw json bytes", func(t *testing.T) {
		d := NewDocument()
		assert.NoError(t, d.Set("cursor", []byte(`{"id":0,"firstBatch":[]}`)))
		assert.EqualValues(t, 0, d.GetInt("cursor.id"))
		assert.Equal(t, `{"cursor":{"id":0,"firstBatch":[]}}`, d.String())
	})
	t.Run("set nested document", func(t *testing.T) {
		inner := NewDocument()
		assert.NoError(t, inner.Set("ok", 1))
		d := NewDocument()
		assert.NoError(t, d.Set("response", inner))
		assert.EqualValues(t, 1, d.GetInt("response.ok"))
	})
	t.Run("set dot notation", func(t *testing.T) {
		d := doc.Clone()
		assert.NoError(t, d.Set("contact.email", gofakeit.Email()))
		assert.NotEqual(t, email, d.GetString("contact.email"))
		assert.Equal(t, email, doc.GetString("contact.email"))
	})
	t.Run("merge", func(t *testing.T) {
		d := doc.Clone()
		update, err := NewDocumentFrom(map[string]any{
			"contact": map[string]any{"email": "new@yahoo.com"},
			"age":     51,
		})
		assert.NoError(t, err)
		assert.NoError(t, d.Merge(update))
		assert.Equal(t, "new@yahoo.com", d.GetString("contact.email"))
		assert.Equal(t, usr.Contact.Phone, d.GetString("contact.phone"))
		assert.EqualValues(t, 51, d.GetInt("age"))
	})
	t.Run("del", func(t *testing.T) {
		d := doc.Clone()
		assert.NoError(t, d.Del("contact.phone"))
		assert.False(t, d.Exists("contact.phone"))
		assert.True(t, doc.Exists("contact.phone"))
	})
	t.Run("clone is independent", func(t *testing.T) {
		d := doc.Clone()
		assert.NoError(t, d.Set("name", "jane smith"))
		assert.Equal(t, "john smith", doc.GetString("name"))
	})
	t.Run("scan", func(t *testing.T) {
		var scanned user
		assert.NoError(t, doc.Scan(&scanned))
		assert.Equal(t, usr.ID, scanned.ID)
		assert.Equal(t, usr.Contact.Email, scanned.Contact.Email)
	})
	t.Run("encode", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, doc.Encode(&buf))
		assert.JSONEq(t, doc.String(), buf.String())
	})
	t.Run("invalid json is rejected", func(t *testing.T) {
		_, err := NewDocumentFromBytes([]byte(`{"name":`))
		assert.Error(t, err)
	})
	t.Run("arrays are not documents", func(t *testing.T) {
		_, err := NewDocumentFromBytes([]byte(`[1,2,3]`))
		assert.Error(t, err)
	})
	t.Run("get documents preserves order", func(t *testing.T) {
		d, err := NewDocumentFromBytes([]byte(`{"batch":[{"n":1},{"n":2},{"n":3}]}`))
		assert.NoError(t, err)
		docs := d.GetDocuments("batch")
		assert.Len(t, docs, 3)
		for i, item := range docs {
			assert.EqualValues(t, i+1, item.GetInt("n"))
		}
	})
}

func TestDocuments(t *testing.T) {
	var docs Documents
	for i := 0; i < 5; i++ {
		d := NewDocument()
		assert.NoError(t, d.Set("i", i))
		docs = append(docs, d)
	}
	t.Run("slice", func(t *testing.T) {
		assert.Len(t, docs.Slice(1, 3), 2)
	})
	t.Run("filter", func(t *testing.T) {
		even := docs.Filter(func(document *Document, i int) bool {
			return document.GetInt("i")%2 == 0
		})
		assert.Len(t, even, 3)
	})
	t.Run("map", func(t *testing.T) {
		doubled := docs.Map(func(d *Document, i int) *Document {
			c := d.Clone()
			assert.NoError(t, c.Set("i", d.GetInt("i")*2))
			return c
		})
		assert.EqualValues(t, 8, doubled[4].GetInt("i"))
	})
	t.Run("for each", func(t *testing.T) {
		var total int64
		docs.ForEach(func(next *Document, i int) {
			total += next.GetInt("i")
		})
		assert.EqualValues(t, 10, total)
	})
}
