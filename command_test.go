package grizzly_test

import (
	"testing"

	"github.com/autom8ter/grizzly"
	"github.com/stretchr/testify/assert"
)

func TestCommand(t *testing.T) {
	t.Run("verb is the first body field", func(t *testing.T) {
		cmd := grizzly.NewCommand("testing", "collStats", "user")
		assert.Equal(t, "testing", cmd.Database())
		assert.Equal(t, "collStats", cmd.Verb())
		assert.Equal(t, "user", cmd.Body().GetString("collStats"))
	})
	t.Run("with appends and preserves field order", func(t *testing.T) {
		cmd := grizzly.NewCommand("testing", "collStats", "user").
			With("scale", 1024).
			With("verbose", true)
		assert.Equal(t, []string{"collStats", "scale", "verbose"}, cmd.Body().Fields())
		assert.EqualValues(t, 1024, cmd.Body().GetInt("scale"))
	})
	t.Run("with does not mutate the receiver", func(t *testing.T) {
		base := grizzly.NewCommand("testing", "drop", "user")
		scaled := base.With("comment", "bye")
		assert.Equal(t, []string{"drop"}, base.Body().Fields())
		assert.Equal(t, []string{"drop", "comment"}, scaled.Body().Fields())
	})
	t.Run("read preference defaults to empty", func(t *testing.T) {
		cmd := grizzly.NewCommand("testing", "create", "user")
		assert.Equal(t, grizzly.ReadPreference(""), cmd.ReadPreference())
		read := cmd.WithReadPreference(grizzly.ReadNearest)
		assert.Equal(t, grizzly.ReadNearest, read.ReadPreference())
		assert.Equal(t, grizzly.ReadPreference(""), cmd.ReadPreference())
	})
	t.Run("from document", func(t *testing.T) {
		doc := grizzly.NewDocument()
		assert.NoError(t, doc.Set("listIndexes", "user"))
		assert.NoError(t, doc.Set("cursor", map[string]any{}))
		cmd, err := grizzly.CommandFromDocument("testing", doc)
		assert.NoError(t, err)
		assert.Equal(t, "listIndexes", cmd.Verb())

		// the body is cloned - mutating the source afterwards changes nothing
		assert.NoError(t, doc.Set("listIndexes", "other"))
		assert.Equal(t, "user", cmd.Body().GetString("listIndexes"))
	})
	t.Run("from empty document fails", func(t *testing.T) {
		_, err := grizzly.CommandFromDocument("testing", grizzly.NewDocument())
		assert.Error(t, err)
		_, err = grizzly.CommandFromDocument("testing", nil)
		assert.Error(t, err)
	})
	t.Run("string renders the body", func(t *testing.T) {
		cmd := grizzly.NewCommand("testing", "ping", 1)
		assert.JSONEq(t, `{"ping":1}`, cmd.String())
	})
}

func TestReadPreference(t *testing.T) {
	for _, rp := range []grizzly.ReadPreference{
		grizzly.ReadPreference(""),
		grizzly.ReadPrimary,
		grizzly.ReadPrimaryPreferred,
		grizzly.ReadSecondary,
		grizzly.ReadSecondaryPreferred,
		grizzly.ReadNearest,
	} {
		assert.True(t, rp.Valid(), "%s should be valid", rp)
	}
	assert.False(t, grizzly.ReadPreference("leader").Valid())
}
