package grizzly_test

import (
	"context"
	"testing"

	"github.com/autom8ter/grizzly"
	"github.com/stretchr/testify/assert"
)

func TestMetadata(t *testing.T) {
	t.Run("namespace defaults", func(t *testing.T) {
		ctx := context.Background()
		assert.Equal(t, "default", grizzly.GetMetadataValue(ctx, grizzly.MetadataKeyNamespace))
		assert.Nil(t, grizzly.GetMetadataValue(ctx, grizzly.MetadataKeyUserID))
	})
	t.Run("set values", func(t *testing.T) {
		ctx := grizzly.SetMetadataValues(context.Background(), map[string]any{
			grizzly.MetadataKeyUserID: "usr_123",
			"tenant":                  "acme",
		})
		assert.Equal(t, "usr_123", grizzly.GetMetadataValue(ctx, grizzly.MetadataKeyUserID))
		assert.Equal(t, "acme", grizzly.GetMetadataValue(ctx, "tenant"))
	})
	t.Run("set namespace", func(t *testing.T) {
		ctx := grizzly.SetMetadataNamespace(context.Background(), "testing")
		assert.Equal(t, "testing", grizzly.GetMetadataValue(ctx, grizzly.MetadataKeyNamespace))
	})
	t.Run("set request id", func(t *testing.T) {
		ctx := grizzly.SetMetadataRequestID(context.Background(), "req_1")
		assert.Equal(t, "req_1", grizzly.GetMetadataValue(ctx, grizzly.MetadataKeyRequestID))
	})
	t.Run("get metadata reports presence", func(t *testing.T) {
		md, ok := grizzly.GetMetadata(context.Background())
		assert.False(t, ok)
		assert.Equal(t, "default", md.GetString(grizzly.MetadataKeyNamespace))

		ctx := grizzly.SetMetadataUserID(context.Background(), "usr_9")
		md, ok = grizzly.GetMetadata(ctx)
		assert.True(t, ok)
		assert.Equal(t, "usr_9", md.GetString(grizzly.MetadataKeyUserID))
	})
	t.Run("extract always returns a document", func(t *testing.T) {
		md := grizzly.ExtractMetadata(context.Background())
		assert.NotNil(t, md)
		assert.Equal(t, "default", md.GetString(grizzly.MetadataKeyNamespace))
	})
}
