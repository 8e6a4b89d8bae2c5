package openapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autom8ter/grizzly"
	"github.com/autom8ter/grizzly/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGetSDK(t *testing.T) {
	assert.NoError(t, testutil.TestDB(func(ctx context.Context, db *grizzly.DB) {
		oapi, err := New(Config{
			Title:       "testing",
			Version:     "v0.0.0",
			Description: "testing openapi schema",
			Port:        8080,
		})
		assert.NoError(t, err)
		assert.NoError(t, oapi.RegisterRoutes(ctx, db))
		s := httptest.NewServer(oapi.router)
		defer s.Close()

		t.Run("default package name", func(t *testing.T) {
			resp, err := http.Get(s.URL + "/api/sdk")
			assert.NoError(t, err)
			defer resp.Body.Close()
			bits, err := io.ReadAll(resp.Body)
			assert.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode, string(bits))
			assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
			assert.Contains(t, string(bits), "package testing_client")
			assert.Contains(t, string(bits), "func NewClient")
		})
		t.Run("custom package name", func(t *testing.T) {
			resp, err := http.Get(s.URL + "/api/sdk?pkg=custom")
			assert.NoError(t, err)
			defer resp.Body.Close()
			bits, err := io.ReadAll(resp.Body)
			assert.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode, string(bits))
			assert.Contains(t, string(bits), "package custom")
		})
	}))
}
