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

func TestGetSpec(t *testing.T) {
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
		{
			req, err := http.NewRequest(http.MethodGet, s.URL+"/openapi.yaml", nil)
			assert.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			assert.NoError(t, err)
			defer resp.Body.Close()
			bits, _ := io.ReadAll(resp.Body)
			assert.Equal(t, 200, resp.StatusCode, string(bits))
			assert.Equal(t, "application/x-yaml", resp.Header.Get("Content-Type"))
			assert.YAMLEq(t, expectedSchema, string(bits))
		}
		{
			req, err := http.NewRequest(http.MethodGet, s.URL+"/openapi.json", nil)
			assert.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			assert.NoError(t, err)
			defer resp.Body.Close()
			bits, _ := io.ReadAll(resp.Body)
			assert.Equal(t, 200, resp.StatusCode, string(bits))
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			doc, err := grizzly.NewDocumentFromBytes(bits)
			assert.NoError(t, err)
			assert.Equal(t, "testing", doc.GetString("info.title"))
			assert.Equal(t, "v0.0.0", doc.GetString("info.version"))
		}
	}))
}
