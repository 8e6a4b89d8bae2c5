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

func TestStats(t *testing.T) {
	assert.NoError(t, testutil.TestDB(func(ctx context.Context, db *grizzly.DB) {
		var docs []*grizzly.Document
		for i := 0; i < 5; i++ {
			docs = append(docs, testutil.NewUserDoc())
		}
		assert.NoError(t, db.Seed(ctx, "user", docs))
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

		get := func(t *testing.T, path string) (int, *grizzly.Document) {
			resp, err := http.Get(s.URL + path)
			assert.NoError(t, err)
			defer resp.Body.Close()
			bits, err := io.ReadAll(resp.Body)
			assert.NoError(t, err)
			doc, err := grizzly.NewDocumentFromBytes(bits)
			assert.NoError(t, err, string(bits))
			return resp.StatusCode, doc
		}

		t.Run("stats", func(t *testing.T) {
			status, stats := get(t, "/api/collections/user/stats")
			assert.Equal(t, 200, status)
			assert.EqualValues(t, 1, stats.GetInt("ok"))
			assert.Equal(t, "default.user", stats.GetString("ns"))
			assert.EqualValues(t, 5, stats.GetInt("count"))
			assert.EqualValues(t, 4, stats.GetInt("nindexes"))
			assert.EqualValues(t, 1, stats.GetInt("scaleFactor"))
			assert.Greater(t, stats.GetInt("size"), int64(0))
		})
		t.Run("scaled stats", func(t *testing.T) {
			status, stats := get(t, "/api/collections/user/stats?scale=1024")
			assert.Equal(t, 200, status)
			assert.EqualValues(t, 1024, stats.GetInt("scaleFactor"))
		})
		t.Run("scale below one is rejected", func(t *testing.T) {
			status, errBody := get(t, "/api/collections/user/stats?scale=0")
			assert.Equal(t, 400, status)
			assert.EqualValues(t, 400, errBody.GetInt("code"))
		})
		t.Run("stats for a missing collection", func(t *testing.T) {
			status, stats := get(t, "/api/collections/ghost/stats")
			assert.Equal(t, 200, status)
			assert.EqualValues(t, 0, stats.GetInt("ok"))
			assert.EqualValues(t, 26, stats.GetInt("code"))
		})
		t.Run("capped", func(t *testing.T) {
			status, capped := get(t, "/api/collections/task/capped")
			assert.Equal(t, 200, status)
			assert.True(t, capped.GetBool("capped"))

			status, capped = get(t, "/api/collections/user/capped")
			assert.Equal(t, 200, status)
			assert.False(t, capped.GetBool("capped"))
		})
		t.Run("capped treats a missing collection as uncapped", func(t *testing.T) {
			status, capped := get(t, "/api/collections/ghost/capped")
			assert.Equal(t, 200, status)
			assert.False(t, capped.GetBool("capped"))
		})
	}))
}
