package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/autom8ter/grizzly"
	"github.com/autom8ter/grizzly/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSeed(t *testing.T) {
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

		seed := func(t *testing.T, collection string, docs grizzly.Documents) (int, string) {
			bits, err := json.Marshal(docs)
			assert.NoError(t, err)
			resp, err := http.Post(s.URL+"/api/collections/"+collection+"/seed", "application/json", bytes.NewReader(bits))
			assert.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			assert.NoError(t, err)
			return resp.StatusCode, string(body)
		}
		count := func(t *testing.T, collection string) int64 {
			resp, err := http.Get(s.URL + "/api/collections/" + collection + "/stats")
			assert.NoError(t, err)
			defer resp.Body.Close()
			bits, err := io.ReadAll(resp.Body)
			assert.NoError(t, err)
			stats, err := grizzly.NewDocumentFromBytes(bits)
			assert.NoError(t, err)
			return stats.GetInt("count")
		}

		t.Run("seed", func(t *testing.T) {
			status, body := seed(t, "user", grizzly.Documents{testutil.NewUserDoc(), testutil.NewUserDoc()})
			assert.Equal(t, 200, status, body)
			assert.JSONEq(t, `{"ok":1}`, body)
			assert.EqualValues(t, 2, count(t, "user"))
		})
		t.Run("seeding creates missing collections", func(t *testing.T) {
			doc, err := grizzly.NewDocumentFrom(map[string]any{"n": 1})
			assert.NoError(t, err)
			status, body := seed(t, "scratch", grizzly.Documents{doc})
			assert.Equal(t, 200, status, body)

			resp, err := http.Get(s.URL + "/api/collections")
			assert.NoError(t, err)
			defer resp.Body.Close()
			var names []string
			assert.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
			assert.Contains(t, names, "scratch")
		})
		t.Run("schema violations are rejected", func(t *testing.T) {
			bad, err := grizzly.NewDocumentFrom(map[string]any{"name": 1234})
			assert.NoError(t, err)
			status, body := seed(t, "user", grizzly.Documents{bad})
			assert.Equal(t, 400, status, body)
			assert.EqualValues(t, 2, count(t, "user"))
		})
		t.Run("duplicate unique keys conflict", func(t *testing.T) {
			first := testutil.NewUserDoc()
			second := testutil.NewUserDoc()
			assert.NoError(t, second.Set("contact.email", first.GetString("contact.email")))
			status, body := seed(t, "user", grizzly.Documents{first, second})
			assert.Equal(t, 409, status, body)
		})
		t.Run("body must be an array of objects", func(t *testing.T) {
			resp, err := http.Post(s.URL+"/api/collections/user/seed", "application/json", strings.NewReader(`{"not":"an array"}`))
			assert.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, 400, resp.StatusCode)
		})
	}))
}
