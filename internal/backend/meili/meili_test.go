package meili

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-search/internal/backend"
	"github.com/stacklok/toolhive-search/internal/config"
)

type searchCall struct {
	path string
	body map[string]any
}

func newServer(t *testing.T, calls *[]searchCall) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"available"}`)
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"commitSha":"abc","commitDate":"2025-01-01T00:00:00Z","pkgVersion":"1.12.3"}`)
	})
	mux.HandleFunc("/indexes/admin_users/search", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		*calls = append(*calls, searchCall{path: r.URL.Path, body: body})

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"hits": [
				{"id": 42, "name": "Ada Lovelace", "email": "ada@example.com"},
				{"id": "abc", "name": "Alan Turing"}
			],
			"query": "a",
			"processingTimeMs": 1,
			"limit": 20,
			"offset": 0,
			"estimatedTotalHits": 2
		}`)
	})
	mux.HandleFunc("/indexes/admin_missing/search", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Index admin_missing not found.","code":"index_not_found","type":"invalid_request","link":""}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSearcher_Search(t *testing.T) {
	t.Parallel()

	var calls []searchCall
	server := newServer(t, &calls)

	b, err := New(&config.MeilisearchConfig{Host: server.URL, IndexPrefix: "admin_"})
	require.NoError(t, err)
	assert.Equal(t, "meilisearch", b.Name())

	searcher, err := b.Searcher(config.EntityConfig{ID: "UserResource", Source: "users"})
	require.NoError(t, err)

	records, err := searcher.Search(context.Background(), "a", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "42", records[0].ID)
	assert.Equal(t, "Ada Lovelace", records[0].Field("name"))
	assert.Equal(t, "ada@example.com", records[0].Field("email"))
	assert.Equal(t, "abc", records[1].ID)

	require.Len(t, calls, 1)
	assert.Equal(t, "a", calls[0].body["q"])
	assert.NotContains(t, calls[0].body, "limit")

	_, err = searcher.Search(context.Background(), "a", 5)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.EqualValues(t, 5, calls[1].body["limit"])
}

func TestSearcher_SearchError(t *testing.T) {
	t.Parallel()

	var calls []searchCall
	server := newServer(t, &calls)

	b, err := New(&config.MeilisearchConfig{Host: server.URL, IndexPrefix: "admin_"})
	require.NoError(t, err)

	searcher, err := b.Searcher(config.EntityConfig{ID: "MissingResource", Source: "missing"})
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "a", 0)
	require.Error(t, err)

	var backendErr *backend.Error
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, "meilisearch", backendErr.Backend)
	assert.Equal(t, "search", backendErr.Op)
}

func TestBackend_Ping(t *testing.T) {
	t.Parallel()

	var calls []searchCall
	server := newServer(t, &calls)

	b, err := New(&config.MeilisearchConfig{Host: server.URL})
	require.NoError(t, err)
	require.NoError(t, b.Ping(context.Background()))
	require.NoError(t, b.CheckVersion(context.Background()))
	require.NoError(t, b.Close())

	server.Close()
	require.Error(t, b.Ping(context.Background()))
}

func TestBackend_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.Error(t, err)

	_, err = New(&config.MeilisearchConfig{})
	require.Error(t, err)

	b, err := New(&config.MeilisearchConfig{Host: "http://localhost:7700"})
	require.NoError(t, err)

	_, err = b.Searcher(config.EntityConfig{ID: "UserResource"})
	require.Error(t, err)
}

func TestBackend_CheckVersionTooOld(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"commitSha":"abc","commitDate":"2022-01-01T00:00:00Z","pkgVersion":"0.30.5"}`)
	}))
	t.Cleanup(server.Close)

	b, err := New(&config.MeilisearchConfig{Host: server.URL})
	require.NoError(t, err)

	err = b.CheckVersion(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "older than 1.0.0")
}
