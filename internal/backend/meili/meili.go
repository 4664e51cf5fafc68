// Package meili provides full-text search backed by Meilisearch indexes
package meili

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/meilisearch/meilisearch-go"

	"github.com/stacklok/toolhive-search/internal/backend"
	"github.com/stacklok/toolhive-search/internal/config"
	"github.com/stacklok/toolhive-search/internal/search"
	"github.com/stacklok/toolhive-search/internal/versions"
)

// Name identifies the backend
const Name = config.BackendMeilisearch

// MinimumVersion is the oldest Meilisearch server the backend supports
const MinimumVersion = "1.0.0"

// Backend searches one Meilisearch index per entity source
type Backend struct {
	client meilisearch.ServiceManager
	prefix string
}

var (
	_ backend.Backend        = (*Backend)(nil)
	_ backend.VersionChecker = (*Backend)(nil)
)

// New creates a backend from configuration
func New(cfg *config.MeilisearchConfig) (*Backend, error) {
	if cfg == nil || cfg.Host == "" {
		return nil, fmt.Errorf("meilisearch host is required")
	}

	apiKey, err := cfg.GetAPIKey()
	if err != nil {
		return nil, err
	}

	client := meilisearch.New(cfg.Host,
		meilisearch.WithAPIKey(apiKey),
		meilisearch.WithCustomClient(&http.Client{Timeout: cfg.GetTimeout()}),
	)
	return NewWithClient(client, cfg.IndexPrefix), nil
}

// NewWithClient creates a backend over an existing client
func NewWithClient(client meilisearch.ServiceManager, indexPrefix string) *Backend {
	return &Backend{client: client, prefix: indexPrefix}
}

// Name implements backend.Backend
func (*Backend) Name() string {
	return Name
}

// Searcher implements backend.Backend
func (b *Backend) Searcher(cfg config.EntityConfig) (search.FullTextSearcher, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("entity %s has no source index", cfg.ID)
	}
	return &indexSearcher{
		index:   b.client.Index(b.prefix + cfg.Source),
		idField: cfg.GetIDField(),
	}, nil
}

// Ping implements backend.Backend
func (b *Backend) Ping(ctx context.Context) error {
	health, err := b.client.HealthWithContext(ctx)
	if err != nil {
		return backend.Wrap(Name, "health", err)
	}
	if health.Status != "available" {
		return backend.Wrap(Name, "health", fmt.Errorf("status is %q", health.Status))
	}
	return nil
}

// CheckVersion fails when the server is older than MinimumVersion
func (b *Backend) CheckVersion(ctx context.Context) error {
	v, err := b.client.VersionWithContext(ctx)
	if err != nil {
		return backend.Wrap(Name, "version", err)
	}
	if !versions.AtLeast(v.PkgVersion, MinimumVersion) {
		return backend.Wrap(Name, "version",
			fmt.Errorf("server version %s is older than %s", v.PkgVersion, MinimumVersion))
	}
	return nil
}

// Close implements backend.Backend
func (*Backend) Close() error {
	return nil
}

var _ search.FullTextSearcher = (*indexSearcher)(nil)

type indexSearcher struct {
	index   meilisearch.IndexManager
	idField string
}

// Search queries the index. A zero limit leaves paging to Meilisearch.
func (s *indexSearcher) Search(ctx context.Context, query string, limit int) ([]search.Record, error) {
	request := &meilisearch.SearchRequest{Query: query}
	if limit > 0 {
		request.Limit = int64(limit)
	}

	resp, err := s.index.SearchWithContext(ctx, query, request)
	if err != nil {
		return nil, backend.Wrap(Name, "search", err)
	}

	hits, err := decodeHits(resp.Hits)
	if err != nil {
		return nil, backend.Wrap(Name, "decode hits", err)
	}

	records := make([]search.Record, 0, len(hits))
	for _, hit := range hits {
		record := search.Record{Fields: hit}
		if id, ok := hit[s.idField]; ok && id != nil {
			record.ID = fmt.Sprint(id)
		}
		records = append(records, record)
	}
	return records, nil
}

// decodeHits converts raw hits into field maps, keeping numbers exact
func decodeHits(raw any) ([]map[string]any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	var hits []map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&hits); err != nil {
		return nil, err
	}
	return hits, nil
}
