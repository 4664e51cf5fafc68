// Package bleveindex provides an in-process full-text backend built on bleve
package bleveindex

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"

	"github.com/stacklok/toolhive-search/internal/backend"
	"github.com/stacklok/toolhive-search/internal/config"
	"github.com/stacklok/toolhive-search/internal/search"
)

// Name identifies the backend
const Name = config.BackendBleve

// sourceField holds the entity source of every document
const sourceField = "entity_source"

// Document is a record indexed under an entity source
type Document struct {
	Type   string         `json:"type"`
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

// Backend keeps every entity source in one in-memory index
type Backend struct {
	index bleve.Index
}

var _ backend.Backend = (*Backend)(nil)

// New creates an in-memory index and loads the configured documents file
func New(cfg *config.BleveConfig) (*Backend, error) {
	index, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, backend.Wrap(Name, "create index", err)
	}
	b := &Backend{index: index}

	if cfg == nil || cfg.DocumentsFile == "" {
		slog.Warn("No documents file configured, bleve index is empty")
		return b, nil
	}

	docs, err := LoadDocuments(cfg.DocumentsFile)
	if err != nil {
		_ = index.Close()
		return nil, err
	}
	if err := b.Index(docs); err != nil {
		_ = index.Close()
		return nil, err
	}
	slog.Info("Indexed documents", "count", len(docs), "file", cfg.DocumentsFile)
	return b, nil
}

func newMapping() mapping.IndexMapping {
	source := bleve.NewTextFieldMapping()
	source.Analyzer = keyword.Name
	source.IncludeInAll = false

	m := bleve.NewIndexMapping()
	m.DefaultMapping.AddFieldMappingsAt(sourceField, source)
	return m
}

// LoadDocuments reads a JSON array of documents
func LoadDocuments(path string) ([]Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read documents file: %w", err)
	}

	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse documents file %s: %w", path, err)
	}
	for i, doc := range docs {
		if doc.Type == "" {
			return nil, fmt.Errorf("document[%d]: type is required", i)
		}
	}
	return docs, nil
}

// Index adds documents in a single batch. Documents without an ID get a random one.
func (b *Backend) Index(docs []Document) error {
	batch := b.index.NewBatch()
	for _, doc := range docs {
		id := doc.ID
		if id == "" {
			id = uuid.New().String()
		}

		fields := make(map[string]any, len(doc.Fields)+1)
		for k, v := range doc.Fields {
			fields[k] = v
		}
		fields[sourceField] = doc.Type

		if err := batch.Index(docID(doc.Type, id), fields); err != nil {
			return backend.Wrap(Name, "index", err)
		}
	}
	return backend.Wrap(Name, "index", b.index.Batch(batch))
}

func docID(source, id string) string {
	return source + "/" + id
}

// Name implements backend.Backend
func (*Backend) Name() string {
	return Name
}

// Searcher implements backend.Backend
func (b *Backend) Searcher(cfg config.EntityConfig) (search.FullTextSearcher, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("entity %s has no source document type", cfg.ID)
	}
	return &sourceSearcher{index: b.index, source: cfg.Source}, nil
}

// Ping implements backend.Backend
func (b *Backend) Ping(_ context.Context) error {
	_, err := b.index.DocCount()
	return backend.Wrap(Name, "ping", err)
}

// Close implements backend.Backend
func (b *Backend) Close() error {
	return backend.Wrap(Name, "close", b.index.Close())
}

type sourceSearcher struct {
	index  bleve.Index
	source string
}

var _ search.FullTextSearcher = (*sourceSearcher)(nil)

// Search matches whole terms and term prefixes. A zero limit returns every hit.
func (s *sourceSearcher) Search(ctx context.Context, q string, limit int) ([]search.Record, error) {
	size := limit
	if size <= 0 {
		count, err := s.index.DocCount()
		if err != nil {
			return nil, backend.Wrap(Name, "count", err)
		}
		size = int(count)
	}

	inSource := bleve.NewTermQuery(s.source)
	inSource.SetField(sourceField)

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(textQuery(q), inSource), size, 0, false)
	req.Fields = []string{"*"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, backend.Wrap(Name, "search", err)
	}

	prefix := s.source + "/"
	records := make([]search.Record, 0, len(res.Hits))
	for _, hit := range res.Hits {
		fields := make(map[string]any, len(hit.Fields))
		for k, v := range hit.Fields {
			if k != sourceField {
				fields[k] = v
			}
		}
		records = append(records, search.Record{
			ID:     strings.TrimPrefix(hit.ID, prefix),
			Fields: fields,
		})
	}
	return records, nil
}

func textQuery(q string) query.Query {
	q = strings.TrimSpace(q)
	if q == "" {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewDisjunctionQuery(
		bleve.NewMatchQuery(q),
		bleve.NewPrefixQuery(strings.ToLower(q)),
	)
}
