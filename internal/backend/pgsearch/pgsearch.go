// Package pgsearch provides full-text search over PostgreSQL tables using
// case-insensitive pattern matching
package pgsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/stacklok/toolhive-search/internal/backend"
	"github.com/stacklok/toolhive-search/internal/config"
	"github.com/stacklok/toolhive-search/internal/search"
)

// Name identifies the backend
const Name = config.BackendPostgres

// DB is the subset of a connection pool used by the backend
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// Backend searches one table per entity source
type Backend struct {
	db DB
}

var _ backend.Backend = (*Backend)(nil)

// New creates a backend over db
func New(db DB) *Backend {
	return &Backend{db: db}
}

// Name implements backend.Backend
func (*Backend) Name() string {
	return Name
}

// Searcher implements backend.Backend
func (b *Backend) Searcher(cfg config.EntityConfig) (search.FullTextSearcher, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("entity %s has no source table", cfg.ID)
	}
	if len(cfg.SearchFields) == 0 {
		return nil, fmt.Errorf("entity %s has no search fields", cfg.ID)
	}
	return &tableSearcher{db: b.db, sql: buildQuery(cfg)}, nil
}

// Ping implements backend.Backend
func (b *Backend) Ping(ctx context.Context) error {
	return backend.Wrap(Name, "ping", b.db.Ping(ctx))
}

// Close implements backend.Backend
func (b *Backend) Close() error {
	b.db.Close()
	return nil
}

// buildQuery returns the statement for an entity. $1 is the pattern and $2,
// when present in the call, the limit.
func buildQuery(cfg config.EntityConfig) string {
	table := pgx.Identifier(strings.Split(cfg.Source, ".")).Sanitize()

	conditions := make([]string, 0, len(cfg.SearchFields))
	for _, field := range cfg.SearchFields {
		conditions = append(conditions, fmt.Sprintf("t.%s::text ILIKE $1", pgx.Identifier{field}.Sanitize()))
	}

	return fmt.Sprintf("SELECT t.%s::text, row_to_json(t)::text FROM %s AS t WHERE %s ORDER BY 1",
		pgx.Identifier{cfg.GetIDField()}.Sanitize(),
		table,
		strings.Join(conditions, " OR "),
	)
}

// likePattern escapes LIKE metacharacters and wraps the query for substring matching
func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(query))
	return "%" + escaped + "%"
}

type tableSearcher struct {
	db  DB
	sql string
}

var _ search.FullTextSearcher = (*tableSearcher)(nil)

// Search runs the entity statement. A zero limit returns every match.
func (s *tableSearcher) Search(ctx context.Context, query string, limit int) ([]search.Record, error) {
	sql := s.sql
	args := []any{likePattern(query)}
	if limit > 0 {
		sql += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, backend.Wrap(Name, "query", err)
	}
	defer rows.Close()

	var records []search.Record
	for rows.Next() {
		var id, row string
		if err := rows.Scan(&id, &row); err != nil {
			return nil, backend.Wrap(Name, "scan", err)
		}

		fields, err := decodeRow(row)
		if err != nil {
			return nil, backend.Wrap(Name, "decode row", err)
		}
		records = append(records, search.Record{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, backend.Wrap(Name, "query", err)
	}
	return records, nil
}

func decodeRow(row string) (map[string]any, error) {
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader([]byte(row)))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
