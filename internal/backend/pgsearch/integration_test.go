package pgsearch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-search/internal/backend/pgsearch"
	"github.com/stacklok/toolhive-search/internal/config"
	"github.com/stacklok/toolhive-search/internal/db"
	"github.com/stacklok/toolhive-search/internal/db/dbtest"
)

const schema = `
CREATE TABLE users (
	id    integer PRIMARY KEY,
	name  text NOT NULL,
	email text NOT NULL
);
INSERT INTO users (id, name, email) VALUES
	(1, 'Ada Lovelace', 'ada@example.com'),
	(2, 'Grace Hopper', 'grace@example.com'),
	(3, 'Alan Turing', 'alan@example.org'),
	(4, '100% Done', 'done@example.com');
`

func TestBackend_Postgres(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dbtest.SetupPostgres(t))
	require.NoError(t, err)

	_, err = pool.Exec(ctx, schema)
	require.NoError(t, err)

	b := pgsearch.New(pool)
	t.Cleanup(func() { _ = b.Close() })
	require.NoError(t, b.Ping(ctx))

	searcher, err := b.Searcher(config.EntityConfig{
		ID:           "UserResource",
		Source:       "users",
		TitleField:   "name",
		SearchFields: []string{"name", "email"},
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		query   string
		limit   int
		wantIDs []string
	}{
		{name: "case insensitive name", query: "ada", wantIDs: []string{"1"}},
		{name: "email domain", query: "example.com", wantIDs: []string{"1", "2", "4"}},
		{name: "limit", query: "example", limit: 2, wantIDs: []string{"1", "2"}},
		{name: "percent is literal", query: "100%", wantIDs: []string{"4"}},
		{name: "underscore is literal", query: "a_a", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			records, err := searcher.Search(ctx, tt.query, tt.limit)
			require.NoError(t, err)

			var ids []string
			for _, r := range records {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	records, err := searcher.Search(ctx, "grace", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Grace Hopper", records[0].Field("name"))
	assert.Equal(t, "grace@example.com", records[0].Field("email"))
}
