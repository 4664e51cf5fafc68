package search_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-search/internal/exclusion"
	"github.com/stacklok/toolhive-search/internal/search"
	"github.com/stacklok/toolhive-search/internal/search/mocks"
)

// stubEntity presents records using their fields. Searchable is decided by
// the embedding type.
type stubEntity struct {
	id         string
	label      string
	searchable bool
}

func (e stubEntity) ID() string { return e.id }
func (e stubEntity) PluralLabel() string { return e.label }
func (e stubEntity) CanGloballySearch() bool { return e.searchable }
func (stubEntity) ResultTitle(r search.Record) string {
	return r.Field("name")
}
func (stubEntity) ResultURL(r search.Record) string {
	return r.Field("url")
}
func (stubEntity) ResultDetails(r search.Record) map[string]string {
	return map[string]string{"email": r.Field("email")}
}
func (stubEntity) ResultActions(r search.Record) []search.Action {
	return []search.Action{{Label: "Edit", URL: r.Field("url") + "/edit"}}
}

// searchableEntity adds a full-text capability to stubEntity
type searchableEntity struct {
	stubEntity
	searcher search.FullTextSearcher
}

func (e searchableEntity) Searcher() search.FullTextSearcher { return e.searcher }

func staticSearcher(records ...search.Record) search.FullTextSearcher {
	return search.FullTextSearcherFunc(func(context.Context, string, int) ([]search.Record, error) {
		return records, nil
	})
}

func newResolver(t *testing.T, rules map[string][]string) *exclusion.Resolver {
	t.Helper()
	registry := exclusion.NewRegistry()
	registry.AddRules(rules)
	resolver, err := exclusion.NewResolver(registry)
	require.NoError(t, err)
	return resolver
}

func newProvider(t *testing.T, entities []search.EntityType, excluder search.Excluder, opts ...search.ProviderOption) *search.Provider {
	t.Helper()
	provider, err := search.NewProvider(entities, excluder, opts...)
	require.NoError(t, err)
	return provider
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	_, err := search.NewProvider(nil, nil)
	require.Error(t, err)

	_, err = search.NewProvider(nil, newResolver(t, nil), search.WithLimit(0))
	require.Error(t, err)

	_, err = search.NewProvider(nil, newResolver(t, nil), search.WithOptions(search.Options{Limit: -1}))
	require.Error(t, err)

	provider, err := search.NewProvider(nil, newResolver(t, nil),
		search.WithOptions(search.Options{ApplyLimit: true}), search.WithLimit(25))
	require.NoError(t, err)
	assert.Equal(t, search.Options{ApplyLimit: true, Limit: 25}, provider.Options())
}

func TestPresetOptions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, search.Options{ApplyLimit: false, CheckTypeName: true}, search.PresetOptions("meilisearch"))
	assert.Equal(t, search.Options{ApplyLimit: true, CheckTypeName: false}, search.PresetOptions("bleve"))
	assert.Equal(t, search.Options{ApplyLimit: true, CheckTypeName: false}, search.PresetOptions("postgres"))
}

func TestProvider_GetResults(t *testing.T) {
	t.Parallel()

	users := searchableEntity{
		stubEntity: stubEntity{id: "UserResource", label: "Users", searchable: true},
		searcher: staticSearcher(
			search.Record{ID: "1", Fields: map[string]any{"name": "Alice", "url": "/users/1", "email": "alice@example.com"}},
			search.Record{ID: "2", Fields: map[string]any{"name": "Bob", "url": "", "email": "bob@example.com"}},
			search.Record{ID: "3", Fields: map[string]any{"name": "Carol", "url": "   "}},
		),
	}
	certificates := searchableEntity{
		stubEntity: stubEntity{id: "CertificateResource", label: "Certificates", searchable: true},
		searcher: staticSearcher(
			search.Record{ID: "9", Fields: map[string]any{"name": "Root CA", "url": "/certificates/9"}},
		),
	}
	hidden := searchableEntity{
		stubEntity: stubEntity{id: "HiddenResource", label: "Hidden", searchable: false},
		searcher:   staticSearcher(search.Record{ID: "1", Fields: map[string]any{"name": "x", "url": "/x"}}),
	}

	provider := newProvider(t,
		[]search.EntityType{users, hidden, certificates},
		newResolver(t, map[string][]string{"^cert": {"CertificateResource"}}))

	t.Run("maps records and drops blank urls", func(t *testing.T) {
		t.Parallel()

		results, err := provider.GetResults(context.Background(), "alice")
		require.NoError(t, err)
		require.Len(t, results.Categories, 2)

		assert.Equal(t, "Users", results.Categories[0].Name)
		assert.Equal(t, []search.Result{{
			Title:   "Alice",
			URL:     "/users/1",
			Details: map[string]string{"email": "alice@example.com"},
			Actions: []search.Action{{Label: "Edit", URL: "/users/1/edit"}},
		}}, results.Categories[0].Results)

		assert.Equal(t, "Certificates", results.Categories[1].Name)
		_, ok := results.Get("Hidden")
		assert.False(t, ok, "types that cannot be globally searched are skipped")
	})

	t.Run("excluded entity types are skipped", func(t *testing.T) {
		t.Parallel()

		results, err := provider.GetResults(context.Background(), "ce")
		require.NoError(t, err)
		require.Len(t, results.Categories, 1)
		assert.Equal(t, "Users", results.Categories[0].Name)
	})

	t.Run("explicit excluder overrides the default", func(t *testing.T) {
		t.Parallel()

		results, err := provider.GetResultsWith(context.Background(), "anything",
			newResolver(t, map[string][]string{"": {"UserResource", "CertificateResource"}}))
		require.NoError(t, err)
		assert.Empty(t, results.Categories)
		assert.NotNil(t, results.Categories)
	})
}

func TestProvider_GetResults_NotSearchable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	plain := mocks.NewMockEntityType(ctrl)
	plain.EXPECT().CanGloballySearch().Return(true)
	plain.EXPECT().ID().Return("PlainResource").AnyTimes()

	provider := newProvider(t, []search.EntityType{plain}, newResolver(t, nil))

	results, err := provider.GetResults(context.Background(), "anything")
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, search.ErrNotSearchable))
	assert.Contains(t, err.Error(), "PlainResource")
}

func TestProvider_GetResults_NilSearcherIsNotSearchable(t *testing.T) {
	t.Parallel()

	entity := searchableEntity{stubEntity: stubEntity{id: "UserResource", label: "Users", searchable: true}}
	provider := newProvider(t, []search.EntityType{entity}, newResolver(t, nil))

	_, err := provider.GetResults(context.Background(), "anything")
	require.ErrorIs(t, err, search.ErrNotSearchable)
}

func TestProvider_GetResults_ExcludedBeforeCapabilityCheck(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	plain := mocks.NewMockEntityType(ctrl)
	plain.EXPECT().CanGloballySearch().Return(true)
	plain.EXPECT().ID().Return("PlainResource").AnyTimes()

	provider := newProvider(t, []search.EntityType{plain},
		newResolver(t, map[string][]string{"plain": {"PlainResource"}}))

	results, err := provider.GetResults(context.Background(), "plain")
	require.NoError(t, err)
	assert.Empty(t, results.Categories)
}

func TestProvider_GetResults_EmptyCategoryOmitted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	searcher := mocks.NewMockFullTextSearcher(ctrl)
	searcher.EXPECT().Search(gomock.Any(), "nobody", 100).Return([]search.Record{
		{ID: "1", Fields: map[string]any{"name": "Ghost"}},
	}, nil)

	entity := mocks.NewMockSearchableEntityType(ctrl)
	entity.EXPECT().CanGloballySearch().Return(true)
	entity.EXPECT().ID().Return("UserResource").AnyTimes()
	entity.EXPECT().Searcher().Return(searcher)
	entity.EXPECT().ResultURL(gomock.Any()).Return("")
	entity.EXPECT().PluralLabel().Return("Users").AnyTimes()

	provider := newProvider(t, []search.EntityType{entity}, newResolver(t, nil),
		search.WithOptions(search.Options{ApplyLimit: true}), search.WithLimit(100))

	results, err := provider.GetResults(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, results.Categories)
	_, ok := results.Get("Users")
	assert.False(t, ok)
}

func TestProvider_GetResults_Limit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      search.Options
		wantLimit int
	}{
		{name: "limit applied", opts: search.Options{ApplyLimit: true, Limit: 5}, wantLimit: 5},
		{name: "limit not applied", opts: search.Options{ApplyLimit: false, Limit: 5}, wantLimit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			t.Cleanup(ctrl.Finish)

			searcher := mocks.NewMockFullTextSearcher(ctrl)
			searcher.EXPECT().Search(gomock.Any(), "alice", tt.wantLimit).Return(nil, nil)

			entity := searchableEntity{
				stubEntity: stubEntity{id: "UserResource", label: "Users", searchable: true},
				searcher:   searcher,
			}
			provider := newProvider(t, []search.EntityType{entity}, newResolver(t, nil), search.WithOptions(tt.opts))

			results, err := provider.GetResults(context.Background(), "alice")
			require.NoError(t, err)
			assert.Empty(t, results.Categories)
		})
	}
}

func TestProvider_GetResults_BackendError(t *testing.T) {
	t.Parallel()

	backendErr := errors.New("connection refused")
	entity := searchableEntity{
		stubEntity: stubEntity{id: "UserResource", label: "Users", searchable: true},
		searcher: search.FullTextSearcherFunc(func(context.Context, string, int) ([]search.Record, error) {
			return nil, backendErr
		}),
	}
	provider := newProvider(t, []search.EntityType{entity}, newResolver(t, nil))

	_, err := provider.GetResults(context.Background(), "alice")
	require.ErrorIs(t, err, backendErr)
	assert.Contains(t, err.Error(), "failed to search UserResource")
	assert.False(t, errors.Is(err, search.ErrNotSearchable))
}

// namedEntity carries a secondary identity
type namedEntity struct {
	searchableEntity
	typeName string
}

func (e namedEntity) TypeName() string { return e.typeName }

func TestProvider_GetResults_CheckTypeName(t *testing.T) {
	t.Parallel()

	entity := namedEntity{
		searchableEntity: searchableEntity{
			stubEntity: stubEntity{id: "UserResource", label: "Users", searchable: true},
			searcher:   staticSearcher(search.Record{ID: "1", Fields: map[string]any{"name": "Alice", "url": "/users/1"}}),
		},
		typeName: "users",
	}
	resolver := newResolver(t, map[string][]string{"alice": {"users"}})

	tests := []struct {
		name          string
		checkTypeName bool
		wantCount     int
	}{
		{name: "type name ignored", checkTypeName: false, wantCount: 1},
		{name: "type name checked", checkTypeName: true, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := newProvider(t, []search.EntityType{entity}, resolver,
				search.WithOptions(search.Options{CheckTypeName: tt.checkTypeName}))
			results, err := provider.GetResults(context.Background(), "alice")
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, results.Count())
		})
	}
}

// Replaces the default logger, so it does not run in parallel
func TestProvider_GetResults_LogsExclusionReason(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	entity := namedEntity{
		searchableEntity: searchableEntity{
			stubEntity: stubEntity{id: "UserResource", label: "Users", searchable: true},
			searcher:   staticSearcher(),
		},
		typeName: "users",
	}
	resolver := newResolver(t, map[string][]string{"alice": {"users"}})
	provider := newProvider(t, []search.EntityType{entity}, resolver,
		search.WithOptions(search.Options{CheckTypeName: true}))

	_, err := provider.GetResults(context.Background(), "alice")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Skipping excluded entity type")
	assert.Contains(t, buf.String(), "excluded by substring pattern 'alice' (type name)")
}

func TestProvider_GetResults_KeepsEntityOrder(t *testing.T) {
	t.Parallel()

	entities := []search.EntityType{}
	for _, id := range []string{"C", "A", "B"} {
		entities = append(entities, searchableEntity{
			stubEntity: stubEntity{id: id, label: id + "s", searchable: true},
			searcher:   staticSearcher(search.Record{ID: "1", Fields: map[string]any{"name": id, "url": "/" + id}}),
		})
	}
	provider := newProvider(t, entities, newResolver(t, nil))

	results, err := provider.GetResults(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, results.Categories, 3)
	assert.Equal(t, "Cs", results.Categories[0].Name)
	assert.Equal(t, "As", results.Categories[1].Name)
	assert.Equal(t, "Bs", results.Categories[2].Name)
}
