package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

func newSearchFixture(t *testing.T, backend *mockBackend) (*SearchController, *FileCatalog) {
	t.Helper()
	if backend.ListFilesFunc == nil {
		backend.ListFilesFunc = func(context.Context) ([]domain.FileRecord, error) { return testFiles(), nil }
	}
	catalog := NewFileCatalog(backend, contributorCaps)
	require.NoError(t, catalog.Refresh(context.Background()))
	return NewSearchController(backend, catalog), catalog
}

func TestSearchController_DefaultsToMetadata(t *testing.T) {
	search, _ := newSearchFixture(t, &mockBackend{})
	assert.Equal(t, domain.SearchModeMetadata, search.Mode())
	assert.Len(t, search.Visible(), 3)
}

func TestSearchController_MetadataFilter(t *testing.T) {
	backend := &mockBackend{}
	search, _ := newSearchFixture(t, backend)

	search.SetQuery("PDF")
	visible := search.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "report.pdf", visible[0].Filename)

	require.NoError(t, search.Commit(context.Background()))
	assert.Equal(t, 0, backend.Calls("Search"))
}

func TestSearchController_TagFilters(t *testing.T) {
	search, _ := newSearchFixture(t, &mockBackend{})

	search.ToggleTagFilter("finance")
	search.ToggleTagFilter("draft")
	assert.Equal(t, []string{"finance", "draft"}, search.TagFilters())
	assert.Len(t, search.Visible(), 2)

	search.ToggleTagFilter("finance")
	visible := search.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "notes.txt", visible[0].Filename)

	search.ClearTagFilters()
	assert.Empty(t, search.TagFilters())
	assert.Len(t, search.Visible(), 3)
}

func TestSearchController_SemanticCommit(t *testing.T) {
	var query string
	backend := &mockBackend{SearchFunc: func(_ context.Context, q string) ([]domain.SearchResult, error) {
		query = q
		return []domain.SearchResult{
			{Content: "Q3 revenue grew", Source: "report.pdf", Score: 0.91},
			{Content: "orphan", Source: "gone.pdf", Score: 0.4},
		}, nil
	}}
	search, _ := newSearchFixture(t, backend)
	search.SetMode(domain.SearchModeSemantic)

	search.SetQuery("  revenue  ")
	assert.Equal(t, 0, backend.Calls("Search"))
	require.NoError(t, search.Commit(context.Background()))

	assert.Equal(t, "revenue", query)
	hits, executed := search.Results()
	assert.True(t, executed)
	require.Len(t, hits, 2)
	require.NotNil(t, hits[0].File)
	assert.Equal(t, "f1", hits[0].File.FileID)
	assert.Nil(t, hits[1].File)
	assert.False(t, search.Searching())
}

func TestSearchController_BlankCommitReloadsCatalog(t *testing.T) {
	backend := &mockBackend{}
	search, _ := newSearchFixture(t, backend)
	search.SetMode(domain.SearchModeSemantic)
	search.SetQuery("   ")

	require.NoError(t, search.Commit(context.Background()))

	assert.Equal(t, 0, backend.Calls("Search"))
	assert.Equal(t, 2, backend.Calls("ListFiles"))
	_, executed := search.Results()
	assert.False(t, executed)
}

func TestSearchController_SetModeClearsState(t *testing.T) {
	backend := &mockBackend{SearchFunc: func(context.Context, string) ([]domain.SearchResult, error) {
		return []domain.SearchResult{{Source: "report.pdf"}}, nil
	}}
	search, _ := newSearchFixture(t, backend)
	search.SetMode(domain.SearchModeSemantic)
	search.SetQuery("revenue")
	require.NoError(t, search.Commit(context.Background()))

	search.SetMode(domain.SearchModeMetadata)

	assert.Empty(t, search.Query())
	hits, executed := search.Results()
	assert.Empty(t, hits)
	assert.False(t, executed)
}

func TestSearchController_Commit_Failure(t *testing.T) {
	backend := &mockBackend{SearchFunc: func(context.Context, string) ([]domain.SearchResult, error) {
		return nil, errors.New("index offline")
	}}
	search, _ := newSearchFixture(t, backend)
	search.SetMode(domain.SearchModeSemantic)
	search.SetQuery("revenue")

	var fetchErr *domain.FetchError
	require.ErrorAs(t, search.Commit(context.Background()), &fetchErr)
	assert.False(t, search.Searching())
}

func TestSearchController_StaleResponseAfterModeSwitch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	backend := &mockBackend{SearchFunc: func(context.Context, string) ([]domain.SearchResult, error) {
		close(started)
		<-release
		return []domain.SearchResult{{Source: "report.pdf"}}, nil
	}}
	search, _ := newSearchFixture(t, backend)
	search.SetMode(domain.SearchModeSemantic)
	search.SetQuery("revenue")

	done := make(chan error, 1)
	go func() { done <- search.Commit(context.Background()) }()
	<-started
	assert.True(t, search.Searching())

	search.SetMode(domain.SearchModeMetadata)
	close(release)

	assert.ErrorIs(t, <-done, domain.ErrStale)
	hits, executed := search.Results()
	assert.Empty(t, hits)
	assert.False(t, executed)
}

func TestSearchController_CatalogReloadClearsResults(t *testing.T) {
	backend := &mockBackend{SearchFunc: func(context.Context, string) ([]domain.SearchResult, error) {
		return []domain.SearchResult{{Source: "report.pdf"}}, nil
	}}
	search, catalog := newSearchFixture(t, backend)
	search.SetMode(domain.SearchModeSemantic)
	search.SetQuery("revenue")
	require.NoError(t, search.Commit(context.Background()))

	require.NoError(t, catalog.Refresh(context.Background()))

	hits, executed := search.Results()
	assert.Empty(t, hits)
	assert.False(t, executed)
}

func TestSearchController_DeleteDropsHits(t *testing.T) {
	backend := &mockBackend{SearchFunc: func(context.Context, string) ([]domain.SearchResult, error) {
		return []domain.SearchResult{{Source: "report.pdf"}, {Source: "notes.txt"}}, nil
	}}
	search, catalog := newSearchFixture(t, backend)
	search.SetMode(domain.SearchModeSemantic)
	search.SetQuery("anything")
	require.NoError(t, search.Commit(context.Background()))

	confirm, err := catalog.RequestDelete("report.pdf")
	require.NoError(t, err)
	require.NoError(t, confirm.Confirm(context.Background()))

	hits, executed := search.Results()
	assert.True(t, executed)
	require.Len(t, hits, 1)
	assert.Equal(t, "notes.txt", hits[0].Result.Source)
}

func TestSearchController_TagChangeVisibleInResults(t *testing.T) {
	backend := &mockBackend{SearchFunc: func(context.Context, string) ([]domain.SearchResult, error) {
		return []domain.SearchResult{{Source: "photo.png"}}, nil
	}}
	search, catalog := newSearchFixture(t, backend)
	tags := NewTagStore(backend, catalog, contributorCaps)
	search.SetMode(domain.SearchModeSemantic)
	search.SetQuery("beach")
	require.NoError(t, search.Commit(context.Background()))

	require.NoError(t, tags.Assign(context.Background(), "f2", []string{"holiday"}))

	hits, _ := search.Results()
	require.Len(t, hits, 1)
	require.NotNil(t, hits[0].File)
	assert.Equal(t, []string{"holiday"}, hits[0].File.Tags)
}
