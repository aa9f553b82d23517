package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

func newTagFixture(t *testing.T, backend *mockBackend, caps domain.Capabilities) (*TagStore, *FileCatalog) {
	t.Helper()
	if backend.ListFilesFunc == nil {
		backend.ListFilesFunc = func(context.Context) ([]domain.FileRecord, error) { return testFiles(), nil }
	}
	catalog := NewFileCatalog(backend, caps)
	require.NoError(t, catalog.Refresh(context.Background()))
	return NewTagStore(backend, catalog, caps), catalog
}

func TestTagStore_RefreshAndLookup(t *testing.T) {
	backend := &mockBackend{ListTagsFunc: func(context.Context) ([]domain.Tag, error) {
		return []domain.Tag{{Name: "finance", Color: "#fde68a", Count: 1}}, nil
	}}
	store, _ := newTagFixture(t, backend, contributorCaps)

	require.NoError(t, store.Refresh(context.Background()))

	assert.Len(t, store.Tags(), 1)
	assert.Equal(t, "#fde68a", store.Lookup("finance").Color)
	assert.Equal(t, domain.DefaultTagColor, store.Lookup("unknown").Color)
}

func TestTagStore_Refresh_FailureKeepsCache(t *testing.T) {
	fail := false
	backend := &mockBackend{ListTagsFunc: func(context.Context) ([]domain.Tag, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return []domain.Tag{{Name: "draft"}}, nil
	}}
	store, _ := newTagFixture(t, backend, contributorCaps)
	require.NoError(t, store.Refresh(context.Background()))

	fail = true
	var fetchErr *domain.FetchError
	require.ErrorAs(t, store.Refresh(context.Background()), &fetchErr)
	assert.Len(t, store.Tags(), 1)
}

func TestTagStore_Create(t *testing.T) {
	var created domain.Tag
	backend := &mockBackend{CreateTagFunc: func(_ context.Context, tag domain.Tag) error {
		created = tag
		return nil
	}}
	store, _ := newTagFixture(t, backend, adminCaps)

	require.NoError(t, store.Create(context.Background(), "  legal ", ""))

	assert.Equal(t, "legal", created.Name)
	assert.Equal(t, domain.PresetTagColors[0], created.Color)
	assert.Equal(t, 1, backend.Calls("ListTags"))
}

func TestTagStore_Create_BlankNameSendsNothing(t *testing.T) {
	backend := &mockBackend{}
	store, _ := newTagFixture(t, backend, adminCaps)

	err := store.Create(context.Background(), "   ", "#ffffff")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, backend.Calls("CreateTag"))
}

func TestTagStore_Create_RequiresAdmin(t *testing.T) {
	store, _ := newTagFixture(t, &mockBackend{}, contributorCaps)
	assert.ErrorIs(t, store.Create(context.Background(), "legal", ""), domain.ErrForbidden)
}

func TestTagStore_RequestDelete(t *testing.T) {
	var deleted string
	backend := &mockBackend{DeleteTagFunc: func(_ context.Context, name string) error {
		deleted = name
		return nil
	}}
	store, _ := newTagFixture(t, backend, adminCaps)

	confirm, err := store.RequestDelete("draft")
	require.NoError(t, err)
	assert.Contains(t, confirm.Prompt(), "draft")
	assert.Empty(t, deleted)

	require.NoError(t, confirm.Confirm(context.Background()))
	assert.Equal(t, "draft", deleted)
}

func TestTagStore_Assign_UpdatesCatalogAfterSuccess(t *testing.T) {
	var sent []string
	backend := &mockBackend{AssignTagsFunc: func(_ context.Context, fileID string, tags []string) error {
		sent = tags
		return nil
	}}
	store, catalog := newTagFixture(t, backend, contributorCaps)

	require.NoError(t, store.Assign(context.Background(), "f2", []string{"urgent", "finance"}))

	assert.Equal(t, []string{"urgent", "finance"}, sent)
	f, ok := catalog.Get("f2")
	require.True(t, ok)
	assert.Equal(t, []string{"urgent", "finance"}, f.Tags)
}

func TestTagStore_Assign_EmptySetIsSent(t *testing.T) {
	var sent []string
	backend := &mockBackend{AssignTagsFunc: func(_ context.Context, _ string, tags []string) error {
		sent = tags
		return nil
	}}
	store, catalog := newTagFixture(t, backend, contributorCaps)

	require.NoError(t, store.Assign(context.Background(), "f1", nil))

	assert.NotNil(t, sent)
	assert.Empty(t, sent)
	f, _ := catalog.Get("f1")
	assert.Empty(t, f.Tags)
}

func TestTagStore_Assign_FailureLeavesCatalog(t *testing.T) {
	backend := &mockBackend{AssignTagsFunc: func(context.Context, string, []string) error {
		return errors.New("rejected")
	}}
	store, catalog := newTagFixture(t, backend, contributorCaps)

	err := store.Assign(context.Background(), "f1", []string{"other"})

	var mutErr *domain.MutationError
	require.ErrorAs(t, err, &mutErr)
	f, _ := catalog.Get("f1")
	assert.Equal(t, []string{"finance"}, f.Tags)
}

func TestTagStore_Assign_TagRefreshFailureIsNotFatal(t *testing.T) {
	backend := &mockBackend{ListTagsFunc: func(context.Context) ([]domain.Tag, error) {
		return nil, errors.New("tags down")
	}}
	store, catalog := newTagFixture(t, backend, contributorCaps)

	require.NoError(t, store.Assign(context.Background(), "f3", []string{"final"}))

	f, _ := catalog.Get("f3")
	assert.Equal(t, []string{"final"}, f.Tags)
}

func TestTagStore_Toggle(t *testing.T) {
	store, catalog := newTagFixture(t, &mockBackend{}, contributorCaps)

	tags, err := store.Toggle(context.Background(), "f1", "urgent")
	require.NoError(t, err)
	assert.Equal(t, []string{"finance", "urgent"}, tags)

	tags, err = store.Toggle(context.Background(), "f1", "finance")
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent"}, tags)

	f, _ := catalog.Get("f1")
	assert.Equal(t, []string{"urgent"}, f.Tags)
}

func TestTagStore_Toggle_UnknownFile(t *testing.T) {
	store, _ := newTagFixture(t, &mockBackend{}, contributorCaps)
	_, err := store.Toggle(context.Background(), "nope", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTagStore_Assign_Forbidden(t *testing.T) {
	store, _ := newTagFixture(t, &mockBackend{}, viewerCaps)
	assert.ErrorIs(t, store.Assign(context.Background(), "f1", []string{"x"}), domain.ErrForbidden)
}
