package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

func TestSessionStore_SaveAndGet(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	token := domain.StoredToken{
		Profile:   "default",
		Token:     "abc",
		Subject:   "alice",
		ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Save(ctx, token))

	got, err := store.Get(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, token, *got)
}

func TestSessionStore_Get_NotFound(t *testing.T) {
	_, err := NewSessionStore().Get(context.Background(), "work")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_SaveReplaces(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.StoredToken{Profile: "default", Token: "old"}))
	require.NoError(t, store.Save(ctx, domain.StoredToken{Profile: "default", Token: "new"}))

	got, err := store.Get(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Token)
}

func TestSessionStore_DeleteAndList(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.StoredToken{Profile: "work", Token: "w"}))
	require.NoError(t, store.Save(ctx, domain.StoredToken{Profile: "default", Token: "d"}))

	tokens, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "default", tokens[0].Profile)
	assert.Equal(t, "work", tokens[1].Profile)

	require.NoError(t, store.Delete(ctx, "work"))
	require.NoError(t, store.Delete(ctx, "never"))

	tokens, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tokens, 1)
}
