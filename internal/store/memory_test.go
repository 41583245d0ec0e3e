package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/tokenkeep/internal/core"
)

func newToken(id, service string) core.Token {
	return core.Token{
		ID:          id,
		ServiceName: service,
		Value:       "tok_" + id,
		ExpiryDate:  time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestInMemoryTokenStore_InsertKeepsOrder(t *testing.T) {
	s := NewInMemoryTokenStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newToken("b", "Stripe API")))
	require.NoError(t, s.Insert(ctx, newToken("a", "AWS S3")))
	require.NoError(t, s.Insert(ctx, newToken("c", "GitHub API")))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
	assert.Equal(t, "c", all[2].ID)
}

func TestInMemoryTokenStore_DuplicateID(t *testing.T) {
	s := NewInMemoryTokenStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newToken("1", "GitHub API")))
	err := s.Insert(ctx, newToken("1", "AWS S3"))
	assert.ErrorIs(t, err, core.ErrDuplicateID)
}

func TestInMemoryTokenStore_GetUpdate(t *testing.T) {
	s := NewInMemoryTokenStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, newToken("missing", "x")), core.ErrNotFound)

	require.NoError(t, s.Insert(ctx, newToken("1", "GitHub API")))
	updated := newToken("1", "GitHub API")
	updated.Value = "ghp_new"
	require.NoError(t, s.Update(ctx, updated))

	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "ghp_new", got.Value)
}

func TestInMemoryTokenStore_Delete(t *testing.T) {
	s := NewInMemoryTokenStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newToken("1", "GitHub API")))
	require.NoError(t, s.Insert(ctx, newToken("2", "AWS S3")))

	deleted, err := s.Delete(ctx, "1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(ctx, "1")
	require.NoError(t, err)
	assert.False(t, deleted)

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2", all[0].ID)
}

func TestInMemoryTokenStore_AllReturnsCopy(t *testing.T) {
	s := NewInMemoryTokenStore()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, newToken("1", "GitHub API")))

	all, err := s.All(ctx)
	require.NoError(t, err)
	all[0].ServiceName = "changed"

	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "GitHub API", got.ServiceName)
}
