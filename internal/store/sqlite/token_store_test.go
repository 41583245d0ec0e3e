package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/tokenkeep/internal/core"
)

func sampleToken(id, service string, expiry time.Time) core.Token {
	return core.Token{
		ID:          id,
		ServiceName: service,
		Value:       "tok_" + id,
		ExpiryDate:  expiry,
	}
}

func TestTokenStore_InsertAndAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenStore(db)
	ctx := context.Background()

	expiry := time.Date(2099, 1, 1, 0, 0, 0, 123000000, time.UTC)
	require.NoError(t, repo.Insert(ctx, sampleToken("b", "Stripe API", expiry)))
	require.NoError(t, repo.Insert(ctx, sampleToken("a", "AWS S3", expiry)))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
	assert.True(t, all[0].ExpiryDate.Equal(expiry))
	assert.Equal(t, "tok_b", all[0].Value)
	assert.Empty(t, all[0].Status)
}

func TestTokenStore_AllEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenStore(db)

	all, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all)
}

func TestTokenStore_DuplicateID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenStore(db)
	ctx := context.Background()

	expiry := time.Now().Add(time.Hour)
	require.NoError(t, repo.Insert(ctx, sampleToken("1", "GitHub API", expiry)))
	err := repo.Insert(ctx, sampleToken("1", "AWS S3", expiry))
	assert.ErrorIs(t, err, core.ErrDuplicateID)
}

func TestTokenStore_GetAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenStore(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)

	expiry := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, sampleToken("1", "GitHub API", expiry)))

	renewed := sampleToken("1", "GitHub API", expiry.AddDate(1, 0, 0))
	renewed.Value = "ghp_renewed"
	require.NoError(t, repo.Update(ctx, renewed))

	got, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "ghp_renewed", got.Value)
	assert.True(t, got.ExpiryDate.Equal(expiry.AddDate(1, 0, 0)))

	err = repo.Update(ctx, sampleToken("missing", "x", expiry))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestTokenStore_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenStore(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, sampleToken("1", "GitHub API", time.Now())))

	deleted, err := repo.Delete(ctx, "1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, RunMigrations(db.Writer))
}
