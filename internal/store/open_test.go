package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/tokenkeep/internal/config"
)

func TestOpen_Memory(t *testing.T) {
	repo, closer, err := Open(config.StorageConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	defer closer.Close()
	assert.IsType(t, &InMemoryTokenStore{}, repo)
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")
	repo, closer, err := Open(config.StorageConfig{
		Driver:  config.DriverSQLite,
		Options: map[string]any{"path": path},
	})
	require.NoError(t, err)
	defer closer.Close()

	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newToken("1", "GitHub API")))
	got, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "GitHub API", got.ServiceName)
	assert.True(t, got.ExpiryDate.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(config.StorageConfig{Driver: "postgres"})
	assert.Error(t, err)
}

func TestOpen_BadOptions(t *testing.T) {
	_, _, err := Open(config.StorageConfig{
		Driver:  config.DriverSQLite,
		Options: map[string]any{"path": []int{1, 2}},
	})
	assert.Error(t, err)
}
