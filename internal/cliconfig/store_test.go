package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Preferences{PageSize: 5, SortField: "serviceName", SortDirection: "asc"}, cfg.Effective())
}

func TestSaveAndLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, Save(&CLIConfig{Preferences: Preferences{
		PageSize:      20,
		SortField:     "expiryDate",
		SortDirection: "desc",
	}}))

	info, err := os.Stat(filepath.Join(home, ".tokenkeep", "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Preferences{PageSize: 20, SortField: "expiryDate", SortDirection: "desc"}, cfg.Effective())
}

func TestEffectiveRejectsStaleValues(t *testing.T) {
	cfg := &CLIConfig{Preferences: Preferences{PageSize: 7, SortField: "secret", SortDirection: "up"}}
	assert.Equal(t, Preferences{PageSize: 5, SortField: "serviceName", SortDirection: "asc"}, cfg.Effective())
}

func TestLoadCorrupt(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".tokenkeep")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600))

	_, err := Load()
	assert.ErrorContains(t, err, "decoding config file")
}
