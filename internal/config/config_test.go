package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokenkeep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Seed.DemoData)
	assert.Len(t, cfg.Server.CORSOrigins, 29)
	assert.Contains(t, cfg.Server.CORSOrigins, "http://localhost:4173")
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
storage:
  driver: sqlite
  options:
    path: /tmp/tokens.db
seed:
  demo_data: false
  count: 25
tasks:
  expiry_report:
    interval: 15m
    window: 168h
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/tokens.db", cfg.Storage.Options["path"])
	assert.False(t, cfg.Seed.DemoData)
	assert.Equal(t, 25, cfg.Seed.Count)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ExpiryReport.Interval)
	assert.Equal(t, 168*time.Hour, cfg.Tasks.ExpiryReport.Window)

	// untouched sections keep their defaults
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Unknown Driver", content: "storage:\n  driver: postgres\n"},
		{name: "Negative Seed", content: "seed:\n  count: -1\n"},
		{name: "Empty Addr", content: "server:\n  addr: \"\"\n"},
		{name: "Broken YAML", content: "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseCORSOrigins(t *testing.T) {
	got := ParseCORSOrigins(" http://a.example , ,http://b.example,")
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, got)
	assert.Empty(t, ParseCORSOrigins(""))
}
