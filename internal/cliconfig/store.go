package cliconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/darmiel/tokenkeep/internal/view"
)

// Preferences are remembered between CLI invocations.
type Preferences struct {
	PageSize      int    `json:"page_size,omitempty"`
	SortField     string `json:"sort_field,omitempty"`
	SortDirection string `json:"sort_direction,omitempty"`
}

type CLIConfig struct {
	Preferences Preferences `json:"preferences"`
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	return filepath.Join(home, ".tokenkeep", "config.json"), nil
}

// Load reads the config file. A missing file yields an empty config.
func Load() (*CLIConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &CLIConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening config file '%s': %w", path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	var cfg CLIConfig
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config file '%s': %w", path, err)
	}
	return &cfg, nil
}

func Save(cfg *CLIConfig) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory '%s': %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening config file '%s' for writing: %w", path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config to file '%s': %w", path, err)
	}
	return nil
}

// Effective returns the stored preferences with defaults filled in.
// Values that are no longer valid fall back to the default.
func (c *CLIConfig) Effective() Preferences {
	p := c.Preferences
	if !slices.Contains(view.PageSizeOptions, p.PageSize) {
		p.PageSize = view.DefaultPageSize
	}
	if _, err := view.ParseSortField(p.SortField); err != nil || p.SortField == "" {
		p.SortField = string(view.SortByServiceName)
	}
	if _, err := view.ParseSortDirection(p.SortDirection); err != nil || p.SortDirection == "" {
		p.SortDirection = string(view.Ascending)
	}
	return p
}
