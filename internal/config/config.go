package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Seed    SeedConfig    `yaml:"seed"`
	Tasks   TasksConfig   `yaml:"tasks"`
}

// ServerConfig holds settings for the HTTP listener.
type ServerConfig struct {
	// Addr is the address to listen on, e.g. ":3000".
	Addr string `yaml:"addr"`

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string `yaml:"cors_origins"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig selects the persistence backend for tokens.
type StorageConfig struct {
	Driver  string         `yaml:"driver"`  // "memory" or "sqlite"
	Options map[string]any `yaml:"options"` // driver specific, e.g. {path: tokens.db}
}

// SeedConfig controls data loaded at startup.
type SeedConfig struct {
	// DemoData loads the fixed demo dataset when the store is empty.
	DemoData bool `yaml:"demo_data"`

	// Count generates this many random tokens on startup.
	Count int `yaml:"count"`
}

type TasksConfig struct {
	ExpiryReport ExpiryReportConfig `yaml:"expiry_report"`
}

// ExpiryReportConfig configures the periodic expiry report task.
// An Interval of 0 disables scheduling; the task can still be triggered manually.
type ExpiryReportConfig struct {
	Interval time.Duration `yaml:"interval"`
	Window   time.Duration `yaml:"window"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":3000",
			CORSOrigins:     DefaultCORSOrigins(),
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver: DriverMemory,
		},
		Seed: SeedConfig{
			DemoData: true,
		},
		Tasks: TasksConfig{
			ExpiryReport: ExpiryReportConfig{
				Interval: time.Hour,
				Window:   30 * 24 * time.Hour,
			},
		},
	}
}

// DefaultCORSOrigins allows the local dev server ports 5173-5200 and the preview port 4173.
func DefaultCORSOrigins() []string {
	origins := make([]string, 0, 29)
	for port := 5173; port <= 5200; port++ {
		origins = append(origins, "http://localhost:"+strconv.Itoa(port))
	}
	return append(origins, "http://localhost:4173")
}

// ParseCORSOrigins splits a comma separated origin list and drops empty entries.
func ParseCORSOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Load reads the configuration file at path on top of Default().
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite:
	case "":
		return fmt.Errorf("storage.driver is required")
	default:
		return fmt.Errorf("unknown storage driver '%s'", c.Storage.Driver)
	}
	if c.Seed.Count < 0 {
		return fmt.Errorf("seed.count must not be negative")
	}
	if c.Tasks.ExpiryReport.Interval < 0 {
		return fmt.Errorf("tasks.expiry_report.interval must not be negative")
	}
	if c.Tasks.ExpiryReport.Window < 0 {
		return fmt.Errorf("tasks.expiry_report.window must not be negative")
	}
	return nil
}
