package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/darmiel/tokenkeep/internal/cliconfig"
	"github.com/darmiel/tokenkeep/internal/config"
	"github.com/darmiel/tokenkeep/pkg/client"
)

type Factory struct {
	// RemoteAddr is the address of the tokenkeep server to connect to.
	RemoteAddr string

	// ConfigPath is the server configuration file (serve, config validate).
	ConfigPath string
}

func NewFactory() *Factory {
	return &Factory{}
}

// ServerAddr returns the server to talk to: flag, then config/env, then the default.
func (f *Factory) ServerAddr() string {
	server := f.RemoteAddr // prio 1: command-line flag
	if server == "" {
		server = viper.GetString(ServerAddrKey) // prio 2: config/env
	}
	if server == "" {
		server = DefaultServerAddr
	}
	return server
}

// GetClient returns an HTTP client for remote operations.
func (f *Factory) GetClient() (*client.Client, error) {
	var opts []client.Option
	if token := os.Getenv("TOKENKEEP_AUTH_TOKEN"); token != "" {
		opts = append(opts, client.WithAuthToken(token))
	}
	return client.New(f.ServerAddr(), opts...)
}

// LoadServerConfig loads the server config file, or the defaults if none was given.
func (f *Factory) LoadServerConfig() (*config.Config, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Preferences loads the remembered CLI preferences. Errors fall back to an empty config.
func (f *Factory) Preferences() *cliconfig.CLIConfig {
	cfg, err := cliconfig.Load()
	if err != nil {
		logWarn("ignoring CLI preferences: %v", err)
		return &cliconfig.CLIConfig{}
	}
	return cfg
}

func (f *Factory) bindConfigFlag(flags *pflag.FlagSet) {
	flags.StringVarP(&f.ConfigPath, "config", "c", "", "The tokenkeep server config file to use (YAML)")
}
