package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/tokenkeep/internal/buildinfo"
	"github.com/darmiel/tokenkeep/internal/logging"
)

// global flags
var (
	userConfig string
	envFile    string
)

const (
	LogLevelKey   = "log.level"
	LogFormatKey  = "log.format"
	LogNoColorKey = "log.no_color"

	ServerAddrKey = "server"

	DefaultServerAddr = "http://localhost:3000"
)

var f = NewFactory()

var rootCmd = &cobra.Command{
	Use:   "tokenkeep",
	Short: fmt.Sprintf("tokenkeep access token manager (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `tokenkeep keeps track of API access tokens for external services.
It shows which tokens are active or expired, renews them and removes the ones you no longer need.

Run 'tokenkeep serve' to start the API server, the other commands talk to a running server.`,
	Version: buildinfo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envErr := loadEnvFile()
		configPath, configErr := initConfig()

		if err := logging.Init(logging.Options{
			Level:   viper.GetString(LogLevelKey),
			Format:  viper.GetString(LogFormatKey),
			NoColor: viper.GetBool(LogNoColorKey),
		}); err != nil {
			return err
		}
		if envErr != nil { // handle errors after logging is initialized
			return envErr
		}
		if configErr != nil {
			return configErr
		}
		if configPath != "" {
			log.Debug().Msgf("using config file: %s", configPath)
		}
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		var quiet BeQuietError
		if !errors.As(err, &quiet) {
			log.Error().Err(err).Msg("execution failed")
		}
		os.Exit(1)
	}
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()

	rootCmd.PersistentFlags().StringVar(&userConfig, "user-config", "",
		"User configuration file for default values (default is $HOME/.tokenkeep.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"Environment file to load before reading flags (ignored if missing)")

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag(LogLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
	_ = viper.BindPFlag(LogFormatKey, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	_ = viper.BindPFlag(LogNoColorKey, rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.PersistentFlags().StringVar(&f.RemoteAddr, "server", "", "Address of the tokenkeep server (default "+DefaultServerAddr+")")
	_ = viper.BindPFlag(ServerAddrKey, rootCmd.PersistentFlags().Lookup("server"))

	viper.SetEnvPrefix("TOKENKEEP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))

	viper.AutomaticEnv()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

// loadEnvFile loads variables from envFile without overriding the environment.
func loadEnvFile() error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file '%s': %w", envFile, err)
	}
	return nil
}

func initConfig() (string, error) {
	// reads in config file and ENV variables if set.
	if userConfig != "" {
		viper.SetConfigFile(userConfig)
	} else {
		// search order: current dir, $HOME, XDG config
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}

		config, err := os.UserConfigDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(config, "tokenkeep"))
		}

		viper.SetConfigType("yaml")
		viper.SetConfigName(".tokenkeep")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundError) {
			return "", err
		}
	} else {
		return viper.ConfigFileUsed(), nil
	}

	return "", nil
}
