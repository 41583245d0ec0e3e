package cmd

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Check or print the server configuration",
	Long: `Check a tokenkeep server configuration file or print it with all defaults applied.
Both commands read the file given with --config, the same flag 'tokenkeep serve' takes.`,
}

var configValidateCmd = &cobra.Command{
	Use:     "validate",
	Short:   "Validate the configuration file",
	Example: `  tokenkeep config validate -c tokenkeep.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if f.ConfigPath == "" {
			return fmt.Errorf("no config file given (use --config)")
		}
		if _, err := f.LoadServerConfig(); err != nil {
			log.Error().Err(err).Msg("Configuration is invalid.")
			return BeQuietError{}
		}
		logSuccess("Configuration is valid.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration including defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadServerConfig()
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	f.bindConfigFlag(configCmd.PersistentFlags())
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}
