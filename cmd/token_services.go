package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var tokenServicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List the distinct service names",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		names, correlation, err := cli.Services(cmd.Context())
		if err != nil {
			return logError(err, correlation, "failed to list services")
		}
		if len(names) == 0 {
			log.Info().Msg("No tokens found")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenServicesCmd)
}
