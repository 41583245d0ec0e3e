package cmd

import (
	"github.com/spf13/cobra"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:     "token",
	Aliases: []string{"tokens", "t"},
	Short:   "Manage access tokens on the server",
	Long: `List, add, renew and delete the access tokens stored on a tokenkeep server.
The server address is taken from --server, TOKENKEEP_SERVER or the user config.`,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
