package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darmiel/tokenkeep/internal/core"
	"github.com/darmiel/tokenkeep/internal/service"
)

var (
	addService string
	addToken   string
	addExpires string
)

var tokenAddCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"create"},
	Short:   "Register a new token",
	Example: `  tokenkeep token add --service "GitHub API" --token ghp_xxx --expires 2026-01-01
  tokenkeep token add -s Stripe -t sk_live_xxx -x 2026-03-15T12:00:00Z`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		tok, correlation, err := cli.CreateToken(cmd.Context(), service.CreateRequest{
			ServiceName: addService,
			Token:       addToken,
			ExpiryDate:  addExpires,
		})
		if err != nil {
			return logError(err, correlation, "failed to add token")
		}

		logSuccess("added token %s for %s", bold(tok.ID), bold(tok.ServiceName))
		if tok.Status == core.StatusExpired {
			logWarn("the token is already %s", statusString(tok.Status))
		}
		fmt.Println(tok.ID)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenAddCmd)

	flags := tokenAddCmd.Flags()
	flags.StringVarP(&addService, "service", "s", "", "name of the service the token belongs to")
	flags.StringVarP(&addToken, "token", "t", "", "the token value")
	flags.StringVarP(&addExpires, "expires", "x", "", "expiry date (ISO 8601, e.g. 2026-01-01 or 2026-01-01T12:00:00Z)")
	_ = tokenAddCmd.MarkFlagRequired("service")
	_ = tokenAddCmd.MarkFlagRequired("token")
	_ = tokenAddCmd.MarkFlagRequired("expires")
}
