package cmd

import (
	"github.com/spf13/cobra"
)

var tokenRenewCmd = &cobra.Command{
	Use:   "renew ID...",
	Short: "Renew tokens",
	Long: `Replaces the secret of each token with a freshly generated one and sets its
expiry to one year from now.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		var failed bool
		for _, id := range args {
			tok, correlation, err := cli.RenewToken(cmd.Context(), id)
			if err != nil {
				_ = logError(err, correlation, "failed to renew token "+id)
				failed = true
				continue
			}
			logSuccess("renewed %s (%s), expires %s",
				bold(tok.ID), tok.ServiceName, tok.ExpiryDate.Local().Format("2006-01-02"))
		}
		if failed {
			return BeQuietError{}
		}
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenRenewCmd)
}
