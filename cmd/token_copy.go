package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/darmiel/tokenkeep/internal/core"
)

var tokenCopyCmd = &cobra.Command{
	Use:     "copy ID",
	Aliases: []string{"cp"},
	Short:   "Copy a token's secret to the clipboard",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		tok, correlation, err := cli.GetToken(cmd.Context(), args[0])
		if err != nil {
			return logError(err, correlation, "failed to get token")
		}

		if clipboard.Unsupported {
			return fmt.Errorf("no clipboard available on this system")
		}
		if err := clipboard.WriteAll(tok.Value); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}

		logSuccess("copied the %s token to the clipboard", bold(tok.ServiceName))
		if tok.Status == core.StatusExpired {
			logWarn("note: this token is %s", statusString(tok.Status))
		}
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenCopyCmd)
}
