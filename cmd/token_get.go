package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/darmiel/tokenkeep/internal/core"
	"github.com/darmiel/tokenkeep/internal/view"
)

var (
	getJSON        bool
	getShowSecrets bool
)

var tokenGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show a single token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		tok, correlation, err := cli.GetToken(cmd.Context(), args[0])
		if err != nil {
			return logError(err, correlation, "failed to get token")
		}

		if getJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(tok)
		}
		printToken(tok, getShowSecrets)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenGetCmd)

	tokenGetCmd.Flags().BoolVar(&getJSON, "json", false, "print the token as JSON")
	tokenGetCmd.Flags().BoolVar(&getShowSecrets, "show-secrets", false, "show the secret unmasked")
}

func printToken(tok *core.Token, showSecret bool) {
	secret := view.MaskToken(tok.Value)
	if showSecret {
		secret = tok.Value
	}
	fmt.Println(bold("\n── " + tok.ServiceName + " ──"))
	fmt.Printf("  %s:      %s\n", faint("ID"), tok.ID)
	fmt.Printf("  %s:   %s\n", faint("Token"), secret)
	fmt.Printf("  %s:    %s\n", faint("Hash"), view.Fingerprint(tok.Value))
	fmt.Printf("  %s: %s (%s)\n", faint("Expires"),
		tok.ExpiryDate.Local().Format(time.RFC1123), relative(tok.ExpiryDate, time.Now()))
	fmt.Printf("  %s:  %s\n", faint("Status"), statusString(tok.Status))
}
