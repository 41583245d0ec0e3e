package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/darmiel/tokenkeep/internal/view"
)

var seedCount int

var tokenSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate random demo tokens",
	Long: `Creates synthetic tokens for well known services with expiry dates spread
between one year ago and one year from now. The generated secrets only look real.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		var count *int
		if cmd.Flags().Changed("count") {
			count = &seedCount
		}
		tokens, correlation, err := cli.SeedTokens(cmd.Context(), count)
		if err != nil {
			return logError(err, correlation, "failed to seed tokens")
		}
		logSuccess("seeded %d tokens", len(tokens))

		if len(tokens) == 0 {
			return nil
		}
		now := time.Now()
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Service", "Token", "Expires", "Status"})
		for _, tok := range tokens {
			t.AppendRow(table.Row{
				faint(tok.ID),
				bold(tok.ServiceName),
				view.MaskToken(tok.Value),
				relative(tok.ExpiryDate, now),
				statusString(tok.Status),
			})
		}
		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSeedCmd)

	tokenSeedCmd.Flags().IntVarP(&seedCount, "count", "n", 10, "number of tokens to generate")
}
