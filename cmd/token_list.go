package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/tokenkeep/internal/cliconfig"
	"github.com/darmiel/tokenkeep/internal/view"
	"github.com/darmiel/tokenkeep/pkg/client"
)

var (
	listService     string
	listExpiredOnly bool
	listSort        string
	listDesc        bool
	listPage        int
	listPageSize    int
	listWhere       string
	listRemember    bool
	listShowSecrets bool
)

var tokenListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tokens as a table",
	Long: `Shows one page of tokens, filtered and sorted by the server.

Secrets are masked unless --show-secrets is given. Page size and sort order
default to the values remembered with --remember.`,
	Example: `  tokenkeep token list
  tokenkeep token ls --service "GitHub API" --expired
  tokenkeep token ls --sort expiryDate --desc --size 20 --remember
  tokenkeep token ls --where 'status == "active" && expiryDate < now + duration("720h")'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		prefs := f.Preferences()
		opts := listOptions(cmd, prefs.Effective())

		log.Debug().Msgf("Fetching page %d of tokens...", opts.Page)
		res, correlation, err := cli.View(cmd.Context(), opts)
		if err != nil {
			return logError(err, correlation, "failed to list tokens")
		}

		// past the last page, e.g. after deleting tokens: start over
		if page := view.ClampPage(res.PageNumber, res.TotalPages); page != res.PageNumber {
			log.Debug().Msgf("Page %d is past the end, showing page %d", res.PageNumber, page)
			opts.Page = page
			if res, correlation, err = cli.View(cmd.Context(), opts); err != nil {
				return logError(err, correlation, "failed to list tokens")
			}
		}

		if listRemember {
			prefs.Preferences = cliconfig.Preferences{
				PageSize:      opts.PageSize,
				SortField:     string(opts.Sort),
				SortDirection: string(opts.Direction),
			}
			if err := cliconfig.Save(prefs); err != nil {
				logWarn("could not save preferences: %v", err)
			}
		}

		if res.TotalItems == 0 {
			log.Info().Msg("No tokens found")
			return nil
		}

		printTokenPage(res, listShowSecrets)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenListCmd)

	flags := tokenListCmd.Flags()
	flags.StringVarP(&listService, "service", "s", view.AllServices, "only show tokens of this service")
	flags.BoolVarP(&listExpiredOnly, "expired", "e", false, "only show expired tokens")
	flags.StringVar(&listSort, "sort", "", "sort by serviceName, expiryDate or status")
	flags.BoolVar(&listDesc, "desc", false, "sort descending")
	flags.IntVarP(&listPage, "page", "p", 1, "page to show")
	flags.IntVar(&listPageSize, "size", 0, fmt.Sprintf("tokens per page, one of %v", view.PageSizeOptions))
	flags.StringVarP(&listWhere, "where", "w", "", "additional filter expression")
	flags.BoolVar(&listRemember, "remember", false, "remember page size and sort order")
	flags.BoolVar(&listShowSecrets, "show-secrets", false, "show secrets unmasked")
}

func listOptions(cmd *cobra.Command, prefs cliconfig.Preferences) client.ViewOptions {
	opts := client.ViewOptions{
		Service:     listService,
		ExpiredOnly: listExpiredOnly,
		Sort:        view.SortField(prefs.SortField),
		Direction:   view.SortDirection(prefs.SortDirection),
		Page:        listPage,
		PageSize:    prefs.PageSize,
		Where:       listWhere,
	}
	if cmd.Flags().Changed("sort") {
		opts.Sort = view.SortField(listSort)
	}
	if cmd.Flags().Changed("desc") {
		opts.Direction = view.Ascending
		if listDesc {
			opts.Direction = view.Descending
		}
	}
	if cmd.Flags().Changed("size") {
		opts.PageSize = listPageSize
	}
	return opts
}

func printTokenPage(res *view.Result, showSecrets bool) {
	now := time.Now()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Service", "Token", "Expires", "Status"})

	for _, tok := range res.Page {
		secret := view.MaskToken(tok.Value)
		if showSecrets {
			secret = tok.Value
		}
		t.AppendRow(table.Row{
			faint(truncate(tok.ID, 26)),
			bold(tok.ServiceName),
			secret,
			fmt.Sprintf("%s %s", tok.ExpiryDate.Local().Format("2006-01-02 15:04"), faint("("+relative(tok.ExpiryDate, now)+")")),
			statusString(tok.Status),
		})
	}

	first := (res.PageNumber-1)*res.PageSize + 1
	last := first + len(res.Page) - 1
	if len(res.Page) == 0 {
		first, last = 0, 0
	}
	t.AppendFooter(table.Row{
		"", "", "",
		fmt.Sprintf("page %d of %d", res.PageNumber, res.TotalPages),
		fmt.Sprintf("%d-%d of %d", first, last, res.TotalItems),
	})

	applyTableFormat(t)
	t.Render()
}
