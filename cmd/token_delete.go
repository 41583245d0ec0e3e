package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/darmiel/tokenkeep/pkg/client"
)

var deleteYes bool

var tokenDeleteCmd = &cobra.Command{
	Use:     "delete ID...",
	Aliases: []string{"rm", "remove"},
	Short:   "Delete tokens",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteYes && !confirm(fmt.Sprintf("Delete %d token(s)?", len(args))) {
			logWarn("aborted")
			return nil
		}

		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		var failed bool
		for _, id := range args {
			correlation, err := cli.DeleteToken(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, client.ErrNotFound) {
					logWarn("token %s does not exist", bold(id))
				} else {
					_ = logError(err, correlation, "failed to delete token "+id)
				}
				failed = true
				continue
			}
			logSuccess("deleted %s", bold(id))
		}
		if failed {
			return BeQuietError{}
		}
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenDeleteCmd)

	tokenDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")
}

func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
