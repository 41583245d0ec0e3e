package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/tokenkeep/internal/tasks"
)

var tasksListFlagged bool

var tasksListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the background tasks and their last report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Retrieving tasks...")
		list, correlation, err := cli.ListTasks(cmd.Context())
		if err != nil {
			return logError(err, correlation, "failed to list tasks")
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Name", "Every", "Runs", "Last Run", "Next Run", "Last Report"})
		for _, s := range list {
			t.AppendRow(table.Row{
				taskName(s),
				taskInterval(s.Interval),
				s.Runs,
				taskLastRun(s),
				taskNextRun(s.NextRun),
				taskReport(s),
			})
		}
		applyTableFormat(t)
		t.Render()

		if tasksListFlagged {
			for _, s := range list {
				printFlagged(s)
			}
		}
		return nil
	},
}

func taskName(s tasks.Status) string {
	if s.Running {
		return bold(s.Name) + " " + color.BlueString("(running)")
	}
	return bold(s.Name)
}

func taskInterval(d time.Duration) string {
	if d <= 0 {
		return faint("manual")
	}
	return d.String()
}

func taskLastRun(s tasks.Status) string {
	if s.LastRun.IsZero() {
		return faint("never")
	}
	return fmt.Sprintf("%s %s", relative(s.LastRun, time.Now()), faint("("+s.LastDuration.Round(time.Millisecond).String()+")"))
}

func taskNextRun(next time.Time) string {
	if next.IsZero() {
		return faint("n/a")
	}
	return relative(next, time.Now())
}

func taskReport(s tasks.Status) string {
	switch s.Outcome {
	case tasks.OutcomeOK:
		summary := ""
		if s.LastReport != nil {
			summary = s.LastReport.Summary
		}
		if s.LastReport != nil && len(s.LastReport.Flagged) > 0 {
			return color.YellowString("!") + " " + summary
		}
		return greenCheck + " " + summary
	case tasks.OutcomeFailed:
		return redCross + " " + truncate(s.LastError, 60)
	default:
		return ""
	}
}

// printFlagged lists the tokens the last report of s pointed out.
func printFlagged(s tasks.Status) {
	if s.LastReport == nil || len(s.LastReport.Flagged) == 0 {
		return
	}
	now := time.Now()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("%s: flagged tokens", s.Name)
	t.AppendHeader(table.Row{"ID", "Service", "Expires"})
	for _, tok := range s.LastReport.Flagged {
		t.AppendRow(table.Row{
			faint(tok.ID),
			bold(tok.ServiceName),
			fmt.Sprintf("%s %s", tok.ExpiryDate.Local().Format("2006-01-02 15:04"), color.YellowString("("+relative(tok.ExpiryDate, now)+")")),
		})
	}
	applyTableFormat(t)
	t.Render()
}

func init() {
	tasksListCmd.Flags().BoolVar(&tasksListFlagged, "flagged", false, "also list the tokens flagged by the last reports")
	tasksCmd.AddCommand(tasksListCmd)
}
