package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/tokenkeep/internal/tasks"
	"github.com/darmiel/tokenkeep/pkg/client"
)

var (
	triggerWait    bool
	triggerTimeout time.Duration
)

var tasksTriggerCmd = &cobra.Command{
	Use:     "trigger NAME",
	Short:   "Run a background task now",
	Example: "  tokenkeep tasks trigger " + tasks.ExpiryReportTask + " --wait",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		before, correlation, err := cli.Task(cmd.Context(), name)
		if err != nil {
			return logError(err, correlation, "unknown task")
		}

		if correlation, err := cli.TriggerTask(cmd.Context(), name); err != nil {
			return logError(err, correlation, "failed to trigger task")
		}
		if !triggerWait {
			logSuccess("triggered task '%s'.", bold(name))
			log.Info().Msgf("Run '%s' to see the report.", color.CyanString("tokenkeep tasks list"))
			return nil
		}

		after, err := waitForRun(cmd, cli, name, before.Runs)
		if err != nil {
			return err
		}
		if after.Outcome == tasks.OutcomeFailed {
			log.Error().Msgf("%s task '%s' failed: %s", redCross, name, after.LastError)
			return BeQuietError{}
		}
		summary := ""
		if after.LastReport != nil {
			summary = after.LastReport.Summary
		}
		logSuccess("%s: %s", bold(name), summary)
		printFlagged(after)
		return nil
	},
}

// waitForRun polls the task until it has completed more than runs runs.
func waitForRun(cmd *cobra.Command, cli *client.Client, name string, runs int) (tasks.Status, error) {
	deadline := time.Now().Add(triggerTimeout)
	for {
		s, correlation, err := cli.Task(cmd.Context(), name)
		if err != nil {
			return s, logError(err, correlation, "failed to poll task")
		}
		if s.Runs > runs && !s.Running {
			return s, nil
		}
		if time.Now().After(deadline) {
			return s, fmt.Errorf("task '%s' did not finish within %s", name, triggerTimeout)
		}
		select {
		case <-cmd.Context().Done():
			return s, cmd.Context().Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}

func init() {
	tasksTriggerCmd.Flags().BoolVarP(&triggerWait, "wait", "w", false, "wait for the run and print its report")
	tasksTriggerCmd.Flags().DurationVar(&triggerTimeout, "timeout", time.Minute, "how long --wait waits")
	tasksCmd.AddCommand(tasksTriggerCmd)
}
