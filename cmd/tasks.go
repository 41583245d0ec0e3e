package cmd

import (
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"task"},
	Short:   "Inspect and trigger background tasks on the server",
	Long:    `List the background tasks of a running server (like the expiry report), trigger them and read their logs.`,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
