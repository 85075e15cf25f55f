package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "soar",
	Short: "A CLI tool for the Pterodactyl panel APIs",
	Long: `soar is a command-line client for the Pterodactyl panel's Application and Client APIs.

Fetch, create, update and delete panel resources, view the changes an update
made, and keep a local log of every request.

Examples:
  soar app users get --id 4
  soar app users update 4 -d '{"email": "new@example.com"}'
  soar client servers get --yaml
  soar client power 1a7ce997 restart
  soar logs fetch --method get --app`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd)
}
