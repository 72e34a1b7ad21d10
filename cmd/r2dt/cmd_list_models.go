// cmd/r2dt/cmd_list_models.go
package main

import (
	"github.com/spf13/cobra"

	"r2dt/internal/app"
)

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List all installed templates and refresh the catalog file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ListModels(cmd.OutOrStdout(), rootFlags.configPath)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// The banner printed by the root pre-run already carries the version.
	},
}
