// cmd/r2dt/cmd_rfam.go
package main

import (
	"github.com/spf13/cobra"

	"r2dt/internal/app"
)

var rfamCmd = &cobra.Command{
	Use:   "rfam",
	Short: "Draw sequences using a single Rfam family template",
}

var rfamDrawCmd = &cobra.Command{
	Use:   "draw <accession> <fasta> <output-dir>",
	Short: "Draw every input sequence with the named Rfam family template",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RfamDraw(cmd.Context(), args[0], args[1], args[2], stageOptions())
	},
}

var rfamBlacklistedCmd = &cobra.Command{
	Use:   "blacklisted",
	Short: "List Rfam families excluded from template drawing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Blacklisted(cmd.OutOrStdout(), rootFlags.configPath)
	},
}

func init() {
	addRenderFlags(rfamDrawCmd)
	rfamCmd.AddCommand(rfamDrawCmd)
	rfamCmd.AddCommand(rfamBlacklistedCmd)
}
