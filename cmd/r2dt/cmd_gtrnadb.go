// cmd/r2dt/cmd_gtrnadb.go
package main

import (
	"github.com/spf13/cobra"

	"r2dt/internal/app"
)

var gtrnadbFlags struct {
	domain  string
	isotype string
}

var gtrnadbCmd = &cobra.Command{
	Use:   "gtrnadb",
	Short: "Draw tRNA sequences using GtRNAdb templates",
}

var gtrnadbDrawCmd = &cobra.Command{
	Use:   "draw <fasta> <output-dir>",
	Short: "Classify tRNAs with tRNAscan-SE and draw the matches",
	Long: `Classify each input sequence with tRNAscan-SE and draw it with the
matching domain and isotype template. When both --domain and --isotype
are given, classification is skipped and every sequence is drawn with
that template directly.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.GtRNAdbDraw(cmd.Context(), args[0], args[1],
			gtrnadbFlags.domain, gtrnadbFlags.isotype, stageOptions())
	},
}

func init() {
	f := gtrnadbDrawCmd.Flags()
	f.StringVar(&gtrnadbFlags.domain, "domain", "", "Taxonomic domain of the template (A, B or E)")
	f.StringVar(&gtrnadbFlags.isotype, "isotype", "", "tRNA isotype of the template (for example Thr)")
	addRenderFlags(gtrnadbDrawCmd)
	gtrnadbCmd.AddCommand(gtrnadbDrawCmd)
}
