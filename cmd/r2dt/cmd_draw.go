// cmd/r2dt/cmd_draw.go
package main

import (
	"github.com/spf13/cobra"

	"r2dt/internal/app"
)

var drawFlags struct {
	forceTemplate string
	constraint    bool
	exclusion     string
	foldType      string
	skipFilters   bool
}

var drawCmd = &cobra.Command{
	Use:   "draw <fasta> <output-dir>",
	Short: "Classify sequences against all template libraries and draw them",
	Long: `Run the full template cascade: each library claims the sequences it
recognises, in priority order, and every claimed sequence is drawn in
its template's layout. Unclaimed sequences are reported at the end.

With --force-template the cascade is skipped and every input sequence
is drawn against the named template.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := drawOptions()
		if drawFlags.forceTemplate != "" {
			return app.ForceDraw(cmd.Context(), drawFlags.forceTemplate, args[0], args[1], opts)
		}
		return app.Draw(cmd.Context(), args[0], args[1], opts)
	},
}

func init() {
	f := drawCmd.Flags()
	f.StringVar(&drawFlags.forceTemplate, "force-template", "", "Draw every sequence with this template, skipping classification")
	f.BoolVar(&drawFlags.constraint, "constraint", false, "Fold insertions with RNAfold using the template as constraint")
	f.StringVar(&drawFlags.exclusion, "exclusion", "", "Path to a file listing residues excluded from constrained folding")
	f.StringVar(&drawFlags.foldType, "fold-type", "", "Constrained folding mode passed to the renderer")
	f.BoolVar(&drawFlags.skipFilters, "skip-ribovore-filters", false, "Accept ribotyper hits that failed its quality filters")
}

func drawOptions() app.Options {
	return app.Options{
		ConfigPath:  rootFlags.configPath,
		Constraint:  drawFlags.constraint,
		Exclusion:   drawFlags.exclusion,
		FoldType:    drawFlags.foldType,
		SkipFilters: drawFlags.skipFilters,
	}
}
