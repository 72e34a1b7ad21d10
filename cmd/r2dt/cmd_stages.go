// cmd/r2dt/cmd_stages.go
package main

import (
	"github.com/spf13/cobra"

	"r2dt/internal/app"
)

// renderFlags are shared by the single-library subcommands; only one
// subcommand runs per invocation so a single binding is safe.
var renderFlags struct {
	constraint  bool
	exclusion   string
	foldType    string
	skipFilters bool
}

func stageOptions() app.Options {
	return app.Options{
		ConfigPath:  rootFlags.configPath,
		Constraint:  renderFlags.constraint,
		Exclusion:   renderFlags.exclusion,
		FoldType:    renderFlags.foldType,
		SkipFilters: renderFlags.skipFilters,
	}
}

func addRenderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&renderFlags.constraint, "constraint", false, "Fold insertions with RNAfold using the template as constraint")
	f.StringVar(&renderFlags.exclusion, "exclusion", "", "Path to a file listing residues excluded from constrained folding")
	f.StringVar(&renderFlags.foldType, "fold-type", "", "Constrained folding mode passed to the renderer")
}

func stageDrawCmd(stage, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draw <fasta> <output-dir>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.StageDraw(cmd.Context(), stage, args[0], args[1], stageOptions())
		},
	}
	addRenderFlags(cmd)
	cmd.Flags().BoolVar(&renderFlags.skipFilters, "skip-ribovore-filters", false, "Accept ribotyper hits that failed its quality filters")
	return cmd
}

var crwCmd = &cobra.Command{
	Use:   "crw",
	Short: "Draw sequences using CRW rRNA templates only",
}

var rnasepCmd = &cobra.Command{
	Use:   "rnasep",
	Short: "Draw sequences using RNase P templates only",
}

var ribovisionCmd = &cobra.Command{
	Use:   "ribovision",
	Short: "Draw sequences using RiboVision rRNA templates only",
}

func init() {
	crwCmd.AddCommand(stageDrawCmd("crw", "Classify against CRW templates and draw the matches"))
	rnasepCmd.AddCommand(stageDrawCmd("rnasep", "Classify against RNase P templates and draw the matches"))

	ssu := stageDrawCmd("ribovision-ssu", "Classify against RiboVision SSU templates and draw the matches")
	ssu.Use = "draw-ssu <fasta> <output-dir>"
	lsu := stageDrawCmd("ribovision-lsu", "Classify against RiboVision LSU templates and draw the matches")
	lsu.Use = "draw-lsu <fasta> <output-dir>"
	ribovisionCmd.AddCommand(ssu, lsu)
}
