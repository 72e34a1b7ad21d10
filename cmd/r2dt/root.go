// cmd/r2dt/root.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"r2dt/internal/logging"
	"r2dt/internal/version"
)

var rootFlags struct {
	configPath string
	verbose    bool
}

var rootCmd = &cobra.Command{
	Use:   "r2dt",
	Short: "Visualise RNA secondary structure using templates",
	Long: "r2dt classifies RNA sequences against a cascade of covariance-model\n" +
		"template libraries and draws each sequence in its matched layout.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), version.Banner())
		return logging.Init(rootFlags.verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Path to a YAML config file overriding the defaults")
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(drawCmd)
	rootCmd.AddCommand(crwCmd)
	rootCmd.AddCommand(rnasepCmd)
	rootCmd.AddCommand(ribovisionCmd)
	rootCmd.AddCommand(rfamCmd)
	rootCmd.AddCommand(gtrnadbCmd)
	rootCmd.AddCommand(listModelsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version.Version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
