// Package cli wires the cobra command surface for the mentions binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/scixmuse/mentions/internal/logging"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mentions",
	Short: "Locate software mentions in a scientific-article corpus",
	Long: `mentions runs the software-mention extraction pipeline: it resolves an
ontology of named software terms against a bibcode location index, then
scans the corpus in parallel and extracts a bounded context window around
every match occurrence into a columnar artifact.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logging.Config{Verbose: verbose, Pretty: true})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
