package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scixmuse/mentions/pkg/bibindex"
)

var indexFlags struct {
	corpusRoot string
	indexDir   string
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the bibcode location index from the corpus",
	Long: `Scans every NDJSON file under the corpus root and records, per bibcode,
the file, byte offset and line number of its document. The resulting index
is what the preprocessing phase joins the ontology's bibcodes against.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if indexFlags.corpusRoot == "" || indexFlags.indexDir == "" {
			return fmt.Errorf("--corpus and --index are required")
		}

		cfg := &bibindex.Config{Dir: indexFlags.indexDir, SyncWrites: false}
		idx, err := bibindex.Open(cfg)
		if err != nil {
			return err
		}
		defer idx.Close()

		stats, err := idx.Build(indexFlags.corpusRoot)
		if err != nil {
			return err
		}
		fmt.Printf("indexed %d records from %d files (%d lines skipped)\n",
			stats.Records, stats.Files, stats.Skipped)
		return nil
	},
}

func init() {
	f := indexCmd.Flags()
	f.StringVar(&indexFlags.corpusRoot, "corpus", "", "base path of the NDJSON corpus files")
	f.StringVar(&indexFlags.indexDir, "index", "", "directory to create the index in")
}
