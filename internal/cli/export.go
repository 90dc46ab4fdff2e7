package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scixmuse/mentions/pkg/export"
	"github.com/scixmuse/mentions/pkg/extract"
)

var exportFlags struct {
	artifact string
	outDir   string
	perTerm  bool
	compress bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export CSVs and summary statistics from an existing artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := extract.ReadArtifact(exportFlags.artifact)
		if err != nil {
			return err
		}

		if _, err := export.WriteCSV(filepath.Join(exportFlags.outDir, "software_mentions_all.csv"), rows, exportFlags.compress); err != nil {
			return err
		}
		if exportFlags.perTerm {
			if _, err := export.WritePerTermCSVs(filepath.Join(exportFlags.outDir, "csvs_by_term"), rows, exportFlags.compress); err != nil {
				return err
			}
		}
		_, err = export.WriteSummary(filepath.Join(exportFlags.outDir, "summary_statistics.json"), rows)
		return err
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.artifact, "artifact", filepath.Join("results", extract.ArtifactName), "path to the parquet artifact")
	f.StringVar(&exportFlags.outDir, "output", filepath.Join("results", "exports"), "export directory")
	f.BoolVar(&exportFlags.perTerm, "per-term", false, "export one CSV per term")
	f.BoolVar(&exportFlags.compress, "compress", true, "gzip the CSV exports")
}
