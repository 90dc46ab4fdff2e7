package cli

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scixmuse/mentions/internal/pipeline"
)

var runFlags = struct {
	configPath string
	cfg        pipeline.Config
}{}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the extraction pipeline (preprocess + extract + export)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &runFlags.cfg
		if runFlags.configPath != "" {
			loaded, err := pipeline.LoadConfig(runFlags.configPath)
			if err != nil {
				return err
			}
			mergeConfig(cmd, loaded, cfg)
			cfg = loaded
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p := pipeline.New(cfg)
		log.Info().Str("run_id", p.RunID()).Msg("starting pipeline")
		return p.Run(ctx)
	},
}

// mergeConfig overlays flag values the user explicitly set onto a config
// loaded from YAML. Flags always win over the file.
func mergeConfig(cmd *cobra.Command, dst, flags *pipeline.Config) {
	if cmd.Flags().Changed("ontology") {
		dst.OntologyPath = flags.OntologyPath
	}
	if cmd.Flags().Changed("index") {
		dst.IndexDir = flags.IndexDir
	}
	if cmd.Flags().Changed("corpus") {
		dst.CorpusRoot = flags.CorpusRoot
	}
	if cmd.Flags().Changed("output") {
		dst.OutputDir = flags.OutputDir
	}
	if cmd.Flags().Changed("workers") {
		dst.Workers = flags.Workers
	}
	if cmd.Flags().Changed("window") {
		dst.WindowWords = flags.WindowWords
	}
	if cmd.Flags().Changed("export-csv") {
		dst.ExportCSV = flags.ExportCSV
	}
	if cmd.Flags().Changed("csv-per-term") {
		dst.CSVPerTerm = flags.CSVPerTerm
	}
	if cmd.Flags().Changed("compress") {
		dst.Compress = flags.Compress
	}
	dst.SkipPreprocessing = flags.SkipPreprocessing
	dst.PreprocessingOnly = flags.PreprocessingOnly
	dst.DryRun = flags.DryRun
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.configPath, "config", "", "YAML config file (flags override it)")
	f.StringVar(&runFlags.cfg.OntologyPath, "ontology", "", "path to the ontology JSON file")
	f.StringVar(&runFlags.cfg.IndexDir, "index", "", "path to the bibcode location index")
	f.StringVar(&runFlags.cfg.CorpusRoot, "corpus", "", "base path of the NDJSON corpus files")
	f.StringVar(&runFlags.cfg.OutputDir, "output", "results", "output directory")
	f.IntVar(&runFlags.cfg.Workers, "workers", 0, "parallel workers (0 = CPU count, capped at 32)")
	f.IntVar(&runFlags.cfg.WindowWords, "window", 0, "context window words each side (0 = default 100)")
	f.BoolVar(&runFlags.cfg.SkipPreprocessing, "skip-preprocessing", false, "reuse existing preprocessing artifacts")
	f.BoolVar(&runFlags.cfg.PreprocessingOnly, "preprocessing-only", false, "run only the preprocessing phase")
	f.BoolVar(&runFlags.cfg.DryRun, "dry-run", false, "validate inputs without processing")
	f.BoolVar(&runFlags.cfg.ExportCSV, "export-csv", true, "export a single CSV alongside the artifact")
	f.BoolVar(&runFlags.cfg.CSVPerTerm, "csv-per-term", false, "export one CSV per term")
	f.BoolVar(&runFlags.cfg.Compress, "compress", true, "gzip the CSV exports")
}
