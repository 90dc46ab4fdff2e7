package cli

import (
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scixmuse/mentions/pkg/extract"
	"github.com/scixmuse/mentions/pkg/search"
	"github.com/scixmuse/mentions/pkg/server"
)

var serveFlags struct {
	artifact string
	addr     string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the results API over an existing artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := search.Load(serveFlags.artifact)
		if err != nil {
			return err
		}
		log.Info().
			Int("mentions", store.Len()).
			Str("addr", serveFlags.addr).
			Msg("starting results API")
		return server.NewServer(store).Run(serveFlags.addr)
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.artifact, "artifact", filepath.Join("results", extract.ArtifactName), "path to the parquet artifact")
	f.StringVar(&serveFlags.addr, "addr", ":8080", "listen address")
}
