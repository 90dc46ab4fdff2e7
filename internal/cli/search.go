package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scixmuse/mentions/pkg/extract"
	"github.com/scixmuse/mentions/pkg/search"
)

var searchFlags struct {
	artifact string
	limit    int
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search extracted mentions by software name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := search.Load(searchFlags.artifact)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		rows := store.Query(query)
		if len(rows) == 0 {
			search.DisplaySuggestions(os.Stdout, query, search.Suggest(query, store.TermNames()))
			return nil
		}
		search.Display(os.Stdout, query, rows, searchFlags.limit)
		return nil
	},
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchFlags.artifact, "artifact", filepath.Join("results", extract.ArtifactName), "path to the parquet artifact")
	f.IntVar(&searchFlags.limit, "limit", 10, "max mentions printed per term (0 = all)")
}
