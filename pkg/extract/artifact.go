package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog/log"
)

// ArtifactName is the filename of the columnar result artifact.
const ArtifactName = "software_mentions.parquet"

// Row is the persisted artifact schema. It tracks the external contract
// exactly: one row per match occurrence, in_body intentionally absent.
type Row struct {
	TermID        string `parquet:"term_id"`
	TermName      string `parquet:"term_name"`
	Bibcode       string `parquet:"bibcode"`
	Title         string `parquet:"title"`
	Abstract      string `parquet:"abstract"`
	Context       string `parquet:"context"`
	MatchCount    int64  `parquet:"match_count"`
	InTitle       bool   `parquet:"in_title"`
	InAbstract    bool   `parquet:"in_abstract"`
	MatchLocation string `parquet:"match_location"`
}

// ToRow projects an in-memory result onto the artifact schema.
func ToRow(r Result) Row {
	return Row{
		TermID:        r.TermID,
		TermName:      r.TermName,
		Bibcode:       r.Bibcode,
		Title:         r.Title,
		Abstract:      r.Abstract,
		Context:       r.Context,
		MatchCount:    r.MatchCount,
		InTitle:       r.InTitle,
		InAbstract:    r.InAbstract,
		MatchLocation: r.MatchLocation,
	}
}

// WriteArtifact persists the result set as snappy-compressed Parquet. An
// empty result set still produces a validly-schemed empty file.
func WriteArtifact(path string, results []Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = ToRow(r)
	}

	if err := parquet.WriteFile(path, rows, parquet.Compression(&parquet.Snappy)); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}

	log.Info().Int("rows", len(rows)).Str("path", path).Msg("artifact written")
	return nil
}

// ReadArtifact loads a result artifact back into rows.
func ReadArtifact(path string) ([]Row, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return rows, nil
}
