// Package export converts the columnar result artifact into the flat formats
// downstream consumers want: a single CSV (optionally gzipped), per-term
// CSVs, and a summary-statistics JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/rs/zerolog/log"

	"github.com/scixmuse/mentions/pkg/extract"
)

var csvHeader = []string{
	"term_id", "term_name", "bibcode", "title", "abstract",
	"context", "match_count", "in_title", "in_abstract", "match_location",
}

func csvRecord(r extract.Row) []string {
	return []string{
		r.TermID, r.TermName, r.Bibcode, r.Title, r.Abstract,
		r.Context, strconv.FormatInt(r.MatchCount, 10),
		strconv.FormatBool(r.InTitle), strconv.FormatBool(r.InAbstract),
		r.MatchLocation,
	}
}

func writeCSV(w io.Writer, rows []extract.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(csvRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes all rows to path. With compress, ".gz" is appended and the
// stream is gzipped (parallel gzip, the files can run to gigabytes). Returns
// the path actually written.
func WriteCSV(path string, rows []extract.Row, compress bool) (string, error) {
	if compress {
		path += ".gz"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	if compress {
		zw := pgzip.NewWriter(f)
		defer zw.Close()
		w = zw
	}
	if err := writeCSV(w, rows); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	log.Info().Int("rows", len(rows)).Str("path", path).Msg("CSV exported")
	return path, nil
}

// safeFilename makes a term id usable as a path component.
func safeFilename(termID string) string {
	s := strings.ReplaceAll(termID, "/", "_")
	return strings.ReplaceAll(s, "\\", "_")
}

// WritePerTermCSVs writes one CSV per distinct term id into dir.
func WritePerTermCSVs(dir string, rows []extract.Row, compress bool) ([]string, error) {
	byTerm := make(map[string][]extract.Row)
	for _, r := range rows {
		byTerm[r.TermID] = append(byTerm[r.TermID], r)
	}

	termIDs := make([]string, 0, len(byTerm))
	for id := range byTerm {
		termIDs = append(termIDs, id)
	}
	sort.Strings(termIDs)

	var written []string
	for _, id := range termIDs {
		path := filepath.Join(dir, "term_"+safeFilename(id)+".csv")
		out, err := WriteCSV(path, byTerm[id], compress)
		if err != nil {
			return written, err
		}
		written = append(written, out)
	}

	log.Info().Int("files", len(written)).Str("dir", dir).Msg("per-term CSVs exported")
	return written, nil
}

// TermCount is one entry of the top-terms ranking.
type TermCount struct {
	TermID   string `json:"term_id"`
	TermName string `json:"term_name"`
	Mentions int    `json:"mentions"`
}

// Summary aggregates the whole result set.
type Summary struct {
	TotalMentions  int            `json:"total_mentions"`
	UniqueTerms    int            `json:"unique_terms"`
	UniqueBibcodes int            `json:"unique_bibcodes"`
	ByLocation     map[string]int `json:"mentions_by_location"`
	TopTerms       []TermCount    `json:"top_terms_by_mentions"`
	InTitle        int            `json:"mentions_with_title_presence"`
	InAbstract     int            `json:"mentions_with_abstract_presence"`
}

// Summarize computes summary statistics over the rows.
func Summarize(rows []extract.Row) Summary {
	s := Summary{
		TotalMentions: len(rows),
		ByLocation:    make(map[string]int),
	}
	terms := make(map[string]string)
	bibcodes := make(map[string]struct{})
	perTerm := make(map[string]int)

	for _, r := range rows {
		terms[r.TermID] = r.TermName
		bibcodes[r.Bibcode] = struct{}{}
		perTerm[r.TermID]++
		s.ByLocation[r.MatchLocation]++
		if r.InTitle {
			s.InTitle++
		}
		if r.InAbstract {
			s.InAbstract++
		}
	}

	s.UniqueTerms = len(terms)
	s.UniqueBibcodes = len(bibcodes)

	for id, n := range perTerm {
		s.TopTerms = append(s.TopTerms, TermCount{TermID: id, TermName: terms[id], Mentions: n})
	}
	sort.Slice(s.TopTerms, func(i, j int) bool {
		if s.TopTerms[i].Mentions != s.TopTerms[j].Mentions {
			return s.TopTerms[i].Mentions > s.TopTerms[j].Mentions
		}
		return s.TopTerms[i].TermID < s.TopTerms[j].TermID
	})
	if len(s.TopTerms) > 20 {
		s.TopTerms = s.TopTerms[:20]
	}
	return s
}

// WriteSummary writes the summary statistics JSON to path.
func WriteSummary(path string, rows []extract.Row) (Summary, error) {
	s := Summarize(rows)
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return s, fmt.Errorf("encode summary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return s, fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return s, fmt.Errorf("write summary %s: %w", path, err)
	}
	return s, nil
}
