package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scixmuse/mentions/pkg/extract"
)

func sampleRows() []extract.Row {
	return []extract.Row{
		{TermID: "sushi", TermName: "SUSHI: sample", Bibcode: "B1", Context: "uses SUSHI daily",
			MatchCount: 1, InTitle: true, MatchLocation: extract.LocationTitle},
		{TermID: "sushi", TermName: "SUSHI: sample", Bibcode: "B1", Context: "SUSHI again",
			MatchCount: 1, InTitle: true, MatchLocation: extract.LocationBody},
		{TermID: "sushi", TermName: "SUSHI: sample", Bibcode: "B2", Context: "SUSHI elsewhere",
			MatchCount: 1, InAbstract: true, MatchLocation: extract.LocationAbstract},
		{TermID: "wok", TermName: "WOK: other", Bibcode: "B2", Context: "a WOK run",
			MatchCount: 1, MatchLocation: extract.LocationBody},
	}
}

func TestWriteCSVPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentions.csv")
	out, err := WriteCSV(path, sampleRows(), false)
	require.NoError(t, err)
	assert.Equal(t, path, out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "sushi", records[1][0])
	assert.Equal(t, "true", records[1][7])
	assert.Equal(t, extract.LocationBody, records[4][9])
}

func TestWriteCSVGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentions.csv")
	out, err := WriteCSV(path, sampleRows(), true)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, ".csv.gz"))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	zr, err := pgzip.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()

	records, err := csv.NewReader(zr).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestWritePerTermCSVs(t *testing.T) {
	dir := t.TempDir()
	written, err := WritePerTermCSVs(dir, sampleRows(), false)
	require.NoError(t, err)
	require.Len(t, written, 2)
	assert.Equal(t, filepath.Join(dir, "term_sushi.csv"), written[0])
	assert.Equal(t, filepath.Join(dir, "term_wok.csv"), written[1])

	f, err := os.Open(written[0])
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 4) // header + three sushi rows
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c", safeFilename(`a/b\c`))
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRows())

	assert.Equal(t, 4, s.TotalMentions)
	assert.Equal(t, 2, s.UniqueTerms)
	assert.Equal(t, 2, s.UniqueBibcodes)
	assert.Equal(t, 2, s.ByLocation[extract.LocationBody])
	assert.Equal(t, 1, s.ByLocation[extract.LocationTitle])
	assert.Equal(t, 1, s.ByLocation[extract.LocationAbstract])
	assert.Equal(t, 2, s.InTitle)
	assert.Equal(t, 1, s.InAbstract)

	require.Len(t, s.TopTerms, 2)
	assert.Equal(t, "sushi", s.TopTerms[0].TermID)
	assert.Equal(t, 3, s.TopTerms[0].Mentions)
	assert.Equal(t, "wok", s.TopTerms[1].TermID)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalMentions)
	assert.Empty(t, s.TopTerms)
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	s, err := WriteSummary(path, sampleRows())
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalMentions)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_mentions": 4`)
	assert.Contains(t, string(data), `"top_terms_by_mentions"`)
}
