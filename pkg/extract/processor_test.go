package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scixmuse/mentions/pkg/match"
	"github.com/scixmuse/mentions/pkg/ontology"
)

func sushiProcessor() *Processor {
	terms := ontology.TermTable{
		"sushi": {ID: "sushi", Name: "SUSHI: Software for Understanding Scientific Hierarchies"},
		"other": {ID: "other", Name: "OTHER: never mentioned"},
	}
	return NewProcessor(terms, match.Compile(terms), 5)
}

func TestProcessEmitsOneResultPerOccurrence(t *testing.T) {
	p := sushiProcessor()
	doc := &Document{
		Bibcode:  "2020Test.....1A",
		Title:    "SUSHI enables hierarchy studies",
		Abstract: "We present SUSHI, a new package.",
		Body:     FlexText("SUSHI one. Then SUSHI two. Later sushi three and finally SUSHI four."),
	}

	results := p.Process(doc, []string{"sushi", "other"})
	require.Len(t, results, 6)

	byLocation := map[string]int{}
	for _, r := range results {
		byLocation[r.MatchLocation]++
		// Presence flags are per term per field, shared by every record.
		assert.True(t, r.InTitle)
		assert.True(t, r.InAbstract)
		assert.True(t, r.InBody)
		assert.Equal(t, int64(1), r.MatchCount)
		assert.Equal(t, "sushi", r.TermID)
		assert.Equal(t, "2020Test.....1A", r.Bibcode)
		assert.Contains(t, strings.ToLower(r.Context), "sushi")
	}
	assert.Equal(t, 1, byLocation[LocationTitle])
	assert.Equal(t, 1, byLocation[LocationAbstract])
	assert.Equal(t, 4, byLocation[LocationBody])

	// Field order: title before abstract before body.
	assert.Equal(t, LocationTitle, results[0].MatchLocation)
	assert.Equal(t, LocationAbstract, results[1].MatchLocation)
	assert.Equal(t, LocationBody, results[2].MatchLocation)
}

func TestProcessPartialFieldPresence(t *testing.T) {
	p := sushiProcessor()
	doc := &Document{
		Bibcode: "B",
		Title:   "Unrelated title",
		Body:    "Only the body mentions SUSHI here.",
	}

	results := p.Process(doc, []string{"sushi"})
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, LocationBody, r.MatchLocation)
	assert.False(t, r.InTitle)
	assert.False(t, r.InAbstract)
	assert.True(t, r.InBody)
}

func TestProcessZeroMatches(t *testing.T) {
	p := sushiProcessor()
	doc := &Document{Bibcode: "B", Title: "nothing relevant", Body: "still nothing"}
	assert.Empty(t, p.Process(doc, []string{"sushi"}))
}

func TestProcessUnknownTermSkipped(t *testing.T) {
	p := sushiProcessor()
	doc := &Document{Bibcode: "B", Title: "SUSHI"}
	results := p.Process(doc, []string{"sushi", "ghost-term"})
	require.Len(t, results, 1)
}

func TestProcessContextComesFromOwnField(t *testing.T) {
	p := sushiProcessor()
	doc := &Document{
		Bibcode:  "B",
		Title:    "title words around SUSHI here now",
		Abstract: "abstract words around SUSHI here now",
	}
	results := p.Process(doc, []string{"sushi"})
	require.Len(t, results, 2)
	assert.Contains(t, results[0].Context, "title words")
	assert.Contains(t, results[1].Context, "abstract words")
}

func TestFlexTextNormalization(t *testing.T) {
	doc, err := ParseDocument([]byte(`{
		"bibcode": "B",
		"title": ["Part one", "", "Part two"],
		"abstract": null,
		"body": 42
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Part one Part two", string(doc.Title))
	assert.Equal(t, "", string(doc.Abstract))
	assert.Equal(t, "42", string(doc.Body))
}

func TestParseDocumentRejectsBadJSON(t *testing.T) {
	_, err := ParseDocument([]byte("not json at all"))
	assert.Error(t, err)
}
