package extract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ArtifactName)

	results := []Result{
		{
			TermID:        "sushi",
			TermName:      "SUSHI: sample software",
			Bibcode:       "2020Test.....1A",
			Title:         "SUSHI at work",
			Abstract:      "We use SUSHI.",
			Context:       "we use SUSHI here",
			MatchCount:    1,
			InTitle:       true,
			InAbstract:    true,
			InBody:        true,
			MatchLocation: LocationBody,
		},
		{
			TermID:        "wok",
			TermName:      "WOK: another package",
			Bibcode:       "2021Test.....2B",
			Context:       "the WOK pipeline",
			MatchCount:    1,
			MatchLocation: LocationTitle,
		},
	}

	require.NoError(t, WriteArtifact(path, results))

	rows, err := ReadArtifact(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, ToRow(results[0]), rows[0])
	assert.Equal(t, ToRow(results[1]), rows[1])
	assert.Equal(t, "sushi", rows[0].TermID)
	assert.True(t, rows[0].InTitle)
	assert.Equal(t, LocationTitle, rows[1].MatchLocation)
}

func TestEmptyArtifactIsReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), ArtifactName)
	require.NoError(t, WriteArtifact(path, nil))

	rows, err := ReadArtifact(path)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadArtifactMissingFile(t *testing.T) {
	_, err := ReadArtifact(filepath.Join(t.TempDir(), "nope.parquet"))
	assert.Error(t, err)
}
