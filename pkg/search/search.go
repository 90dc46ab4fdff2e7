// Package search answers "show me everything we extracted for this software"
// over a finished result artifact: substring lookup on term names with a
// pre-colon fallback, plus fuzzy suggestions when nothing matches.
package search

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/scixmuse/mentions/pkg/extract"
	"github.com/scixmuse/mentions/pkg/match"
)

// Store holds a loaded result artifact.
type Store struct {
	rows []extract.Row
}

// Load reads the artifact at path into memory.
func Load(path string) (*Store, error) {
	rows, err := extract.ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	return &Store{rows: rows}, nil
}

// NewStore wraps an already-loaded row set.
func NewStore(rows []extract.Row) *Store { return &Store{rows: rows} }

// Len reports the number of loaded mentions.
func (s *Store) Len() int { return len(s.rows) }

// Rows returns the full loaded row set.
func (s *Store) Rows() []extract.Row { return s.rows }

// Query returns every mention whose term name contains query
// (case-insensitive). When that finds nothing, it retries against the
// pre-colon software name.
func (s *Store) Query(query string) []extract.Row {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var results []extract.Row
	for _, r := range s.rows {
		if strings.Contains(strings.ToLower(r.TermName), q) {
			results = append(results, r)
		}
	}
	if len(results) > 0 {
		return results
	}

	for _, r := range s.rows {
		if strings.Contains(strings.ToLower(match.Literal(r.TermName)), q) {
			results = append(results, r)
		}
	}
	return results
}

// TermNames returns the sorted distinct term names in the store.
func (s *Store) TermNames() []string {
	seen := make(map[string]struct{})
	for _, r := range s.rows {
		seen[r.TermName] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type scored struct {
	name  string
	score float64
}

// Suggest ranks candidate term names by similarity to the query and returns
// the closest few. Scoring combines whole-string Levenshtein with a
// best-token match so "astropi" still finds "Astropy: Community Python
// library".
func Suggest(query string, names []string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(names) == 0 {
		return nil
	}

	var candidates []scored
	for _, name := range names {
		if name == "" {
			continue
		}
		score := similarity(q, name)
		if score > 0.5 {
			candidates = append(candidates, scored{name: name, score: score})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].name < candidates[j].name
	})

	limit := 5
	if len(candidates) < limit {
		limit = len(candidates)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = candidates[i].name
	}
	return out
}

// similarity returns a 0..1 score between the lowercase query and a name.
func similarity(q, name string) float64 {
	nameLower := strings.ToLower(name)
	if q == nameLower {
		return 1.0
	}
	if strings.Contains(nameLower, q) {
		return 0.95
	}

	best := normalizedLevenshtein(q, nameLower)

	// Token-wise: the query usually targets the short software name, not the
	// long description after the colon.
	for _, token := range strings.FieldsFunc(nameLower, func(r rune) bool {
		return r == ' ' || r == ':' || r == '-' || r == '/' || r == ','
	}) {
		if score := normalizedLevenshtein(q, token); score > best {
			best = score
		}
	}
	return best
}

func normalizedLevenshtein(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	dist := levenshtein.Distance(a, b, nil)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	score := 1.0 - float64(dist)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}
