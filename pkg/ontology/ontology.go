// Package ontology loads the software-term dictionary and derives, per term,
// the set of bibcodes that could co-occur with it. The ontology is an external
// contract: a JSON object keyed by term id, each entry carrying a title and a
// handful of bibcode-bearing fields that may be a list, a scalar string, a
// boolean false sentinel, or absent entirely.
package ontology

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/rs/zerolog/log"
)

// Term holds the metadata for one ontology entry. Immutable after load.
type Term struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	OriginID string `json:"origin_id"`
}

// TermTable maps term id to its metadata.
type TermTable map[string]Term

// TermBibcodes maps term id to its deduplicated, sorted bibcode list.
type TermBibcodes map[string][]string

// bibcodeFields is the fixed list of ontology fields that can carry bibcodes.
var bibcodeFields = []string{"positive_bibcodes", "negative_bibcodes", "used_in", "described_in", "cited_in"}

var bibcodeURLPattern = regexp.MustCompile(`abs/([^/?#]+)`)

// ExtractBibcode normalizes a single ontology entry to a bare bibcode. URL
// entries containing "abs/" yield the path segment after it; anything else is
// returned as-is.
func ExtractBibcode(entry string) string {
	if entry == "" {
		return ""
	}
	if m := bibcodeURLPattern.FindStringSubmatch(entry); m != nil {
		return m[1]
	}
	return entry
}

// looseString tolerates absent or non-string JSON values, resolving them to "".
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = looseString(v)
	return nil
}

// bibcodeList tolerates the three shapes a bibcode field takes in the wild:
// a list of strings, a scalar string, or a boolean false meaning "no data".
// Non-string list elements are dropped.
type bibcodeList []string

func (b *bibcodeList) UnmarshalJSON(data []byte) error {
	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				*b = append(*b, s)
			}
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "" {
			*b = bibcodeList{s}
		}
		return nil
	}
	// Boolean false (or anything else) is a valid "no data" sentinel.
	*b = nil
	return nil
}

type rawEntry struct {
	Title            looseString `json:"title"`
	Abstract         looseString `json:"abstract"`
	ASCLID           looseString `json:"ascl_id"`
	PositiveBibcodes bibcodeList `json:"positive_bibcodes"`
	NegativeBibcodes bibcodeList `json:"negative_bibcodes"`
	UsedIn           bibcodeList `json:"used_in"`
	DescribedIn      bibcodeList `json:"described_in"`
	CitedIn          bibcodeList `json:"cited_in"`
}

func (e *rawEntry) allBibcodeEntries() []string {
	var out []string
	out = append(out, e.PositiveBibcodes...)
	out = append(out, e.NegativeBibcodes...)
	out = append(out, e.UsedIn...)
	out = append(out, e.DescribedIn...)
	out = append(out, e.CitedIn...)
	return out
}

// Parse loads the ontology file and returns the term table plus the per-term
// bibcode sets. A malformed ontology is fatal; a missing per-entry title is
// tolerated (empty name).
func Parse(path string) (TermTable, TermBibcodes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read ontology %s: %w", path, err)
	}

	var entries map[string]rawEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil, fmt.Errorf("parse ontology %s: %w", path, err)
	}

	terms := make(TermTable, len(entries))
	termBibcodes := make(TermBibcodes)
	totalAssoc := 0

	for id, entry := range entries {
		terms[id] = Term{
			ID:       id,
			Name:     string(entry.Title),
			Title:    string(entry.Title),
			Abstract: string(entry.Abstract),
			OriginID: string(entry.ASCLID),
		}

		seen := make(map[string]struct{})
		for _, raw := range entry.allBibcodeEntries() {
			code := ExtractBibcode(raw)
			if code == "" {
				continue
			}
			seen[code] = struct{}{}
		}
		if len(seen) == 0 {
			continue
		}
		codes := make([]string, 0, len(seen))
		for code := range seen {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		termBibcodes[id] = codes
		totalAssoc += len(codes)
	}

	log.Info().
		Int("terms", len(terms)).
		Int("bibcode_associations", totalAssoc).
		Str("path", path).
		Msg("parsed ontology")

	return terms, termBibcodes, nil
}

// UniqueBibcodes returns the sorted union of bibcodes across all terms.
func (tb TermBibcodes) UniqueBibcodes() []string {
	seen := make(map[string]struct{})
	for _, codes := range tb {
		for _, code := range codes {
			seen[code] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Invert builds the reverse mapping bibcode -> sorted list of term ids.
func (tb TermBibcodes) Invert() map[string][]string {
	inv := make(map[string][]string)
	for termID, codes := range tb {
		for _, code := range codes {
			inv[code] = append(inv[code], termID)
		}
	}
	for code := range inv {
		sort.Strings(inv[code])
	}
	return inv
}
