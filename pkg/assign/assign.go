// Package assign turns resolved bibcode locations into per-file work
// assignments: for every corpus file, the ordered list of documents to visit
// and the subset of terms each document must be checked against.
package assign

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/scixmuse/mentions/pkg/bibindex"
	"github.com/scixmuse/mentions/pkg/ontology"
)

// WorkAssignment is one document's location plus the terms to check there.
type WorkAssignment struct {
	Bibcode    string   `json:"bibcode"`
	ByteOffset int64    `json:"byte_offset"`
	LineNumber int      `json:"line_number"`
	Year       int      `json:"year"`
	Terms      []string `json:"terms"`
}

// FileAssignments maps a corpus filename to its byte-offset-ordered
// assignment list.
type FileAssignments map[string][]WorkAssignment

// Build inverts the term->bibcodes mapping and groups the resolved locations
// by filename, sorted by byte offset for sequential-ish disk access. A code
// that resolved but is owned by no term yields an empty terms list; the
// engine skips those downstream.
func Build(resolved []bibindex.Location, termBibcodes ontology.TermBibcodes) FileAssignments {
	codeToTerms := termBibcodes.Invert()

	assignments := make(FileAssignments)
	for _, loc := range resolved {
		assignments[loc.Filename] = append(assignments[loc.Filename], WorkAssignment{
			Bibcode:    loc.Bibcode,
			ByteOffset: loc.ByteOffset,
			LineNumber: loc.LineNumber,
			Year:       loc.Year,
			Terms:      codeToTerms[loc.Bibcode],
		})
	}

	total := 0
	for filename := range assignments {
		list := assignments[filename]
		sort.Slice(list, func(i, j int) bool { return list[i].ByteOffset < list[j].ByteOffset })
		total += len(list)
	}

	log.Info().
		Int("files", len(assignments)).
		Int("assignments", total).
		Msg("work assignments built")

	return assignments
}

// Total counts assignments across all files.
func (fa FileAssignments) Total() int {
	n := 0
	for _, list := range fa {
		n += len(list)
	}
	return n
}
