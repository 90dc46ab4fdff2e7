// Package match compiles one pattern per software term and evaluates
// requested subsets of those patterns against document text. Patterns are
// compiled once per run; per-document calls only touch the handful of terms
// the caller already knows are relevant, which is what keeps the extraction
// engine fast against thousands of compiled terms.
package match

import (
	"regexp"
	"strings"

	"github.com/scixmuse/mentions/pkg/ontology"
)

// Span is a half-open [Start, End) byte range of one match in the input text.
type Span struct {
	Start int
	End   int
}

// PatternSet holds the compiled per-term patterns. Read-only after Compile,
// safe for concurrent use by workers.
type PatternSet struct {
	patterns map[string]*regexp.Regexp
	literals map[string]string
}

// Literal derives the matchable literal from a term's display name: the text
// before the first colon, trimmed. Ontology titles follow the convention
// "ShortName: long description".
func Literal(name string) string {
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}

// Compile builds a case-insensitive, word-boundary pattern for every term
// whose derived literal is non-empty.
func Compile(terms ontology.TermTable) *PatternSet {
	ps := &PatternSet{
		patterns: make(map[string]*regexp.Regexp, len(terms)),
		literals: make(map[string]string, len(terms)),
	}
	for id, term := range terms {
		name := term.Name
		if name == "" {
			name = term.Title
		}
		lit := Literal(name)
		if lit == "" {
			continue
		}
		ps.patterns[id] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(lit) + `\b`)
		ps.literals[id] = lit
	}
	return ps
}

// Len reports how many terms compiled to a usable pattern.
func (ps *PatternSet) Len() int { return len(ps.patterns) }

// Has reports whether the term compiled to a pattern.
func (ps *PatternSet) Has(termID string) bool {
	_, ok := ps.patterns[termID]
	return ok
}

// LiteralFor returns the literal a term matches on, or "".
func (ps *PatternSet) LiteralFor(termID string) string { return ps.literals[termID] }

// Find evaluates only the supplied term ids against text and returns every
// non-overlapping match per term, left to right. Terms without a compiled
// pattern are skipped.
func (ps *PatternSet) Find(text string, termIDs []string) map[string][]Span {
	found := make(map[string][]Span)
	if text == "" {
		return found
	}
	for _, id := range termIDs {
		re, ok := ps.patterns[id]
		if !ok {
			continue
		}
		locs := re.FindAllStringIndex(text, -1)
		if locs == nil {
			continue
		}
		spans := make([]Span, len(locs))
		for i, loc := range locs {
			spans[i] = Span{Start: loc[0], End: loc[1]}
		}
		found[id] = spans
	}
	return found
}
