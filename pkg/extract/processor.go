package extract

import (
	"github.com/scixmuse/mentions/pkg/match"
	"github.com/scixmuse/mentions/pkg/ontology"
)

// Match locations.
const (
	LocationTitle    = "title"
	LocationAbstract = "abstract"
	LocationBody     = "body"
)

// Result is the atomic output unit: one record per individual match
// occurrence, never per document. MatchCount is always 1 in this layout; the
// column survives for downstream consumers that sum it.
type Result struct {
	TermID        string
	TermName      string
	Bibcode       string
	Title         string
	Abstract      string
	Context       string
	MatchCount    int64
	InTitle       bool
	InAbstract    bool
	InBody        bool
	MatchLocation string
}

// Processor evaluates a document's relevant terms against its three text
// fields. It holds only read-only state and is safe to share across workers.
type Processor struct {
	terms       ontology.TermTable
	patterns    *match.PatternSet
	windowWords int
}

// NewProcessor builds a processor over a compiled pattern set.
func NewProcessor(terms ontology.TermTable, patterns *match.PatternSet, windowWords int) *Processor {
	if windowWords <= 0 {
		windowWords = match.DefaultWindowWords
	}
	return &Processor{terms: terms, patterns: patterns, windowWords: windowWords}
}

// Process emits one Result per match occurrence across title, abstract and
// body, in that field order, left to right within a field. The cross-field
// presence flags report whether the term matched anywhere in each field,
// independent of which field a particular record came from. A document with
// zero matches yields zero results.
func (p *Processor) Process(doc *Document, termIDs []string) []Result {
	title := string(doc.Title)
	abstract := string(doc.Abstract)
	body := string(doc.Body)

	titleMatches := p.patterns.Find(title, termIDs)
	abstractMatches := p.patterns.Find(abstract, termIDs)
	bodyMatches := p.patterns.Find(body, termIDs)

	var results []Result
	for _, termID := range termIDs {
		term, ok := p.terms[termID]
		if !ok {
			continue
		}
		termName := term.Name
		if termName == "" {
			termName = term.Title
		}

		inTitle := len(titleMatches[termID]) > 0
		inAbstract := len(abstractMatches[termID]) > 0
		inBody := len(bodyMatches[termID]) > 0
		if !inTitle && !inAbstract && !inBody {
			continue
		}

		emit := func(location, fieldText string, spans []match.Span) {
			for _, span := range spans {
				results = append(results, Result{
					TermID:        termID,
					TermName:      termName,
					Bibcode:       doc.Bibcode,
					Title:         title,
					Abstract:      abstract,
					Context:       match.Window(fieldText, span.Start, span.End, p.windowWords),
					MatchCount:    1,
					InTitle:       inTitle,
					InAbstract:    inAbstract,
					InBody:        inBody,
					MatchLocation: location,
				})
			}
		}

		emit(LocationTitle, title, titleMatches[termID])
		emit(LocationAbstract, abstract, abstractMatches[termID])
		emit(LocationBody, body, bodyMatches[termID])
	}
	return results
}
