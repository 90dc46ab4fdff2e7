package search

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/scixmuse/mentions/pkg/extract"
	"github.com/scixmuse/mentions/pkg/match"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	termColor    = color.New(color.FgGreen, color.Bold)
	dimColor     = color.New(color.Faint)
	hitColor     = color.New(color.FgYellow, color.Bold)
)

// Display prints the query results grouped by term name. limit bounds the
// number of mentions printed per term; limit <= 0 prints everything.
func Display(w io.Writer, query string, rows []extract.Row, limit int) {
	if len(rows) == 0 {
		fmt.Fprintf(w, "no results for %q\n", query)
		return
	}

	headingColor.Fprintf(w, "found %d mentions for %q\n\n", len(rows), query)

	byTerm := make(map[string][]extract.Row)
	for _, r := range rows {
		byTerm[r.TermName] = append(byTerm[r.TermName], r)
	}
	termNames := make([]string, 0, len(byTerm))
	for name := range byTerm {
		termNames = append(termNames, name)
	}
	sort.Strings(termNames)

	for _, name := range termNames {
		group := byTerm[name]
		literal := match.Literal(name)

		termColor.Fprintln(w, name)
		fmt.Fprintf(w, "  matching on %q, %d mentions, %d publications\n",
			literal, len(group), countBibcodes(group))
		fmt.Fprintf(w, "  locations: %s\n", locationCounts(group))

		shown := group
		if limit > 0 && len(shown) > limit {
			shown = shown[:limit]
		}
		for i, r := range shown {
			fmt.Fprintf(w, "\n  %d. %s (%s)\n", i+1, r.Bibcode, r.MatchLocation)
			if title := strings.TrimSpace(r.Title); title != "" {
				dimColor.Fprintf(w, "     %s\n", truncate(title, 100))
			}
			if ctx := strings.TrimSpace(r.Context); ctx != "" {
				fmt.Fprintf(w, "     %s\n", highlight(truncate(ctx, 400), literal))
			}
		}
		if limit > 0 && len(group) > limit {
			dimColor.Fprintf(w, "\n  ... %d more\n", len(group)-limit)
		}
		fmt.Fprintln(w)
	}
}

// DisplaySuggestions prints near-miss term names for a failed query.
func DisplaySuggestions(w io.Writer, query string, suggestions []string) {
	fmt.Fprintf(w, "no results for %q\n", query)
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(w, "did you mean:")
	for _, s := range suggestions {
		termColor.Fprintf(w, "  %s\n", s)
	}
}

func countBibcodes(rows []extract.Row) int {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.Bibcode] = struct{}{}
	}
	return len(seen)
}

func locationCounts(rows []extract.Row) string {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.MatchLocation]++
	}
	parts := make([]string, 0, len(counts))
	for _, loc := range []string{extract.LocationTitle, extract.LocationAbstract, extract.LocationBody} {
		if counts[loc] > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", loc, counts[loc]))
		}
	}
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// highlight wraps the first case-insensitive occurrence of literal in color.
func highlight(text, literal string) string {
	if literal == "" {
		return text
	}
	idx := strings.Index(strings.ToLower(text), strings.ToLower(literal))
	if idx < 0 {
		return text
	}
	end := idx + len(literal)
	return text[:idx] + hitColor.Sprint(text[idx:end]) + text[end:]
}
