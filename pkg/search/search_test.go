package search

import (
	"bytes"
	"strings"
	"testing"

	"github.com/scixmuse/mentions/pkg/extract"
)

func testStore() *Store {
	return NewStore([]extract.Row{
		{TermID: "astropy", TermName: "Astropy: Community Python library", Bibcode: "B1",
			Title: "Photometry with Astropy", Context: "we reduce data with Astropy tools",
			MatchLocation: extract.LocationBody},
		{TermID: "astropy", TermName: "Astropy: Community Python library", Bibcode: "B2",
			Context: "Astropy again", MatchLocation: extract.LocationTitle},
		{TermID: "sushi", TermName: "SUSHI", Bibcode: "B3",
			Context: "the SUSHI pipeline", MatchLocation: extract.LocationAbstract},
	})
}

func TestQueryContains(t *testing.T) {
	s := testStore()

	got := s.Query("astropy")
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got := s.Query("PYTHON"); len(got) != 2 {
		t.Errorf("case-insensitive query got %d rows, want 2", len(got))
	}
	if got := s.Query("nope"); len(got) != 0 {
		t.Errorf("miss returned %d rows", len(got))
	}
	if got := s.Query("   "); got != nil {
		t.Errorf("blank query returned %d rows", len(got))
	}
}

func TestQueryLiteralFallback(t *testing.T) {
	s := NewStore([]extract.Row{
		{TermID: "t", TermName: "IRAF: legacy reduction suite", Bibcode: "B1"},
	})
	if got := s.Query("iraf: legacy reduction suite extended"); len(got) != 0 {
		t.Fatalf("expected no rows for over-long query, got %d", len(got))
	}
	if got := s.Query("iraf"); len(got) != 1 {
		t.Errorf("literal query got %d rows, want 1", len(got))
	}
}

func TestTermNames(t *testing.T) {
	names := testStore().TermNames()
	want := []string{"Astropy: Community Python library", "SUSHI"}
	if len(names) != len(want) {
		t.Fatalf("got %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestSuggestTypo(t *testing.T) {
	names := []string{
		"Astropy: Community Python library",
		"SUSHI",
		"Completely Unrelated Thing",
	}
	got := Suggest("astropi", names)
	if len(got) == 0 || got[0] != "Astropy: Community Python library" {
		t.Errorf("suggestions = %v", got)
	}
	for _, s := range got {
		if s == "Completely Unrelated Thing" {
			t.Errorf("unrelated name suggested: %v", got)
		}
	}
}

func TestSuggestEmpty(t *testing.T) {
	if got := Suggest("", []string{"a"}); got != nil {
		t.Errorf("got %v", got)
	}
	if got := Suggest("q", nil); got != nil {
		t.Errorf("got %v", got)
	}
}

func TestSimilarity(t *testing.T) {
	if s := similarity("sushi", "SUSHI"); s != 1.0 {
		t.Errorf("exact = %v", s)
	}
	if s := similarity("astro", "Astropy: Community Python library"); s != 0.95 {
		t.Errorf("substring = %v", s)
	}
	if s := similarity("astropi", "Astropy: Community Python library"); s <= 0.5 {
		t.Errorf("token typo = %v", s)
	}
	if s := similarity("zzzz", "SUSHI"); s > 0.5 {
		t.Errorf("unrelated = %v", s)
	}
}

func TestDisplayGroupsByTerm(t *testing.T) {
	var buf bytes.Buffer
	Display(&buf, "astropy", testStore().Query("astropy"), 10)
	out := buf.String()

	if !strings.Contains(out, "found 2 mentions") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "Astropy: Community Python library") {
		t.Errorf("missing term heading: %q", out)
	}
	if !strings.Contains(out, "2 publications") {
		t.Errorf("missing publication count: %q", out)
	}
	if !strings.Contains(out, "B1") || !strings.Contains(out, "B2") {
		t.Errorf("missing bibcodes: %q", out)
	}
}

func TestDisplayLimit(t *testing.T) {
	var buf bytes.Buffer
	rows := testStore().Query("astropy")
	Display(&buf, "astropy", rows, 1)
	if !strings.Contains(buf.String(), "... 1 more") {
		t.Errorf("missing truncation note: %q", buf.String())
	}
}

func TestDisplayNoResults(t *testing.T) {
	var buf bytes.Buffer
	Display(&buf, "ghost", nil, 10)
	if !strings.Contains(buf.String(), `no results for "ghost"`) {
		t.Errorf("got %q", buf.String())
	}
}

func TestDisplaySuggestions(t *testing.T) {
	var buf bytes.Buffer
	DisplaySuggestions(&buf, "astropi", []string{"Astropy: Community Python library"})
	out := buf.String()
	if !strings.Contains(out, "did you mean") || !strings.Contains(out, "Astropy") {
		t.Errorf("got %q", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("a long string", 6); got != "a long..." {
		t.Errorf("got %q", got)
	}
}
