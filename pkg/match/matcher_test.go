package match

import (
	"testing"

	"github.com/scixmuse/mentions/pkg/ontology"
)

func testTerms() ontology.TermTable {
	return ontology.TermTable{
		"sushi": {ID: "sushi", Name: "SUSHI: Software for Understanding Scientific Hierarchies"},
		"isis":  {ID: "isis", Name: "ISIS"},
		"isis2": {ID: "isis2", Name: "ISIS2: successor package"},
		"blank": {ID: "blank", Name: "   : description only"},
		"empty": {ID: "empty", Name: ""},
	}
}

func TestLiteral(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SUSHI: Software for Understanding Scientific Hierarchies", "SUSHI"},
		{"ISIS", "ISIS"},
		{"  Astropy : Community library", "Astropy"},
		{": all description", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Literal(tc.in); got != tc.want {
			t.Errorf("Literal(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCompileSkipsEmptyLiterals(t *testing.T) {
	ps := Compile(testTerms())
	if ps.Has("blank") {
		t.Error("term with empty derived literal should not compile")
	}
	if ps.Has("empty") {
		t.Error("term with empty name should not compile")
	}
	if !ps.Has("sushi") || ps.LiteralFor("sushi") != "SUSHI" {
		t.Errorf("sushi literal = %q, want SUSHI", ps.LiteralFor("sushi"))
	}
	if ps.Len() != 3 {
		t.Errorf("compiled %d patterns, want 3", ps.Len())
	}
}

func TestFindCaseInsensitiveWholeWord(t *testing.T) {
	ps := Compile(testTerms())
	text := "We used sushi and SUSHI; sushimi is unrelated, as is xsushi."

	spans := ps.Find(text, []string{"sushi"})["sushi"]
	if len(spans) != 2 {
		t.Fatalf("got %d matches, want 2: %v", len(spans), spans)
	}
	// Left-to-right order with correct spans.
	if text[spans[0].Start:spans[0].End] != "sushi" {
		t.Errorf("first match = %q", text[spans[0].Start:spans[0].End])
	}
	if text[spans[1].Start:spans[1].End] != "SUSHI" {
		t.Errorf("second match = %q", text[spans[1].Start:spans[1].End])
	}
	if spans[0].Start >= spans[1].Start {
		t.Error("matches out of order")
	}
}

func TestFindOnlyEvaluatesRequestedSubset(t *testing.T) {
	ps := Compile(testTerms())
	text := "ISIS and SUSHI appear here."

	found := ps.Find(text, []string{"isis"})
	if _, ok := found["sushi"]; ok {
		t.Error("found sushi although it was not requested")
	}
	if len(found["isis"]) != 1 {
		t.Errorf("isis matches = %d, want 1", len(found["isis"]))
	}
}

func TestOverlappingTermLiteralsMatchIndependently(t *testing.T) {
	ps := Compile(testTerms())
	text := "ISIS2 builds on ISIS."

	found := ps.Find(text, []string{"isis", "isis2"})
	// Word boundaries keep ISIS2 from matching the bare ISIS pattern.
	if len(found["isis"]) != 1 {
		t.Errorf("isis matches = %d, want 1", len(found["isis"]))
	}
	if len(found["isis2"]) != 1 {
		t.Errorf("isis2 matches = %d, want 1", len(found["isis2"]))
	}
}

func TestFindEmptyText(t *testing.T) {
	ps := Compile(testTerms())
	if found := ps.Find("", []string{"sushi"}); len(found) != 0 {
		t.Errorf("expected no matches on empty text, got %v", found)
	}
}
