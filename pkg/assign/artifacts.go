package assign

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scixmuse/mentions/pkg/ontology"
)

// Filenames of the intermediate preprocessing artifacts. They are an external
// contract: the extraction phase (or a rerun with --skip-preprocessing)
// consumes them as-is.
const (
	TermsFile        = "terms.json"
	TermBibcodesFile = "term_bibcodes.json"
	AssignmentsFile  = "assignments.json"
)

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Save persists the preprocessing results into dir.
func Save(dir string, terms ontology.TermTable, termBibcodes ontology.TermBibcodes, assignments FileAssignments) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := writeJSON(filepath.Join(dir, TermsFile), terms); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, TermBibcodesFile), termBibcodes); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, AssignmentsFile), assignments)
}

// LoadTerms reads the term table artifact from dir.
func LoadTerms(dir string) (ontology.TermTable, error) {
	var terms ontology.TermTable
	if err := readJSON(filepath.Join(dir, TermsFile), &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// LoadTermBibcodes reads the term->bibcodes artifact from dir.
func LoadTermBibcodes(dir string) (ontology.TermBibcodes, error) {
	var tb ontology.TermBibcodes
	if err := readJSON(filepath.Join(dir, TermBibcodesFile), &tb); err != nil {
		return nil, err
	}
	return tb, nil
}

// LoadAssignments reads the per-file assignment lists from dir.
func LoadAssignments(dir string) (FileAssignments, error) {
	var fa FileAssignments
	if err := readJSON(filepath.Join(dir, AssignmentsFile), &fa); err != nil {
		return nil, err
	}
	return fa, nil
}
