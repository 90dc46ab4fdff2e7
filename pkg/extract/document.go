// Package extract runs the parallel extraction stage: workers open their
// assigned corpus files once, seek to each document, and emit one result per
// individual term-match occurrence with a bounded context window.
package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexText normalizes the shapes a corpus text field takes: a string, a list
// of strings (joined with spaces, empty items dropped), null/absent (empty),
// or a scalar rendered to its string form.
type FlexText string

func (t *FlexText) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = FlexText(flattenText(v))
	return nil
}

func flattenText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			s := flattenText(item)
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Document is one corpus record, validated at the parse boundary. Missing
// fields resolve to empty strings rather than errors.
type Document struct {
	Bibcode  string   `json:"bibcode"`
	Title    FlexText `json:"title"`
	Abstract FlexText `json:"abstract"`
	Body     FlexText `json:"body"`
}

// ParseDocument decodes one NDJSON corpus line.
func ParseDocument(line []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(line, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}
