package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scixmuse/mentions/pkg/common/errors"
	"github.com/scixmuse/mentions/pkg/export"
	"github.com/scixmuse/mentions/pkg/extract"
	"github.com/scixmuse/mentions/pkg/search"
)

const defaultMentionLimit = 100

func handleError(c *gin.Context, err error) {
	appErr := errors.MapError(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}

// healthCheck reports liveness.
func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// handleSummary returns dataset-level statistics.
func (s *Server) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, export.Summarize(s.store.Rows()))
}

// handleTerms returns the distinct term names with mention counts.
func (s *Server) handleTerms(c *gin.Context) {
	counts := make(map[string]int)
	for _, r := range s.store.Rows() {
		counts[r.TermName]++
	}
	out := make([]gin.H, 0, len(counts))
	for _, name := range s.store.TermNames() {
		out = append(out, gin.H{"term_name": name, "mentions": counts[name]})
	}
	c.JSON(http.StatusOK, out)
}

// handleMentions filters mentions by term, bibcode and location. Term
// queries go through the fuzzy-fallback search path and are cached.
func (s *Server) handleMentions(c *gin.Context) {
	term := c.Query("term")
	bibcode := c.Query("bibcode")
	location := c.Query("location")

	limit := defaultMentionLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid limit", err))
			return
		}
		limit = n
	}

	rows := s.queryTerm(term)
	var filtered []extract.Row
	for _, r := range rows {
		if bibcode != "" && r.Bibcode != bibcode {
			continue
		}
		if location != "" && r.MatchLocation != location {
			continue
		}
		filtered = append(filtered, r)
	}

	total := len(filtered)
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	if filtered == nil {
		filtered = []extract.Row{}
	}

	resp := gin.H{"total": total, "mentions": rowsToJSON(filtered)}
	if total == 0 && term != "" {
		resp["suggestions"] = search.Suggest(term, s.store.TermNames())
	}
	c.JSON(http.StatusOK, resp)
}

// queryTerm resolves the term filter through the TTL cache. An empty term
// means the whole dataset.
func (s *Server) queryTerm(term string) []extract.Row {
	if term == "" {
		return s.store.Rows()
	}
	key := fmt.Sprintf("term:%s", term)
	if rows, ok := s.cache.Get(key); ok {
		return rows
	}
	rows := s.store.Query(term)
	s.cache.Add(key, rows)
	return rows
}

func rowsToJSON(rows []extract.Row) []gin.H {
	out := make([]gin.H, len(rows))
	for i, r := range rows {
		out[i] = gin.H{
			"term_id":        r.TermID,
			"term_name":      r.TermName,
			"bibcode":        r.Bibcode,
			"title":          r.Title,
			"abstract":       r.Abstract,
			"context":        r.Context,
			"match_count":    r.MatchCount,
			"in_title":       r.InTitle,
			"in_abstract":    r.InAbstract,
			"match_location": r.MatchLocation,
		}
	}
	return out
}
