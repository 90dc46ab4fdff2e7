// Package server exposes a read-only HTTP interface over a finished result
// artifact. External dashboards and labeling tools consume this boundary;
// nothing here mutates pipeline state.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/scixmuse/mentions/pkg/extract"
	"github.com/scixmuse/mentions/pkg/search"
)

const (
	queryCacheSize = 256
	queryCacheTTL  = 5 * time.Minute
)

// Server holds the state for the results API.
type Server struct {
	store  *search.Store
	cache  *expirable.LRU[string, []extract.Row]
	router *gin.Engine
}

// NewServer creates a Server over a loaded result store.
func NewServer(store *search.Store) *Server {
	r := gin.Default()
	s := &Server{
		store:  store,
		cache:  expirable.NewLRU[string, []extract.Row](queryCacheSize, nil, queryCacheTTL),
		router: r,
	}
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the gin engine (used by tests).
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/v1/summary", s.handleSummary)
	s.router.GET("/v1/terms", s.handleTerms)
	s.router.GET("/v1/mentions", s.handleMentions)
}
