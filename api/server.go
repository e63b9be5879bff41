// Package api exposes the orchestrator and scorer to the interactive
// dashboard: one endpoint to run an ad-hoc question across every model, and
// read endpoints over the leaderboard history.
package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/legal-bench/internal/bench"
	"github.com/stellarlinkco/legal-bench/internal/leaderboard"
)

type Server struct {
	router     *gin.Engine
	runner     *bench.Runner
	aggregator *leaderboard.Aggregator
	store      *leaderboard.Store
}

func NewServer(runner *bench.Runner, aggregator *leaderboard.Aggregator, store *leaderboard.Store) (*Server, error) {
	if runner == nil {
		return nil, errors.New("api: nil runner")
	}
	if aggregator == nil {
		return nil, errors.New("api: nil aggregator")
	}

	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		router:     r,
		runner:     runner,
		aggregator: aggregator,
		store:      store,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/ask", s.handleAsk)
	api.GET("/leaderboard", s.handleLeaderboard)
	api.GET("/history/:model", s.handleModelHistory)
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() *gin.Engine {
	if s == nil {
		return nil
	}
	return s.router
}
