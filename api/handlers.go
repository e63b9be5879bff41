package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/legal-bench/internal/bench"
	"github.com/stellarlinkco/legal-bench/internal/dataset"
)

type askRequest struct {
	Question    string `json:"question" binding:"required"`
	GroundTruth string `json:"ground_truth,omitempty"`
	Citation    string `json:"citation,omitempty"`
}

type askResponse struct {
	Question  string            `json:"question"`
	Responses map[string]string `json:"responses"`
	Scores    any               `json:"scores,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAsk runs one question through every configured model and, when a
// reference answer is supplied, scores the outputs. Calls may take a while
// under strict provider rate limits.
func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(c, http.StatusBadRequest, errors.New("question is required"))
		return
	}

	row, err := s.runner.RunOne(c.Request.Context(), dataset.Question{
		Text:        req.Question,
		GroundTruth: req.GroundTruth,
		Citation:    req.Citation,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	out := askResponse{
		Question:  row.Question,
		Responses: row.Responses,
	}

	// Content metrics need a reference; without one only the intrinsic
	// scores (safety, reasoning) would be meaningful, so skip scoring.
	if strings.TrimSpace(req.GroundTruth) != "" {
		summaries, err := s.aggregator.Aggregate(c.Request.Context(), []bench.Row{row})
		if err != nil {
			respondError(c, http.StatusInternalServerError, err)
			return
		}
		out.Scores = summaries
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("leaderboard store not configured"))
		return
	}

	limit := 20
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}

	entries, err := s.store.Latest(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleModelHistory(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("leaderboard store not configured"))
		return
	}

	model := strings.TrimSpace(c.Param("model"))
	if model == "" {
		respondError(c, http.StatusBadRequest, errors.New("model is required"))
		return
	}

	entries, err := s.store.ModelHistory(c.Request.Context(), model)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
