package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/goanimefr/internal/season"
)

type streamingBatchRequest struct {
	Titles []string `json:"titles" binding:"required"`
	Season string   `json:"season"`
	Year   int      `json:"year"`
}

// handleStreamingTitle enriches a single title, defaulting the season
// context to the current season.
func (h *Handler) handleStreamingTitle(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	s, year := h.seasonContext(c.Query("season"), parseIntQuery(c, "year", 0))

	results := h.services.Reconciler.EnrichTitles([]string{title}, s, year)

	c.JSON(http.StatusOK, results[title])
}

// handleStreamingBatch enriches a batch of titles in one request.
func (h *Handler) handleStreamingBatch(c *gin.Context) {
	var req streamingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "titles are required"})
		return
	}

	s, year := h.seasonContext(req.Season, req.Year)

	h.services.Logger.Infof("[StreamingHandler] enriching %d titles for %s %d", len(req.Titles), s, year)

	c.JSON(http.StatusOK, h.services.Reconciler.EnrichTitles(req.Titles, s, year))
}

// seasonContext resolves an optional season/year pair, falling back to the
// current season.
func (h *Handler) seasonContext(rawSeason string, year int) (season.Season, int) {
	now := time.Now()
	cur, curYear := season.Current(now)

	s, err := season.Parse(rawSeason)
	if err != nil {
		s = cur
	}
	if year <= 0 {
		year = curYear
	}
	return s, year
}
