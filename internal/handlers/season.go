package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/goanimefr/internal/season"
)

// handleSeason serves one page of a seasonal listing. season is required;
// year defaults to the current year and page to 1.
func (h *Handler) handleSeason(c *gin.Context) {
	s, err := season.Parse(c.Query("season"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	year := parseIntQuery(c, "year", time.Now().Year())
	page := parseIntQuery(c, "page", 1)

	h.services.Logger.Infof("[SeasonHandler] processing listing request - season: %s, year: %d, page: %d", s, year, page)

	resp, err := h.services.Jikan.GetSeason(s, year, page)
	if err != nil {
		h.services.Logger.Errorf("[SeasonHandler] failed to fetch listing: %v", err)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
