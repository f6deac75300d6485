package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/amaumene/goanimefr/internal/pagination"
	"github.com/amaumene/goanimefr/internal/season"
)

// handleList starts (or restarts) a session-scoped paginated list for a
// season/year selection and returns the first page of accumulated records.
func (h *Handler) handleList(c *gin.Context) {
	s, err := season.Parse(c.Query("season"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	year := parseIntQuery(c, "year", time.Now().Year())

	sessionID := c.Query("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	pager := h.sessionPager(sessionID)

	if err := pager.LoadFirstPage(s, year); err != nil {
		h.services.Logger.Errorf("[ListHandler] first page failed for %s %d: %v", s, year, err)
		c.JSON(errorStatus(err), gin.H{"error": err.Error(), "session": sessionID})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":    sessionID,
		"data":       pager.List(),
		"pagination": pager.Cursor(),
	})
}

// handleListMore appends the next page to an existing session list. On
// failure the accumulated records are returned alongside the error so
// clients keep showing prior pages.
func (h *Handler) handleListMore(c *gin.Context) {
	sessionID := c.Query("session")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session is required"})
		return
	}

	h.mu.Lock()
	pager, ok := h.sessions[sessionID]
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	if err := pager.LoadMore(); err != nil {
		h.services.Logger.Errorf("[ListHandler] load more failed: %v", err)
		c.JSON(errorStatus(err), gin.H{
			"error":      err.Error(),
			"session":    sessionID,
			"data":       pager.List(),
			"pagination": pager.Cursor(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":    sessionID,
		"data":       pager.List(),
		"pagination": pager.Cursor(),
	})
}

// sessionPager returns the paginator for a session, creating it when absent.
func (h *Handler) sessionPager(sessionID string) *pagination.Paginator {
	h.mu.Lock()
	defer h.mu.Unlock()

	if pager, ok := h.sessions[sessionID]; ok {
		return pager
	}
	pager := pagination.New(h.services.Jikan, h.services.Reconciler, h.services.Logger)
	h.sessions[sessionID] = pager
	return pager
}
