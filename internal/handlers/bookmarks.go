package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/goanimefr/internal/database"
	"github.com/amaumene/goanimefr/internal/models"
)

// handleBookmarks lists all saved bookmarks.
func (h *Handler) handleBookmarks(c *gin.Context) {
	bookmarks, err := h.services.DB.GetBookmarks()
	if err != nil {
		h.services.Logger.Errorf("[BookmarkHandler] failed to load bookmarks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bookmarks"})
		return
	}
	if bookmarks == nil {
		bookmarks = []database.Bookmark{}
	}
	c.JSON(http.StatusOK, gin.H{"data": bookmarks})
}

// handleAddBookmark saves the posted title record.
func (h *Handler) handleAddBookmark(c *gin.Context) {
	var anime models.Anime
	if err := c.ShouldBindJSON(&anime); err != nil || anime.MalID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a title record with mal_id is required"})
		return
	}

	bookmark := &database.Bookmark{Anime: anime, AddedAt: time.Now()}
	if err := h.services.DB.StoreBookmark(bookmark); err != nil {
		h.services.Logger.Errorf("[BookmarkHandler] failed to store bookmark %d: %v", anime.MalID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store bookmark"})
		return
	}

	c.JSON(http.StatusCreated, bookmark)
}

// handleDeleteBookmark removes a bookmark by MAL id.
func (h *Handler) handleDeleteBookmark(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.services.DB.DeleteBookmark(id); err != nil {
		h.services.Logger.Errorf("[BookmarkHandler] failed to delete bookmark %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete bookmark"})
		return
	}

	c.Status(http.StatusNoContent)
}
