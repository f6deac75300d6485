// Package handlers implements HTTP request handlers for the catalog API.
package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/goanimefr/internal/config"
	"github.com/amaumene/goanimefr/internal/constants"
	apperrors "github.com/amaumene/goanimefr/internal/errors"
	"github.com/amaumene/goanimefr/internal/pagination"
	"github.com/amaumene/goanimefr/internal/services"
)

// Handler handles HTTP requests for the catalog API.
type Handler struct {
	services *services.Container
	config   *config.Config

	mu       sync.Mutex
	sessions map[string]*pagination.Paginator
}

// New creates a new Handler with the provided services and configuration.
func New(services *services.Container, config *config.Config) *Handler {
	return &Handler{
		services: services,
		config:   config,
		sessions: make(map[string]*pagination.Paginator),
	}
}

// RegisterRoutes registers all HTTP routes for the catalog API.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// Home route
	r.GET("/", h.handleHome)

	api := r.Group("/api")

	// Seasonal listing and streaming enrichment
	api.GET("/anime/season", h.handleSeason)
	api.GET("/anime/streaming", h.handleStreamingTitle)
	api.POST("/anime/streaming", h.handleStreamingBatch)

	// Session-scoped paginated list
	api.GET("/anime/list", h.handleList)
	api.GET("/anime/list/more", h.handleListMore)

	// Thin collaborators
	api.GET("/image-proxy", h.handleImageProxy)
	api.GET("/bookmarks", h.handleBookmarks)
	api.POST("/bookmarks", h.handleAddBookmark)
	api.DELETE("/bookmarks/:id", h.handleDeleteBookmark)
}

func (h *Handler) handleHome(c *gin.Context) {
	c.String(http.StatusOK, "%s %s - %s", constants.AppName, constants.AppVersion, constants.AppDescription)
}

// errorStatus maps the fetch error taxonomy onto HTTP status codes.
func errorStatus(err error) int {
	var fe *apperrors.FetchError
	if !errors.As(err, &fe) {
		return http.StatusInternalServerError
	}
	switch fe.Type {
	case apperrors.ErrorTypeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrorTypeInvalidSeason:
		return http.StatusBadRequest
	case apperrors.ErrorTypeNetworkFailure:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
