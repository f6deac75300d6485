package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/goanimefr/internal/config"
	"github.com/amaumene/goanimefr/internal/database"
	apperrors "github.com/amaumene/goanimefr/internal/errors"
	"github.com/amaumene/goanimefr/internal/models"
	"github.com/amaumene/goanimefr/internal/season"
	"github.com/amaumene/goanimefr/internal/services"
	"github.com/amaumene/goanimefr/pkg/logger"
)

type stubSource struct {
	err   error
	pages map[int]*models.SeasonResponse
}

func (s *stubSource) GetSeason(_ season.Season, _ int, page int) (*models.SeasonResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	resp, ok := s.pages[page]
	if !ok {
		return nil, apperrors.NewUpstreamError(fmt.Sprintf("no page %d", page), nil)
	}
	return resp, nil
}

type stubEnricher struct{}

func (stubEnricher) EnrichTitles(titles []string, _ season.Season, _ int) map[string]models.StreamingResult {
	out := make(map[string]models.StreamingResult, len(titles))
	for _, title := range titles {
		out[title] = models.StreamingResult{
			Episodes:  12,
			Streaming: []models.StreamingLink{{Name: "Crunchyroll", URL: "https://cr.example/" + title, Language: "global"}},
		}
	}
	return out
}

func tvAnime(id int) models.Anime {
	return models.Anime{
		MalID:  id,
		Title:  fmt.Sprintf("Show %d", id),
		Type:   "TV",
		Season: "winter",
		Year:   2024,
		Status: models.StatusAiring,
	}
}

func listingPage(current, last, total int, data ...models.Anime) *models.SeasonResponse {
	return &models.SeasonResponse{
		Data: data,
		Pagination: models.Pagination{
			CurrentPage:     current,
			LastVisiblePage: last,
			HasNextPage:     current < last,
			Items:           models.PaginationItems{Count: len(data), PerPage: 25, Total: total},
		},
	}
}

func setupTestRouter(t *testing.T, source services.SeasonSource) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewBolt(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	container := &services.Container{
		Jikan:      source,
		Reconciler: stubEnricher{},
		DB:         db,
		Logger:     logger.New(),
	}

	cfg := &config.Config{}
	require.NoError(t, cfg.Validate())

	h := New(container, cfg)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, h
}

func TestSeasonEndpoint(t *testing.T) {
	src := &stubSource{pages: map[int]*models.SeasonResponse{1: listingPage(1, 1, 1, tvAnime(1))}}
	router, _ := setupTestRouter(t, src)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/anime/season?season=winter&year=2024", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SeasonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.Pagination.CurrentPage)
}

func TestSeasonEndpointRejectsInvalidSeason(t *testing.T) {
	router, _ := setupTestRouter(t, &stubSource{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/anime/season?season=autumn", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeasonEndpointMapsRateLimit(t *testing.T) {
	src := &stubSource{err: apperrors.NewRateLimitedError("", nil)}
	router, _ := setupTestRouter(t, src)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/anime/season?season=winter&year=2024", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestStreamingEndpointSingleTitle(t *testing.T) {
	router, _ := setupTestRouter(t, &stubSource{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/anime/streaming?title=Frieren", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var res models.StreamingResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 12, res.Episodes)
	require.Len(t, res.Streaming, 1)
	assert.Equal(t, "Crunchyroll", res.Streaming[0].Name)
}

func TestStreamingEndpointRequiresTitle(t *testing.T) {
	router, _ := setupTestRouter(t, &stubSource{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/anime/streaming", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamingEndpointBatch(t *testing.T) {
	router, _ := setupTestRouter(t, &stubSource{})

	body, _ := json.Marshal(map[string]interface{}{
		"titles": []string{"Frieren", "One Piece"},
		"season": "winter",
		"year":   2024,
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/anime/streaming", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var res map[string]models.StreamingResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res, 2)
}

type listResponse struct {
	Session    string            `json:"session"`
	Data       []models.Anime    `json:"data"`
	Pagination models.Pagination `json:"pagination"`
	Error      string            `json:"error"`
}

func TestListEndpointSessionFlow(t *testing.T) {
	src := &stubSource{pages: map[int]*models.SeasonResponse{
		1: listingPage(1, 2, 3, tvAnime(1), tvAnime(2)),
		2: listingPage(2, 2, 3, tvAnime(3)),
	}}
	router, _ := setupTestRouter(t, src)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/anime/list?season=winter&year=2024", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var first listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.NotEmpty(t, first.Session)
	assert.Len(t, first.Data, 2)
	assert.True(t, first.Pagination.HasNextPage)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/anime/list/more?session="+first.Session, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var more listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &more))
	assert.Len(t, more.Data, 3)
	assert.False(t, more.Pagination.HasNextPage)
}

func TestListMoreUnknownSession(t *testing.T) {
	router, _ := setupTestRouter(t, &stubSource{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/anime/list/more?session=nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookmarkLifecycle(t *testing.T) {
	router, _ := setupTestRouter(t, &stubSource{})

	body, _ := json.Marshal(tvAnime(42))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/bookmarks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/bookmarks", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mal_id":42`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/bookmarks/42", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/bookmarks", nil)
	router.ServeHTTP(w, req)
	assert.NotContains(t, w.Body.String(), `"mal_id":42`)
}

func TestImageProxyRejectsUnknownHost(t *testing.T) {
	router, _ := setupTestRouter(t, &stubSource{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/image-proxy?url=https://evil.example/image.jpg", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestImageProxyRequiresURL(t *testing.T) {
	router, _ := setupTestRouter(t, &stubSource{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/image-proxy", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
