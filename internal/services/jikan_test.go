package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/goanimefr/internal/cache"
	"github.com/amaumene/goanimefr/internal/models"
	"github.com/amaumene/goanimefr/internal/season"
	"github.com/amaumene/goanimefr/pkg/logger"
)

func listingBody(titles []string, page, lastPage, total int) string {
	resp := models.SeasonResponse{
		Pagination: models.Pagination{
			CurrentPage:     page,
			LastVisiblePage: lastPage,
			HasNextPage:     page < lastPage,
			Items:           models.PaginationItems{Count: len(titles), PerPage: 25, Total: total},
		},
	}
	for i, title := range titles {
		resp.Data = append(resp.Data, models.Anime{MalID: 1000 + i, Title: title, Type: "TV"})
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func newTestJikan(t *testing.T, handler http.HandlerFunc) (*Jikan, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	j := NewJikan(cache.New(100, time.Hour), newTestFetcher(1), logger.New())
	j.SetBaseURL(srv.URL)
	return j, srv
}

func TestGetSeasonFetchesAndCaches(t *testing.T) {
	var hits int32
	j, _ := newTestJikan(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/seasons/2024/winter", r.URL.Path)
		fmt.Fprint(w, listingBody([]string{"Frieren"}, 1, 1, 1))
	})

	first, err := j.GetSeason(season.Winter, 2024, 1)
	require.NoError(t, err)
	require.Len(t, first.Data, 1)

	second, err := j.GetSeason(season.Winter, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits, "second call must come from cache")
	assert.Same(t, first, second, "warm cache returns the identical payload")
}

func TestGetSeasonCacheKeyIncludesPage(t *testing.T) {
	var hits int32
	j, _ := newTestJikan(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		page := r.URL.Query().Get("page")
		fmt.Fprint(w, listingBody([]string{"Title " + page}, 1, 2, 2))
	})

	_, err := j.GetSeason(season.Winter, 2024, 1)
	require.NoError(t, err)
	_, err = j.GetSeason(season.Winter, 2024, 2)
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits)
}

func TestGetSeasonUpcomingEndpoint(t *testing.T) {
	j, _ := newTestJikan(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons/upcoming", r.URL.Path)
		fmt.Fprint(w, listingBody([]string{"Future Show"}, 1, 1, 1))
	})

	resp, err := j.GetSeason(season.Upcoming, 0, 1)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
}

func TestGetSeasonErrorNotCached(t *testing.T) {
	var hits int32
	j, _ := newTestJikan(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) <= 2 { // initial attempt + one retry
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, listingBody([]string{"Frieren"}, 1, 1, 1))
	})

	_, err := j.GetSeason(season.Winter, 2024, 1)
	require.Error(t, err, "retries exhausted")

	resp, err := j.GetSeason(season.Winter, 2024, 1)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 1, "failed fetch must not poison the cache")
}

func TestGetSeasonPastSeasonCachedForever(t *testing.T) {
	j, _ := newTestJikan(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingBody([]string{"Old Show"}, 1, 1, 1))
	})

	clock := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	j.SetClock(func() time.Time { return clock })

	memCache := cache.New(100, time.Hour)
	cacheNow := clock
	memCache.SetClock(func() time.Time { return cacheNow })
	j.cache = memCache

	_, err := j.GetSeason(season.Winter, 2020, 1)
	require.NoError(t, err)

	cacheNow = cacheNow.Add(365 * 24 * time.Hour)

	_, found := memCache.Get(seasonCacheKey(season.Winter, 2020, 1))
	assert.True(t, found, "past season entries never expire")
}

func TestGetSeasonMalformedBody(t *testing.T) {
	j, _ := newTestJikan(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": "not a list"`)
	})

	_, err := j.GetSeason(season.Winter, 2024, 1)
	assert.Error(t, err)
}
