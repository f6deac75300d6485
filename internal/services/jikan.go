package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/amaumene/goanimefr/internal/cache"
	"github.com/amaumene/goanimefr/internal/constants"
	apperrors "github.com/amaumene/goanimefr/internal/errors"
	"github.com/amaumene/goanimefr/internal/models"
	"github.com/amaumene/goanimefr/internal/season"
	"github.com/amaumene/goanimefr/pkg/logger"
)

// Jikan fetches seasonal anime listings. Successful pages are cached keyed
// by (season, year, page) with a TTL chosen by the temporal policy; error
// responses are passed through without touching the cache.
type Jikan struct {
	baseURL string
	cache   *cache.LRUCache
	fetcher *Fetcher
	logger  logger.Logger
	now     func() time.Time
}

// NewJikan creates a Jikan client backed by the given cache and fetcher.
func NewJikan(c *cache.LRUCache, fetcher *Fetcher, log logger.Logger) *Jikan {
	return &Jikan{
		baseURL: constants.JikanBaseURL,
		cache:   c,
		fetcher: fetcher,
		logger:  log,
		now:     time.Now,
	}
}

// SetBaseURL overrides the upstream endpoint, for tests.
func (j *Jikan) SetBaseURL(url string) {
	j.baseURL = url
}

// SetClock replaces the time source used by the TTL policy, for tests.
func (j *Jikan) SetClock(now func() time.Time) {
	j.now = now
}

func seasonCacheKey(s season.Season, year, page int) string {
	return fmt.Sprintf("season:%s:%d:%d", s, year, page)
}

// GetSeason returns one page of the seasonal listing for (s, year).
// The upcoming pseudo-season ignores year.
func (j *Jikan) GetSeason(s season.Season, year, page int) (*models.SeasonResponse, error) {
	if page < 1 {
		page = 1
	}

	key := seasonCacheKey(s, year, page)
	if data, found := j.cache.Get(key); found {
		j.logger.Debugf("[Jikan] cache hit for %s", key)
		return data.(*models.SeasonResponse), nil
	}

	var url string
	if s == season.Upcoming {
		url = fmt.Sprintf("%s/seasons/upcoming?page=%d", j.baseURL, page)
	} else {
		url = fmt.Sprintf("%s/seasons/%d/%s?page=%d", j.baseURL, year, s, page)
	}

	j.logger.Debugf("[Jikan] fetching %s %d page %d", s, year, page)

	data, err := j.fetcher.Get(url)
	if err != nil {
		return nil, err
	}

	var resp models.SeasonResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperrors.NewMalformedResponseError("failed to decode season listing", err)
	}

	j.cache.SetWithTTL(key, &resp, season.TTLFor(s, year, j.now()))

	return &resp, nil
}
