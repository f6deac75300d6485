package services

import (
	"encoding/json"

	"github.com/amaumene/goanimefr/internal/constants"
	apperrors "github.com/amaumene/goanimefr/internal/errors"
	"github.com/amaumene/goanimefr/internal/models"
	"github.com/amaumene/goanimefr/pkg/logger"
)

// mediaQuery asks AniList for its single best guess for a search string.
const mediaQuery = `
  query ($search: String) {
    Media(search: $search, type: ANIME) {
      id
      episodes
      synonyms
      title {
        romaji
        english
        native
      }
      externalLinks {
        site
        url
        language
        type
      }
      streamingEpisodes {
        title
        url
        site
      }
    }
  }
`

// AniList is a client for the AniList GraphQL API (unauthenticated).
type AniList struct {
	apiURL  string
	fetcher *Fetcher
	logger  logger.Logger
}

// NewAniList creates an AniList client backed by the given fetcher.
func NewAniList(fetcher *Fetcher, log logger.Logger) *AniList {
	return &AniList{
		apiURL:  constants.AniListAPIURL,
		fetcher: fetcher,
		logger:  log,
	}
}

// SetAPIURL overrides the upstream endpoint, for tests.
func (a *AniList) SetAPIURL(url string) {
	a.apiURL = url
}

// Search returns AniList's best-guess media record for the query, or nil
// when the response carries no media.
func (a *AniList) Search(query string) (*models.AniListMedia, error) {
	body, err := json.Marshal(models.GraphQLRequest{
		Query:     mediaQuery,
		Variables: map[string]interface{}{"search": query},
	})
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to encode search query", err)
	}

	data, err := a.fetcher.PostJSON(a.apiURL, body)
	if err != nil {
		return nil, err
	}

	var resp models.AniListResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperrors.NewMalformedResponseError("failed to decode search response", err)
	}

	if len(resp.Errors) > 0 {
		return nil, apperrors.NewUpstreamError(resp.Errors[0].Message, nil)
	}
	if resp.Data == nil || resp.Data.Media == nil {
		return nil, nil
	}

	return resp.Data.Media, nil
}
