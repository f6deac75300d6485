package services

import (
	"github.com/amaumene/goanimefr/internal/cache"
	"github.com/amaumene/goanimefr/internal/database"
	"github.com/amaumene/goanimefr/internal/models"
	"github.com/amaumene/goanimefr/internal/season"
	"github.com/amaumene/goanimefr/pkg/logger"
)

// Container holds all application services for dependency injection.
type Container struct {
	Jikan      SeasonSource
	AniList    *AniList
	Reconciler Enricher
	Cache      *cache.LRUCache
	DB         database.Database
	Logger     logger.Logger
}

// SeasonSource defines the interface for seasonal listing fetches.
type SeasonSource interface {
	GetSeason(s season.Season, year, page int) (*models.SeasonResponse, error)
}

// Enricher defines the interface for streaming reconciliation.
type Enricher interface {
	EnrichTitles(titles []string, s season.Season, year int) map[string]models.StreamingResult
}
