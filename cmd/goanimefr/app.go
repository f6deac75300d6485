package main

import (
	"net/http"

	"github.com/amaumene/goanimefr/internal/cache"
	"github.com/amaumene/goanimefr/internal/config"
	"github.com/amaumene/goanimefr/internal/constants"
	"github.com/amaumene/goanimefr/internal/database"
	"github.com/amaumene/goanimefr/internal/handlers"
	"github.com/amaumene/goanimefr/internal/services"
	"github.com/amaumene/goanimefr/pkg/logger"
	"github.com/amaumene/goanimefr/pkg/ratelimiter"
)

var (
	Logger           logger.Logger
	Config           *config.Config
	DB               database.Database
	memoryCache      *cache.LRUCache
	handler          *handlers.Handler
	serviceContainer *services.Container
)

func InitializeLogger() {
	Logger = logger.New()
}

func InitializeConfig() {
	var err error
	Config, err = config.Load()
	if err != nil {
		Logger.Fatalf("failed to load configuration: %v", err)
	}
}

func InitializeDatabase() {
	var err error

	DB, err = database.NewBolt(Config.DatabasePath)
	if err != nil {
		Logger.Fatalf("failed to initialize database: %v", err)
	}

	Logger.Infof("[App] bbolt database initialized successfully")
}

func InitializeServices() {
	memoryCache = cache.New(Config.CacheSize, constants.NearTermTTL)

	httpClient := &http.Client{Timeout: constants.UpstreamTimeout}

	jikanFetcher := services.NewFetcher(
		httpClient,
		ratelimiter.NewTokenBucket(constants.JikanRateBurst, constants.JikanRateLimit),
		Logger,
		uint(Config.MaxRetries),
		Config.RetryBaseDelay(),
	)
	anilistFetcher := services.NewFetcher(
		httpClient,
		ratelimiter.NewTokenBucket(constants.AniListRateBurst, constants.AniListRateLimit),
		Logger,
		uint(Config.MaxRetries),
		Config.RetryBaseDelay(),
	)

	jikanService := services.NewJikan(memoryCache, jikanFetcher, Logger)
	anilistService := services.NewAniList(anilistFetcher, Logger)
	reconciler := services.NewReconciler(
		anilistService,
		memoryCache,
		DB,
		Logger,
		Config.BatchSize,
		Config.BatchDelay(),
		Config.Language,
	)

	serviceContainer = &services.Container{
		Jikan:      jikanService,
		AniList:    anilistService,
		Reconciler: reconciler,
		Cache:      memoryCache,
		DB:         DB,
		Logger:     Logger,
	}

	handler = handlers.New(serviceContainer, Config)

	Logger.Infof("[App] services initialized successfully")
}
