package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/goanimefr/internal/middleware"
)

func main() {
	// Initialize logger
	InitializeLogger()

	// Load configuration
	InitializeConfig()

	// Initialize database
	InitializeDatabase()

	// Initialize services
	InitializeServices()

	// Create Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(Logger))
	r.Use(middleware.Gzip())
	r.Use(middleware.CORS())

	// Start cache cleanup routine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	memoryCache.StartCleanup(ctx)

	// Routes
	handler.RegisterRoutes(r)

	// Start HTTP server
	Logger.Infof("[App] starting HTTP server on port %s", Config.Port)
	log.Fatal(http.ListenAndServe(":"+Config.Port, r))
}
