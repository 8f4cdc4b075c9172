package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sharpline/trend-engine/internal/api/handlers"
	"github.com/sharpline/trend-engine/internal/services"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(
	group *gin.RouterGroup,
	catalog *services.CatalogService,
	poller *services.SchedulePoller,
	analysisCache *services.AnalysisCache,
	cache handlers.PayloadCache,
	cacheTTL time.Duration,
	logger *logrus.Logger,
) {
	trendHandler := handlers.NewTrendHandler(catalog, analysisCache, cache, cacheTTL, logger)
	gameHandler := handlers.NewGameHandler(catalog, poller, cache, cacheTTL, logger)

	// Trend catalogue and reconstructed analytics
	group.GET("/trends", trendHandler.ListTrends)
	group.GET("/trends/:id", trendHandler.GetTrend)
	group.GET("/trends/:id/games", trendHandler.GetTrendGames)
	group.GET("/trends/:id/stats", trendHandler.GetTrendStats)

	// Catalogue-wide roll-up
	group.GET("/stats/rollup", trendHandler.GetSystemRollup)

	// Schedule and per-game trend matching
	group.GET("/games/today", gameHandler.GetTodaysGames)
	group.GET("/games/:id/trends", gameHandler.GetMatchedTrends)
}
