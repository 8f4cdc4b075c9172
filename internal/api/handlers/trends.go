package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sharpline/trend-engine/internal/engine"
	"github.com/sharpline/trend-engine/internal/models"
	"github.com/sharpline/trend-engine/internal/services"
	"github.com/sharpline/trend-engine/pkg/utils"
)

// defaultGameCount is how many reconstructed games a detail page shows when
// the caller doesn't ask for a specific count.
const defaultGameCount = 50

// PayloadCache is the shared second-level cache consulted when the in-process
// analysis cache misses. *services.CacheService satisfies it; handlers
// tolerate a nil cache.
type PayloadCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

type TrendHandler struct {
	catalog       *services.CatalogService
	analysisCache *services.AnalysisCache
	cache         PayloadCache
	cacheTTL      time.Duration
	logger        *logrus.Logger
}

func NewTrendHandler(catalog *services.CatalogService, analysisCache *services.AnalysisCache, cache PayloadCache, cacheTTL time.Duration, logger *logrus.Logger) *TrendHandler {
	return &TrendHandler{
		catalog:       catalog,
		analysisCache: analysisCache,
		cache:         cache,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

// ListTrends returns the catalogue, optionally filtered by sport.
func (h *TrendHandler) ListTrends(c *gin.Context) {
	sport := models.Sport(c.Query("sport"))
	if sport != "" && !sport.Valid() {
		utils.SendValidationError(c, "Unknown sport", string(sport))
		return
	}

	eng, _ := h.catalog.Engine()
	trends := eng.ListTrends(sport)
	utils.SendSuccessWithMeta(c, trends, &utils.Meta{Count: len(trends)})
}

// GetTrend returns one trend summary.
func (h *TrendHandler) GetTrend(c *gin.Context) {
	eng, _ := h.catalog.Engine()
	trend, err := eng.Trend(c.Param("id"))
	if err != nil {
		utils.SendNotFound(c, "Trend not found")
		return
	}
	utils.SendSuccess(c, trend)
}

// GetTrendGames returns a trend's reconstructed history, newest first.
func (h *TrendHandler) GetTrendGames(c *gin.Context) {
	trendID := c.Param("id")
	count := defaultGameCount
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.SendValidationError(c, "Invalid count", raw)
			return
		}
		count = parsed
	}

	eng, snapshot := h.catalog.Engine()
	cacheKey := services.TrendGamesCacheKey(snapshot, trendID, count)
	if cached, ok := h.analysisCache.Get(cacheKey, snapshot); ok {
		utils.SendSuccess(c, cached)
		return
	}
	if h.cache != nil {
		var cached []models.ReconstructedGame
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			h.analysisCache.Put(cacheKey, cached, snapshot)
			utils.SendSuccess(c, cached)
			return
		}
	}

	games, err := eng.ReconstructGames(trendID, count)
	if err != nil {
		if errors.Is(err, engine.ErrTrendNotFound) {
			utils.SendNotFound(c, "Trend not found")
			return
		}
		utils.SendInternalError(c, "Failed to reconstruct games")
		return
	}

	h.analysisCache.Put(cacheKey, games, snapshot)
	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), cacheKey, games, h.cacheTTL); err != nil {
			h.logger.WithError(err).Debug("Redis cache write failed")
		}
	}
	utils.SendSuccess(c, games)
}

// GetTrendStats returns a trend's record, ROI, and units over one window.
func (h *TrendHandler) GetTrendStats(c *gin.Context) {
	trendID := c.Param("id")
	window, err := models.ParseWindow(c.Query("window"))
	if err != nil {
		utils.SendValidationError(c, "Invalid time window", c.Query("window"))
		return
	}

	eng, snapshot := h.catalog.Engine()
	cacheKey := services.TrendStatsCacheKey(snapshot, trendID, string(window))
	if cached, ok := h.analysisCache.Get(cacheKey, snapshot); ok {
		utils.SendSuccess(c, cached)
		return
	}
	if h.cache != nil {
		var cached gin.H
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			h.analysisCache.Put(cacheKey, cached, snapshot)
			utils.SendSuccess(c, cached)
			return
		}
	}

	stats, err := eng.WindowedStats(trendID, window)
	if err != nil {
		if errors.Is(err, engine.ErrTrendNotFound) {
			utils.SendNotFound(c, "Trend not found")
			return
		}
		utils.SendInternalError(c, "Failed to compute stats")
		return
	}

	payload := gin.H{
		"record": stats.Record(),
		"stats":  stats,
		"window": window,
	}
	h.analysisCache.Put(cacheKey, payload, snapshot)
	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), cacheKey, payload, h.cacheTTL); err != nil {
			h.logger.WithError(err).Debug("Redis cache write failed")
		}
	}
	utils.SendSuccess(c, payload)
}

// GetSystemRollup returns catalogue-wide totals for one window.
func (h *TrendHandler) GetSystemRollup(c *gin.Context) {
	window, err := models.ParseWindow(c.Query("window"))
	if err != nil {
		utils.SendValidationError(c, "Invalid time window", c.Query("window"))
		return
	}

	eng, snapshot := h.catalog.Engine()
	cacheKey := "rollup:" + string(window)
	if cached, ok := h.analysisCache.Get(cacheKey, snapshot); ok {
		utils.SendSuccess(c, cached)
		return
	}

	rollup := eng.SystemRollup(window)
	h.analysisCache.Put(cacheKey, rollup, snapshot)
	utils.SendSuccess(c, rollup)
}
