package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sharpline/trend-engine/internal/models"
	"github.com/sharpline/trend-engine/internal/services"
	"github.com/sharpline/trend-engine/pkg/utils"
)

type GameHandler struct {
	catalog  *services.CatalogService
	poller   *services.SchedulePoller
	cache    PayloadCache
	cacheTTL time.Duration
	logger   *logrus.Logger
}

func NewGameHandler(catalog *services.CatalogService, poller *services.SchedulePoller, cache PayloadCache, cacheTTL time.Duration, logger *logrus.Logger) *GameHandler {
	return &GameHandler{
		catalog:  catalog,
		poller:   poller,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// GetTodaysGames returns the current schedule snapshot, optionally filtered
// by sport. An empty slate is a normal response, not an error.
func (h *GameHandler) GetTodaysGames(c *gin.Context) {
	sport := models.Sport(c.Query("sport"))
	if sport != "" && !sport.Valid() {
		utils.SendValidationError(c, "Unknown sport", string(sport))
		return
	}

	games := h.poller.TodaysGames(sport)
	utils.SendSuccessWithMeta(c, games, &utils.Meta{Count: len(games)})
}

// GetMatchedTrends returns the ranked trends applicable to one scheduled
// game. No applicable trends yields an empty list; callers render a neutral
// state for it.
func (h *GameHandler) GetMatchedTrends(c *gin.Context) {
	game, ok := h.poller.Game(c.Param("id"))
	if !ok {
		utils.SendNotFound(c, "Game not found in today's schedule")
		return
	}

	eng, snapshot := h.catalog.Engine()
	cacheKey := services.MatchedTrendsCacheKey(snapshot, game.ID)
	if h.cache != nil {
		var cached []models.MatchedTrend
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			utils.SendSuccessWithMeta(c, cached, &utils.Meta{Count: len(cached)})
			return
		}
	}

	matched := eng.MatchedTrendsForGame(game)
	if matched == nil {
		matched = []models.MatchedTrend{}
	}
	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), cacheKey, matched, h.cacheTTL); err != nil {
			h.logger.WithError(err).Debug("Redis cache write failed")
		}
	}
	utils.SendSuccessWithMeta(c, matched, &utils.Meta{Count: len(matched)})
}
