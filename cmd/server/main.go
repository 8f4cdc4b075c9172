package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sharpline/trend-engine/internal/api"
	"github.com/sharpline/trend-engine/internal/api/handlers"
	"github.com/sharpline/trend-engine/internal/api/middleware"
	"github.com/sharpline/trend-engine/internal/models"
	"github.com/sharpline/trend-engine/internal/providers"
	"github.com/sharpline/trend-engine/internal/services"
	"github.com/sharpline/trend-engine/pkg/config"
	"github.com/sharpline/trend-engine/pkg/database"
	"github.com/sharpline/trend-engine/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// All "today" reasoning happens in one fixed time zone.
	tz, err := time.LoadLocation(cfg.ScheduleTimezone)
	if err != nil {
		log.Warnf("Invalid schedule timezone %q, using UTC: %v", cfg.ScheduleTimezone, err)
		tz = time.UTC
	}

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	analysisCache := services.NewAnalysisCache(cfg.AnalysisCacheTTL)
	catalog := services.NewCatalogService(db.DB, log)
	if err := catalog.Migrate(); err != nil {
		log.Fatalf("Failed to migrate trends schema: %v", err)
	}
	if err := catalog.Reload(); err != nil {
		log.Errorf("Initial catalogue load failed: %v", err)
	}

	webSocketHub := services.NewWebSocketHub()
	go webSocketHub.Run()
	defer webSocketHub.Stop()

	scoreboard := providers.NewScoreboardClient(
		cfg.ScoreboardBaseURL,
		cfg.ScoreboardRateLimit,
		cfg.ScoreboardTimeout,
		cfg.CircuitBreakerWindow,
		log,
	)

	sports := make([]models.Sport, 0, len(cfg.SupportedSports))
	for _, s := range cfg.SupportedSports {
		sport := models.Sport(s)
		if sport.Valid() && sport != models.SportAll {
			sports = append(sports, sport)
		}
	}

	poller := services.NewSchedulePoller(scoreboard, catalog, cacheService, log, cfg.PollInterval, sports, tz, cfg.RedisCacheTTL)
	poller.OnScheduleUpdate = func(games []models.ScheduledGame) {
		webSocketHub.Broadcast("schedule_update", games)

		eng, _ := catalog.Engine()
		matched := make(map[string][]models.MatchedTrend, len(games))
		for _, g := range games {
			matched[g.ID] = eng.MatchedTrendsForGame(g)
		}
		webSocketHub.Broadcast("matched_trends", matched)
	}
	if err := poller.Start(); err != nil {
		log.Errorf("Failed to start schedule poller: %v", err)
	}
	defer poller.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	router.GET("/health", handlers.Health)

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, catalog, poller, analysisCache, cacheService, cfg.RedisCacheTTL, log)

	wsHandler := handlers.NewWebSocketHandler(webSocketHub, log)
	router.GET("/ws", wsHandler.HandleWebSocket)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
