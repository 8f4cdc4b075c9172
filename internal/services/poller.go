package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/sharpline/trend-engine/internal/models"
	"github.com/sharpline/trend-engine/internal/providers"
)

// SchedulePoller refreshes the daily schedule and the trend catalogue on a
// timer. At most one fetch is in flight: a new tick cancels the previous
// fetch instead of queueing behind it, and Stop cancels whatever is running.
// The engine itself is never invoked with partial data from a failed fetch;
// a failed tick leaves the prior snapshot in place.
type SchedulePoller struct {
	provider providers.ScheduleProvider
	catalog  *CatalogService
	cache    *CacheService
	logger   *logrus.Logger
	cron     *cron.Cron
	interval time.Duration
	sports   []models.Sport
	tz       *time.Location
	cacheTTL time.Duration

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc

	schedMu  sync.RWMutex
	schedule []models.ScheduledGame

	// OnScheduleUpdate, when set, fires after every successful refresh.
	OnScheduleUpdate func([]models.ScheduledGame)
}

// NewSchedulePoller creates a poller over the given provider and sports.
func NewSchedulePoller(
	provider providers.ScheduleProvider,
	catalog *CatalogService,
	cache *CacheService,
	logger *logrus.Logger,
	interval time.Duration,
	sports []models.Sport,
	tz *time.Location,
	cacheTTL time.Duration,
) *SchedulePoller {
	return &SchedulePoller{
		provider: provider,
		catalog:  catalog,
		cache:    cache,
		logger:   logger,
		cron:     cron.New(),
		interval: interval,
		sports:   sports,
		tz:       tz,
		cacheTTL: cacheTTL,
	}
}

// Start schedules the recurring refresh and runs an initial one.
func (p *SchedulePoller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("schedule poller is already running")
	}

	schedule := fmt.Sprintf("@every %s", p.interval.String())
	if _, err := p.cron.AddFunc(schedule, p.tick); err != nil {
		return fmt.Errorf("failed to schedule poller: %w", err)
	}

	p.cron.Start()
	p.isRunning = true

	go p.tick()

	p.logger.Info("Schedule poller started")
	return nil
}

// Stop halts the cron and cancels any in-flight fetch.
func (p *SchedulePoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return
	}

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	ctx := p.cron.Stop()
	<-ctx.Done()

	p.isRunning = false
	p.logger.Info("Schedule poller stopped")
}

// TodaysGames returns the latest schedule snapshot, optionally filtered.
func (p *SchedulePoller) TodaysGames(sport models.Sport) []models.ScheduledGame {
	p.schedMu.RLock()
	defer p.schedMu.RUnlock()

	if sport == "" || sport == models.SportAll {
		out := make([]models.ScheduledGame, len(p.schedule))
		copy(out, p.schedule)
		return out
	}
	var out []models.ScheduledGame
	for _, g := range p.schedule {
		if g.Sport == sport {
			out = append(out, g)
		}
	}
	return out
}

// Game finds one scheduled game by id in the current snapshot.
func (p *SchedulePoller) Game(id string) (models.ScheduledGame, bool) {
	p.schedMu.RLock()
	defer p.schedMu.RUnlock()
	for _, g := range p.schedule {
		if g.ID == id {
			return g, true
		}
	}
	return models.ScheduledGame{}, false
}

// RefreshNow runs one refresh cycle immediately, superseding any fetch
// already in flight.
func (p *SchedulePoller) RefreshNow() {
	p.tick()
}

// tick supersedes any in-flight refresh and starts a new one.
func (p *SchedulePoller) tick() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	p.refresh(ctx)
}

// refresh reloads the catalogue and fetches today's slate for every sport.
// A partial failure keeps the previous schedule snapshot.
func (p *SchedulePoller) refresh(ctx context.Context) {
	if err := p.catalog.Reload(); err != nil {
		p.logger.WithError(err).Error("Catalogue reload failed, keeping previous snapshot")
	}

	today := time.Now().In(p.tz)
	var games []models.ScheduledGame
	for _, sport := range p.sports {
		if ctx.Err() != nil {
			p.logger.Debug("Schedule refresh superseded")
			return
		}
		slate, err := p.provider.Schedule(ctx, today, sport)
		if err != nil {
			p.logger.WithError(err).WithField("sport", sport).Error("Schedule fetch failed, keeping previous snapshot")
			return
		}
		games = append(games, slate...)
	}

	if ctx.Err() != nil {
		return
	}

	p.schedMu.Lock()
	p.schedule = games
	p.schedMu.Unlock()

	if p.cache != nil {
		dateKey := today.Format("2006-01-02")
		if err := p.cache.SetWithRetry(ctx, ScheduleCacheKey(dateKey, "all"), games, p.cacheTTL, 3); err != nil {
			p.logger.WithError(err).Warn("Failed to cache schedule")
		}
	}

	p.logger.WithField("games", len(games)).Info("Schedule refreshed")

	if p.OnScheduleUpdate != nil {
		p.OnScheduleUpdate(games)
	}
}
