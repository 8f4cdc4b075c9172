// Package engine implements the trend performance analytics core: it
// reconstructs a deterministic game-by-game history from each trend's
// statistical summary, recomputes records and ROI over trailing windows, and
// matches ranked trends to scheduled games.
//
// Everything in this package is pure. The engine performs no I/O, holds no
// hidden state, and derives every output from its inputs plus the injected
// clock, so any result can be regenerated byte-for-byte at any time.
package engine

import (
	"errors"
	"sort"
	"time"

	"github.com/sharpline/trend-engine/internal/models"
)

// ErrTrendNotFound is returned for ids absent from the catalogue. Stale ids
// are legitimate (a trend can be deleted after a link is shared), so callers
// should surface an empty result, not a failure.
var ErrTrendNotFound = errors.New("trend not found")

// Engine answers queries over one immutable snapshot of the trend catalogue.
// Swapping in a fresh catalogue means building a new Engine; the old one
// stays valid for in-flight callers.
type Engine struct {
	trends []models.TrendSummary
	byID   map[string]*models.TrendSummary
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New builds an engine over a catalogue snapshot. The slice is copied; later
// mutation of the caller's slice does not leak in.
func New(catalogue []models.TrendSummary, opts ...Option) *Engine {
	e := &Engine{
		trends: make([]models.TrendSummary, len(catalogue)),
		byID:   make(map[string]*models.TrendSummary, len(catalogue)),
		now:    time.Now,
	}
	copy(e.trends, catalogue)
	for i := range e.trends {
		e.byID[e.trends[i].ID] = &e.trends[i]
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListTrends returns the catalogue, optionally filtered by sport. The
// catalogue's own order is preserved; ranking only happens on matched
// subsets.
func (e *Engine) ListTrends(sport models.Sport) []models.TrendSummary {
	if sport == "" || sport == models.SportAll {
		out := make([]models.TrendSummary, len(e.trends))
		copy(out, e.trends)
		return out
	}
	var out []models.TrendSummary
	for _, t := range e.trends {
		if t.Sport == sport {
			out = append(out, t)
		}
	}
	return out
}

// Trend looks up a single summary by id.
func (e *Engine) Trend(id string) (models.TrendSummary, error) {
	t, ok := e.byID[id]
	if !ok {
		return models.TrendSummary{}, ErrTrendNotFound
	}
	return *t, nil
}

// ReconstructGames synthesizes up to count historical games for a trend,
// newest first. The result is a pure function of the trend's summary and the
// current date; calling it twice yields identical output.
func (e *Engine) ReconstructGames(trendID string, count int) ([]models.ReconstructedGame, error) {
	t, ok := e.byID[trendID]
	if !ok {
		return nil, ErrTrendNotFound
	}
	return reconstruct(t, count, e.now()), nil
}

// WindowedStats reconstructs a trend's full history and reduces it over one
// trailing window.
func (e *Engine) WindowedStats(trendID string, window models.TimeWindow) (models.WindowStats, error) {
	t, ok := e.byID[trendID]
	if !ok {
		return models.WindowStats{}, ErrTrendNotFound
	}
	now := e.now()
	return Aggregate(reconstruct(t, t.AllTimeSampleSize, now), window, now), nil
}

// SystemRollup blends every trend's windowed stats into catalogue-wide
// totals, weighted by each trend's settled-pick count.
func (e *Engine) SystemRollup(window models.TimeWindow) models.SystemStats {
	now := e.now()
	all := make([]models.WindowStats, 0, len(e.trends))
	for i := range e.trends {
		t := &e.trends[i]
		all = append(all, Aggregate(reconstruct(t, t.AllTimeSampleSize, now), window, now))
	}
	return Rollup(all)
}

// MatchedTrendsForGame selects, ranks, and renders recommendations for the
// trends applicable to one scheduled game. Returns at most four entries; an
// empty slice means no trends apply and is not an error.
func (e *Engine) MatchedTrendsForGame(game models.ScheduledGame) []models.MatchedTrend {
	return matchTrends(game, e.trends, e.now())
}

// reconstruct drives the outcome stream: one result draw per game, then the
// synthesizer's draws, in fixed order. Sorting for display happens after
// generation so the stream position of each game never depends on dates.
func reconstruct(t *models.TrendSummary, count int, now time.Time) []models.ReconstructedGame {
	n := clampCount(count, t.AllTimeSampleSize)
	if n == 0 {
		return []models.ReconstructedGame{}
	}

	winRate := t.WinRate()
	push := pushBand(t.BetType)
	s := NewStream(t.ID)

	games := make([]models.ReconstructedGame, 0, n)
	for i := 0; i < n; i++ {
		var r float64
		r, s = s.Next()
		result := drawResult(r, winRate, push)

		var g models.ReconstructedGame
		g, s = synthesize(t, result, s, now)
		games = append(games, g)
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Date.After(games[j].Date)
	})
	return games
}
