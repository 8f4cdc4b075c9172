package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpline/trend-engine/internal/models"
)

// stubProvider scripts schedule responses per call.
type stubProvider struct {
	responses []func(ctx context.Context) ([]models.ScheduledGame, error)
	calls     int
}

func (s *stubProvider) Schedule(ctx context.Context, date time.Time, sport models.Sport) ([]models.ScheduledGame, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx](ctx)
}

func fixedSlate(games ...models.ScheduledGame) func(ctx context.Context) ([]models.ScheduledGame, error) {
	return func(ctx context.Context) ([]models.ScheduledGame, error) {
		return games, nil
	}
}

func newTestPoller(t *testing.T, provider *stubProvider) *SchedulePoller {
	t.Helper()
	catalog := NewCatalogService(newTestDB(t), quietLogger())
	return NewSchedulePoller(provider, catalog, nil, quietLogger(), time.Minute, []models.Sport{models.SportNFL}, time.UTC, time.Minute)
}

func nflGame(id string) models.ScheduledGame {
	return models.ScheduledGame{
		ID:       id,
		Sport:    models.SportNFL,
		HomeTeam: models.TeamInfo{Name: "Chiefs", Record: "10-3"},
		AwayTeam: models.TeamInfo{Name: "Bills", Record: "9-4"},
		Status:   models.StatusScheduled,
	}
}

func TestPollerRefreshPopulatesSchedule(t *testing.T) {
	provider := &stubProvider{responses: []func(ctx context.Context) ([]models.ScheduledGame, error){
		fixedSlate(nflGame("g1"), nflGame("g2")),
	}}
	p := newTestPoller(t, provider)

	p.tick()

	assert.Len(t, p.TodaysGames(""), 2)
	assert.Len(t, p.TodaysGames(models.SportNFL), 2)
	assert.Empty(t, p.TodaysGames(models.SportNBA))

	game, ok := p.Game("g1")
	require.True(t, ok)
	assert.Equal(t, "Chiefs", game.HomeTeam.Name)
}

func TestPollerKeepsSnapshotOnFetchFailure(t *testing.T) {
	provider := &stubProvider{responses: []func(ctx context.Context) ([]models.ScheduledGame, error){
		fixedSlate(nflGame("g1")),
		func(ctx context.Context) ([]models.ScheduledGame, error) {
			return nil, errors.New("upstream down")
		},
	}}
	p := newTestPoller(t, provider)

	p.tick()
	require.Len(t, p.TodaysGames(""), 1)

	// A failed fetch never replaces the snapshot with partial data.
	p.tick()
	assert.Len(t, p.TodaysGames(""), 1)
}

func TestPollerSupersedesInFlightFetch(t *testing.T) {
	entered := make(chan struct{})
	canceled := make(chan error, 1)

	provider := &stubProvider{responses: []func(ctx context.Context) ([]models.ScheduledGame, error){
		func(ctx context.Context) ([]models.ScheduledGame, error) {
			close(entered)
			<-ctx.Done()
			canceled <- ctx.Err()
			return nil, ctx.Err()
		},
		fixedSlate(nflGame("g1")),
	}}
	p := newTestPoller(t, provider)

	go p.tick()
	<-entered

	// The next tick cancels the fetch that is still in flight.
	p.tick()

	select {
	case err := <-canceled:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("first fetch was never canceled")
	}
	assert.Len(t, p.TodaysGames(""), 1)
}

func TestPollerOnScheduleUpdateHook(t *testing.T) {
	provider := &stubProvider{responses: []func(ctx context.Context) ([]models.ScheduledGame, error){
		fixedSlate(nflGame("g1")),
	}}
	p := newTestPoller(t, provider)

	var received []models.ScheduledGame
	p.OnScheduleUpdate = func(games []models.ScheduledGame) {
		received = games
	}

	p.tick()
	assert.Len(t, received, 1)
}

func TestPollerDoubleStart(t *testing.T) {
	provider := &stubProvider{responses: []func(ctx context.Context) ([]models.ScheduledGame, error){
		fixedSlate(),
	}}
	p := newTestPoller(t, provider)

	require.NoError(t, p.Start())
	defer p.Stop()
	assert.Error(t, p.Start())
}
