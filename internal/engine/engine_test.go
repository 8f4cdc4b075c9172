package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpline/trend-engine/internal/models"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

func testCatalogue() []models.TrendSummary {
	return []models.TrendSummary{
		{
			ID:                "t1",
			Sport:             models.SportNFL,
			BetType:           models.BetSpread,
			Name:              "Home Underdogs Cover",
			Category:          models.CategorySituational,
			AllTimeRecord:     "18-6",
			AllTimeSampleSize: 24,
			ConfidenceScore:   82,
			HotStreak:         true,
		},
		{
			ID:                "t2",
			Sport:             models.SportNBA,
			BetType:           models.BetTotal,
			Name:              "Division Unders",
			Category:          models.CategoryStatistical,
			AllTimeRecord:     "310-205",
			AllTimeSampleSize: 540,
			ConfidenceScore:   67,
		},
		{
			ID:                "t3",
			Sport:             models.SportAll,
			BetType:           models.BetMoneyline,
			Name:              "Sharp Reverse Line Movement",
			Category:          models.CategoryProprietary,
			AllTimeRecord:     "121-99",
			AllTimeSampleSize: 220,
			ConfidenceScore:   74,
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(testCatalogue(), WithClock(fixedClock()))
}

func TestReconstructGamesDeterminism(t *testing.T) {
	e := newTestEngine(t)

	for _, id := range []string{"t1", "t2", "t3"} {
		for _, n := range []int{0, 1, 24, 500} {
			first, err := e.ReconstructGames(id, n)
			require.NoError(t, err)
			second, err := e.ReconstructGames(id, n)
			require.NoError(t, err)
			assert.Equal(t, first, second, "trend %s count %d must reproduce byte-for-byte", id, n)
		}
	}
}

func TestReconstructGamesSampleSizeBound(t *testing.T) {
	catalogue := []models.TrendSummary{
		{ID: "small", Sport: models.SportNHL, BetType: models.BetSpread, AllTimeRecord: "5-3", AllTimeSampleSize: 8},
		{ID: "big", Sport: models.SportNBA, BetType: models.BetSpread, AllTimeRecord: "400-300", AllTimeSampleSize: 700},
		{ID: "empty", Sport: models.SportMLB, BetType: models.BetSpread, AllTimeRecord: "0-0", AllTimeSampleSize: 0},
	}
	e := New(catalogue, WithClock(fixedClock()))

	tests := []struct {
		trendID   string
		requested int
		expected  int
	}{
		{"small", 100, 8},
		{"small", 3, 3},
		{"big", 50, 50},
		{"big", 100000, 200},
		{"empty", 25, 0},
	}

	for _, tt := range tests {
		games, err := e.ReconstructGames(tt.trendID, tt.requested)
		require.NoError(t, err)
		assert.Len(t, games, tt.expected, "trend %s requested %d", tt.trendID, tt.requested)
	}
}

func TestReconstructGamesUnknownTrend(t *testing.T) {
	e := newTestEngine(t)

	games, err := e.ReconstructGames("deleted-trend", 10)
	assert.ErrorIs(t, err, ErrTrendNotFound)
	assert.Empty(t, games)

	_, err = e.WindowedStats("deleted-trend", models.WindowAll)
	assert.ErrorIs(t, err, ErrTrendNotFound)
}

func TestOutcomeProportionality(t *testing.T) {
	// Large-sample trends: the realized win fraction must sit inside a
	// three-sigma band around the summary's win rate.
	tests := []struct {
		id      string
		record  string
		winRate float64
	}{
		{"prop-a", "150-50", 0.75},
		{"prop-b", "120-80", 0.60},
		{"prop-c", "100-100", 0.50},
	}

	for _, tt := range tests {
		catalogue := []models.TrendSummary{{
			ID: tt.id, Sport: models.SportNFL, BetType: models.BetSpread,
			AllTimeRecord: tt.record, AllTimeSampleSize: 500,
		}}
		e := New(catalogue, WithClock(fixedClock()))

		games, err := e.ReconstructGames(tt.id, 500)
		require.NoError(t, err)
		require.Len(t, games, 200)

		wins := 0
		for _, g := range games {
			if g.Result == models.ResultWin {
				wins++
			}
		}
		realized := float64(wins) / float64(len(games))
		tolerance := 3*math.Sqrt(tt.winRate*(1-tt.winRate)/float64(len(games))) + pushBand(models.BetSpread)
		assert.InDelta(t, tt.winRate, realized, tolerance, "trend %s", tt.id)
	}
}

func TestMoneylineNeverPushes(t *testing.T) {
	catalogue := []models.TrendSummary{{
		ID: "ml", Sport: models.SportNBA, BetType: models.BetMoneyline,
		AllTimeRecord: "110-90", AllTimeSampleSize: 200,
	}}
	e := New(catalogue, WithClock(fixedClock()))

	games, err := e.ReconstructGames("ml", 200)
	require.NoError(t, err)
	for _, g := range games {
		assert.NotEqual(t, models.ResultPush, g.Result)
	}
}

func TestWindowingMonotonicity(t *testing.T) {
	e := newTestEngine(t)
	windows := []models.TimeWindow{models.Window30d, models.Window90d, models.Window1y, models.WindowAll}

	for _, id := range []string{"t1", "t2", "t3"} {
		prev := models.WindowStats{}
		for i, w := range windows {
			stats, err := e.WindowedStats(id, w)
			require.NoError(t, err)
			if i > 0 {
				assert.GreaterOrEqual(t, stats.Wins, prev.Wins, "trend %s window %s", id, w)
				assert.GreaterOrEqual(t, stats.Losses, prev.Losses, "trend %s window %s", id, w)
				assert.GreaterOrEqual(t, stats.Pushes, prev.Pushes, "trend %s window %s", id, w)
			}
			prev = stats
		}
	}
}

func TestUnitsROIIdentity(t *testing.T) {
	e := newTestEngine(t)

	games, err := e.ReconstructGames("t2", 540)
	require.NoError(t, err)

	stats, err := e.WindowedStats("t2", models.WindowAll)
	require.NoError(t, err)

	var units float64
	settled := 0
	for _, g := range games {
		units += g.UnitsWon
		settled++
	}
	require.Positive(t, settled)
	assert.InEpsilon(t, units/float64(settled)*100, stats.ROI, 1e-9)
	assert.InDelta(t, units, stats.TotalUnits, 1e-9)
}

func TestGamesSortedNewestFirst(t *testing.T) {
	e := newTestEngine(t)
	games, err := e.ReconstructGames("t2", 200)
	require.NoError(t, err)

	for i := 1; i < len(games); i++ {
		assert.False(t, games[i-1].Date.Before(games[i].Date), "games must be ordered descending by date")
	}
}

func TestGamesWithinLookback(t *testing.T) {
	e := newTestEngine(t)
	games, err := e.ReconstructGames("t1", 24)
	require.NoError(t, err)

	earliest := testNow.AddDate(0, 0, -lookbackDays)
	for _, g := range games {
		assert.False(t, g.Date.Before(earliest))
		assert.False(t, g.Date.After(testNow))
		assert.NotEqual(t, g.HomeTeam, g.AwayTeam)
	}
}

func TestAllSportTrendResolvesConcreteSports(t *testing.T) {
	e := newTestEngine(t)
	games, err := e.ReconstructGames("t3", 220)
	require.NoError(t, err)

	for _, g := range games {
		assert.NotEqual(t, models.SportAll, g.Sport)
		assert.True(t, g.Sport.Valid())
	}
}

func TestEndToEndReconstruction(t *testing.T) {
	// An 18-6 spread trend with 24 samples: exactly 24 games whose split is
	// consistent with the record, and a roll-up ROI that matches the units
	// formula recomputed by hand.
	e := newTestEngine(t)

	games, err := e.ReconstructGames("t1", 24)
	require.NoError(t, err)
	require.Len(t, games, 24)

	wins := 0
	var units float64
	for _, g := range games {
		if g.Result == models.ResultWin {
			wins++
		}
		units += g.UnitsWon
	}
	winRate := 18.0 / 24.0
	tolerance := 3*math.Sqrt(winRate*(1-winRate)/24) + pushBand(models.BetSpread)
	assert.InDelta(t, winRate, float64(wins)/24, tolerance)

	stats, err := e.WindowedStats("t1", models.WindowAll)
	require.NoError(t, err)
	assert.InDelta(t, units/24*100, stats.ROI, 1e-9)
}

func TestSystemRollup(t *testing.T) {
	e := newTestEngine(t)

	sys := e.SystemRollup(models.WindowAll)
	assert.Positive(t, sys.TotalPicks)

	// The roll-up must equal recombining each trend's own windowed stats.
	var units float64
	var picks, wins, decided int
	for _, id := range []string{"t1", "t2", "t3"} {
		stats, err := e.WindowedStats(id, models.WindowAll)
		require.NoError(t, err)
		picks += stats.Wins + stats.Losses + stats.Pushes
		wins += stats.Wins
		decided += stats.Wins + stats.Losses
		units += stats.TotalUnits
	}
	assert.Equal(t, picks, sys.TotalPicks)
	assert.InDelta(t, units, sys.TotalUnits, 1e-9)
	assert.InEpsilon(t, float64(wins)/float64(decided), sys.WinRate, 1e-9)
	assert.InEpsilon(t, units/float64(picks)*100, sys.ROI, 1e-9)
}

func TestRollupIsPickWeighted(t *testing.T) {
	heavy := models.WindowStats{Wins: 180, Losses: 20, TotalUnits: 143.8}
	light := models.WindowStats{Wins: 1, Losses: 9, TotalUnits: -8.09}

	sys := Rollup([]models.WindowStats{heavy, light})

	// A flat average of the two win rates would be ~0.50; the blended rate
	// must stay near the heavy trend's.
	assert.InDelta(t, 181.0/210.0, sys.WinRate, 1e-9)
	assert.Equal(t, 210, sys.TotalPicks)
}

func TestMatcherTotality(t *testing.T) {
	game := models.ScheduledGame{
		ID:       "game-1",
		Sport:    models.SportNFL,
		Kickoff:  testNow.Add(6 * time.Hour),
		HomeTeam: models.TeamInfo{Name: "Chiefs", Record: "10-3"},
		AwayTeam: models.TeamInfo{Name: "Bills", Record: "9-4"},
		Status:   models.StatusScheduled,
	}

	// Empty catalogue: empty result, no panic.
	e := New(nil, WithClock(fixedClock()))
	assert.Empty(t, e.MatchedTrendsForGame(game))

	// No sport overlap and no proprietary trends: still empty.
	e = New([]models.TrendSummary{
		{ID: "nba-only", Sport: models.SportNBA, BetType: models.BetSpread, Category: models.CategoryStatistical, AllTimeRecord: "10-5", AllTimeSampleSize: 15, ConfidenceScore: 90},
	}, WithClock(fixedClock()))
	assert.Empty(t, e.MatchedTrendsForGame(game))

	// Oversized pool: capped at four.
	var catalogue []models.TrendSummary
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		catalogue = append(catalogue, models.TrendSummary{
			ID: id, Sport: models.SportNFL, BetType: models.BetSpread,
			AllTimeRecord: "12-8", AllTimeSampleSize: 20, ConfidenceScore: 50,
		})
	}
	e = New(catalogue, WithClock(fixedClock()))
	matched := e.MatchedTrendsForGame(game)
	assert.Len(t, matched, 4)
}

func TestMatcherRanksByConfidence(t *testing.T) {
	game := models.ScheduledGame{
		ID:       "game-2",
		Sport:    models.SportNBA,
		HomeTeam: models.TeamInfo{Name: "Celtics", Record: "40-12"},
		AwayTeam: models.TeamInfo{Name: "Nuggets", Record: "38-14"},
		Status:   models.StatusScheduled,
	}
	catalogue := []models.TrendSummary{
		{ID: "low", Sport: models.SportNBA, BetType: models.BetSpread, AllTimeRecord: "8-7", AllTimeSampleSize: 15, ConfidenceScore: 40},
		{ID: "high", Sport: models.SportNBA, BetType: models.BetSpread, AllTimeRecord: "30-10", AllTimeSampleSize: 40, ConfidenceScore: 88},
		{ID: "mid", Sport: models.SportNBA, BetType: models.BetTotal, AllTimeRecord: "22-14", AllTimeSampleSize: 36, ConfidenceScore: 65},
	}
	e := New(catalogue, WithClock(fixedClock()))

	matched := e.MatchedTrendsForGame(game)
	require.Len(t, matched, 3)
	assert.Equal(t, "high", matched[0].Trend.ID)
	assert.Equal(t, "mid", matched[1].Trend.ID)
	assert.Equal(t, "low", matched[2].Trend.ID)
	assert.True(t, matched[0].Primary)
}

func TestMatcherHotStreakBonusPicksPrimary(t *testing.T) {
	game := models.ScheduledGame{
		ID:       "game-3",
		Sport:    models.SportNHL,
		HomeTeam: models.TeamInfo{Name: "Avalanche", Record: "30-15"},
		AwayTeam: models.TeamInfo{Name: "Stars", Record: "28-17"},
		Status:   models.StatusScheduled,
	}
	catalogue := []models.TrendSummary{
		{ID: "steady", Sport: models.SportNHL, BetType: models.BetSpread, AllTimeRecord: "50-30", AllTimeSampleSize: 80, ConfidenceScore: 75},
		{ID: "streaking", Sport: models.SportNHL, BetType: models.BetTotal, AllTimeRecord: "20-10", AllTimeSampleSize: 30, ConfidenceScore: 70, HotStreak: true},
	}
	e := New(catalogue, WithClock(fixedClock()))

	matched := e.MatchedTrendsForGame(game)
	require.Len(t, matched, 2)

	// Ranked by raw confidence, but the hot-streak bonus flips the primary.
	assert.Equal(t, "steady", matched[0].Trend.ID)
	assert.False(t, matched[0].Primary)
	assert.True(t, matched[1].Primary)
}

func TestMatcherProprietaryFallback(t *testing.T) {
	// An NFL game with no NFL trends but one proprietary all-sport trend
	// yields exactly one match, flagged primary.
	game := models.ScheduledGame{
		ID:       "game-4",
		Sport:    models.SportNFL,
		HomeTeam: models.TeamInfo{Name: "Eagles", Record: "8-5"},
		AwayTeam: models.TeamInfo{Name: "Cowboys", Record: "7-6"},
		Status:   models.StatusScheduled,
	}
	catalogue := []models.TrendSummary{
		{ID: "prop", Sport: models.SportAll, BetType: models.BetMoneyline, Category: models.CategoryProprietary, AllTimeRecord: "60-45", AllTimeSampleSize: 105, ConfidenceScore: 71},
		{ID: "nba-angle", Sport: models.SportNBA, BetType: models.BetSpread, Category: models.CategoryStatistical, AllTimeRecord: "15-9", AllTimeSampleSize: 24, ConfidenceScore: 95},
	}
	e := New(catalogue, WithClock(fixedClock()))

	matched := e.MatchedTrendsForGame(game)
	require.Len(t, matched, 1)
	assert.Equal(t, "prop", matched[0].Trend.ID)
	assert.True(t, matched[0].Primary)
	assert.NotEmpty(t, matched[0].Recommendation)
}

func TestMatcherRecommendationDeterminism(t *testing.T) {
	e := newTestEngine(t)
	game := models.ScheduledGame{
		ID:       "game-5",
		Sport:    models.SportNFL,
		HomeTeam: models.TeamInfo{Name: "Ravens", Record: "9-4"},
		AwayTeam: models.TeamInfo{Name: "Bengals", Record: "7-6"},
		Status:   models.StatusScheduled,
	}

	first := e.MatchedTrendsForGame(game)
	second := e.MatchedTrendsForGame(game)
	assert.Equal(t, first, second)
}

func TestMoneylinePickFormatMatchesRecommendation(t *testing.T) {
	catalogue := []models.TrendSummary{{
		ID: "ml", Sport: models.SportNBA, BetType: models.BetMoneyline,
		AllTimeRecord: "110-90", AllTimeSampleSize: 200, ConfidenceScore: 60,
	}}
	e := New(catalogue, WithClock(fixedClock()))

	// Reconstructed histories and live recommendations render the same bet
	// the same way.
	games, err := e.ReconstructGames("ml", 5)
	require.NoError(t, err)
	for _, g := range games {
		assert.Equal(t, g.HomeTeam+" ML", g.Pick)
	}

	matched := e.MatchedTrendsForGame(models.ScheduledGame{
		ID:       "g-ml",
		Sport:    models.SportNBA,
		HomeTeam: models.TeamInfo{Name: "Lakers", Record: "30-12"},
		AwayTeam: models.TeamInfo{Name: "Celtics", Record: "28-14"},
		Status:   models.StatusScheduled,
	})
	require.NotEmpty(t, matched)
	assert.Equal(t, "Lakers ML", matched[0].Recommendation)
}
