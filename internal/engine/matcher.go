package engine

import (
	"sort"
	"time"

	"github.com/sharpline/trend-engine/internal/models"
)

// maxMatches bounds how many trends are surfaced per scheduled game.
const maxMatches = 4

// matchTrends selects the trends applicable to one scheduled game: trends in
// the game's sport plus sport-agnostic proprietary trends, ranked by
// confidence. The best-edge candidate (confidence plus a hot-streak bonus) is
// flagged primary. An empty result is valid, not an error.
func matchTrends(game models.ScheduledGame, catalogue []models.TrendSummary, now time.Time) []models.MatchedTrend {
	var pool []models.TrendSummary
	for _, t := range catalogue {
		if t.Sport == game.Sport || (t.Sport == models.SportAll && t.Category == models.CategoryProprietary) {
			pool = append(pool, t)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	// Tie-break on id so ranking is stable across invocations.
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].ConfidenceScore != pool[j].ConfidenceScore {
			return pool[i].ConfidenceScore > pool[j].ConfidenceScore
		}
		return pool[i].ID < pool[j].ID
	})
	if len(pool) > maxMatches {
		pool = pool[:maxMatches]
	}

	matched := make([]models.MatchedTrend, 0, len(pool))
	bestIdx, bestEdge := 0, -1
	for i := range pool {
		t := pool[i]
		games := reconstruct(&t, t.AllTimeSampleSize, now)
		matched = append(matched, models.MatchedTrend{
			Trend:          t,
			Recommendation: recommend(&t, game),
			Stats:          Aggregate(games, models.Window1y, now),
		})
		edge := t.ConfidenceScore
		if t.HotStreak {
			edge += 10
		}
		if edge > bestEdge {
			bestIdx, bestEdge = i, edge
		}
	}
	matched[bestIdx].Primary = true
	return matched
}

// recommend renders a trend's pick against a real matchup. The draw stream is
// seeded from both ids so the same trend gives the same recommendation for
// the same game all day, and a different one tomorrow.
func recommend(trend *models.TrendSummary, game models.ScheduledGame) string {
	s := NewStream(trend.ID + ":" + game.ID)
	band, ok := sportBands[game.Sport]
	if !ok {
		band = sportBands[models.SportNFL]
	}
	line, s := s.NextStep(band.lineLo, band.lineHi, 0.5)
	total, _ := s.NextStep(band.totalLo, band.totalHi, 0.5)

	return pickText(trend, game.HomeTeam.Name, game.AwayTeam.Name, line, total)
}
