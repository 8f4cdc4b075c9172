package engine

import (
	"time"

	"github.com/sharpline/trend-engine/internal/models"
)

// Aggregate filters games by a trailing window and reduces them to a record,
// win rate, ROI, and net units. Pure: identical inputs always produce
// identical output.
//
// Pushes are excluded from the win-rate denominator but included in the ROI
// denominator, since a push is a real settled bet returning zero units.
func Aggregate(games []models.ReconstructedGame, window models.TimeWindow, now time.Time) models.WindowStats {
	cutoff, bounded := window.Cutoff(now)

	var stats models.WindowStats
	for _, g := range games {
		if bounded && g.Date.Before(cutoff) {
			continue
		}
		switch g.Result {
		case models.ResultWin:
			stats.Wins++
		case models.ResultLoss:
			stats.Losses++
		case models.ResultPush:
			stats.Pushes++
		}
		stats.TotalUnits += g.UnitsWon
	}

	if decided := stats.Wins + stats.Losses; decided > 0 {
		stats.WinRate = float64(stats.Wins) / float64(decided)
	}
	if settled := stats.Wins + stats.Losses + stats.Pushes; settled > 0 {
		stats.ROI = stats.TotalUnits / float64(settled) * 100
	}
	return stats
}

// Rollup combines per-trend windowed stats into catalogue-wide totals. Rates
// are blended by settled-pick weight, never averaged flat across trends.
func Rollup(all []models.WindowStats) models.SystemStats {
	var sys models.SystemStats
	var wins, decided int
	for _, s := range all {
		settled := s.Wins + s.Losses + s.Pushes
		sys.TotalPicks += settled
		sys.TotalUnits += s.TotalUnits
		wins += s.Wins
		decided += s.Wins + s.Losses
	}
	if decided > 0 {
		sys.WinRate = float64(wins) / float64(decided)
	}
	if sys.TotalPicks > 0 {
		sys.ROI = sys.TotalUnits / float64(sys.TotalPicks) * 100
	}
	return sys
}
