package engine

import (
	"github.com/sharpline/trend-engine/internal/models"
)

// maxReconstructed caps how many games are ever synthesized for one trend,
// independent of its stated sample size.
const maxReconstructed = 200

// Units settled per pick under the fixed -110 vig convention.
const (
	unitsPerWin  = 0.91
	unitsPerLoss = -1.0
)

// clampCount bounds a reconstruction request to the trend's own sample size
// and the display cap.
func clampCount(requested, sampleSize int) int {
	n := requested
	if sampleSize < n {
		n = sampleSize
	}
	if n > maxReconstructed {
		n = maxReconstructed
	}
	if n < 0 {
		n = 0
	}
	return n
}

// pushBand returns the probability mass reserved for pushes by bet type.
// Moneyline bets never push; spreads and totals get a small flat band.
func pushBand(bt models.BetType) float64 {
	if bt == models.BetMoneyline {
		return 0
	}
	return 0.02
}

// drawResult maps one uniform draw onto a settled result given the trend's
// win rate and push band.
func drawResult(r, winRate, push float64) models.GameResult {
	switch {
	case r < winRate:
		return models.ResultWin
	case r < winRate+push:
		return models.ResultPush
	default:
		return models.ResultLoss
	}
}

// unitsFor settles a result into units won.
func unitsFor(result models.GameResult) float64 {
	switch result {
	case models.ResultWin:
		return unitsPerWin
	case models.ResultLoss:
		return unitsPerLoss
	}
	return 0
}
