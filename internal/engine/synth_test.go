package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sharpline/trend-engine/internal/models"
)

func TestPickText(t *testing.T) {
	tests := []struct {
		name     string
		trend    models.TrendSummary
		line     float64
		total    float64
		expected string
	}{
		{
			name:     "spread lays the points by default",
			trend:    models.TrendSummary{BetType: models.BetSpread, Name: "Home Favorites Roll"},
			line:     -3.5,
			expected: "Chiefs -3.5",
		},
		{
			name:     "underdog angle takes the points",
			trend:    models.TrendSummary{BetType: models.BetSpread, Name: "Road Underdogs Cover"},
			line:     -6.5,
			expected: "Bills +6.5",
		},
		{
			name:     "away angle flips the side",
			trend:    models.TrendSummary{BetType: models.BetSpread, Name: "Road Teams After a Bye"},
			line:     2.5,
			expected: "Bills -2.5",
		},
		{
			name:     "total defaults to the over",
			trend:    models.TrendSummary{BetType: models.BetTotal, Name: "Primetime Overs"},
			total:    47.5,
			expected: "Over 47.5",
		},
		{
			name:     "under angle goes under",
			trend:    models.TrendSummary{BetType: models.BetTotal, Name: "Division Unders"},
			total:    41.0,
			expected: "Under 41.0",
		},
		{
			name:     "moneyline names the home side",
			trend:    models.TrendSummary{BetType: models.BetMoneyline, Name: "Home Court Edge"},
			expected: "Chiefs ML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickText(&tt.trend, "Chiefs", "Bills", tt.line, tt.total)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSynthesizeScoresInsideBands(t *testing.T) {
	for sport, band := range sportBands {
		trend := models.TrendSummary{
			ID: "band-" + string(sport), Sport: sport, BetType: models.BetSpread,
			AllTimeRecord: "30-20", AllTimeSampleSize: 50,
		}
		games := reconstruct(&trend, 50, testNow)
		for _, g := range games {
			assert.GreaterOrEqual(t, g.HomeScore, band.homeLo, "%s home score", sport)
			assert.LessOrEqual(t, g.HomeScore, band.homeHi, "%s home score", sport)
			assert.GreaterOrEqual(t, g.AwayScore, band.awayLo, "%s away score", sport)
			assert.LessOrEqual(t, g.AwayScore, band.awayHi, "%s away score", sport)
			assert.GreaterOrEqual(t, g.Line, band.lineLo, "%s line", sport)
			assert.LessOrEqual(t, g.Line, band.lineHi, "%s line", sport)
			assert.GreaterOrEqual(t, g.Total, band.totalLo, "%s total", sport)
			assert.LessOrEqual(t, g.Total, band.totalHi, "%s total", sport)
		}
	}
}

func TestUnitsConvention(t *testing.T) {
	assert.Equal(t, 0.91, unitsFor(models.ResultWin))
	assert.Equal(t, -1.0, unitsFor(models.ResultLoss))
	assert.Zero(t, unitsFor(models.ResultPush))
}
