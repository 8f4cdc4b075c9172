package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/sharpline/trend-engine/internal/models"
)

// lookbackDays bounds synthesized game dates to a trailing three-year window.
const lookbackDays = 1095

// synthesize builds one reconstructed game from the trend's stream. The
// stream is consumed in a fixed order (date, sport, teams, scores, line,
// total) so histories are byte-for-byte reproducible.
func synthesize(trend *models.TrendSummary, result models.GameResult, s Stream, now time.Time) (models.ReconstructedGame, Stream) {
	offset, s := s.NextInt(0, lookbackDays-1)
	date := now.AddDate(0, 0, -offset)

	sport, s := resolveSport(trend.Sport, s)
	teams := sportTeams[sport]
	band := sportBands[sport]

	homeIdx, s := s.NextInt(0, len(teams)-1)
	awayIdx, s := s.NextInt(0, len(teams)-1)
	if awayIdx == homeIdx {
		// Shift instead of re-drawing so the stream position stays fixed.
		awayIdx = (awayIdx + 1) % len(teams)
	}

	homeScore, s := s.NextInt(band.homeLo, band.homeHi)
	awayScore, s := s.NextInt(band.awayLo, band.awayHi)
	line, s := s.NextStep(band.lineLo, band.lineHi, 0.5)
	total, s := s.NextStep(band.totalLo, band.totalHi, 0.5)

	game := models.ReconstructedGame{
		Date:      date,
		Sport:     sport,
		HomeTeam:  teams[homeIdx],
		AwayTeam:  teams[awayIdx],
		HomeScore: homeScore,
		AwayScore: awayScore,
		Line:      line,
		Total:     total,
		Result:    result,
		UnitsWon:  unitsFor(result),
	}
	game.Pick = pickText(trend, game.HomeTeam, game.AwayTeam, line, total)
	return game, s
}

// pickText renders the bet a trend would have placed on a matchup. Spread
// picks side with the trend's angle: names that back the dog or fade a side
// take the points, everything else lays them.
func pickText(trend *models.TrendSummary, home, away string, line, total float64) string {
	switch trend.BetType {
	case models.BetTotal:
		side := "Over"
		if impliesUnder(trend.Name) {
			side = "Under"
		}
		return fmt.Sprintf("%s %.1f", side, total)
	case models.BetMoneyline:
		return fmt.Sprintf("%s ML", home)
	default: // spread
		team, signed := home, line
		if backsUnderdog(trend.Name) {
			// The dog takes the opposite sign of the home line when home is
			// favored, and the home side otherwise.
			if line < 0 {
				team, signed = away, -line
			}
		} else if impliesAway(trend.Name) {
			team, signed = away, -line
		}
		return fmt.Sprintf("%s %+.1f", team, signed)
	}
}

func backsUnderdog(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "underdog") || strings.Contains(n, "dog") || strings.Contains(n, "fade")
}

func impliesAway(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "road") || strings.Contains(n, "away") || strings.Contains(n, "visitor")
}

func impliesUnder(name string) bool {
	return strings.Contains(strings.ToLower(name), "under ") ||
		strings.HasSuffix(strings.ToLower(name), "under") ||
		strings.Contains(strings.ToLower(name), "unders")
}
