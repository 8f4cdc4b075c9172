package engine

import (
	"github.com/sharpline/trend-engine/internal/models"
)

// Fixed per-sport rosters used for synthetic matchups. Order matters: team
// assignment draws indices into these slices, so reordering a list changes
// every reconstructed history.
var sportTeams = map[models.Sport][]string{
	models.SportNFL: {
		"Chiefs", "Bills", "Eagles", "Cowboys", "49ers", "Ravens",
		"Bengals", "Dolphins", "Lions", "Packers", "Jets", "Steelers",
	},
	models.SportNBA: {
		"Celtics", "Nuggets", "Bucks", "Suns", "Lakers", "Warriors",
		"Heat", "Knicks", "Mavericks", "Clippers", "76ers", "Thunder",
	},
	models.SportMLB: {
		"Dodgers", "Braves", "Astros", "Yankees", "Rangers", "Orioles",
		"Phillies", "Rays", "Padres", "Mariners", "Cubs", "Mets",
	},
	models.SportNHL: {
		"Avalanche", "Panthers", "Oilers", "Rangers", "Stars", "Bruins",
		"Hurricanes", "Golden Knights", "Maple Leafs", "Devils", "Kings", "Jets",
	},
}

// scoreBand holds a sport's plausible scoring ranges. These are display
// bands, not a statistical model of the sport.
type scoreBand struct {
	homeLo, homeHi int
	awayLo, awayHi int
	lineLo, lineHi float64 // spread, half-point steps
	totalLo        float64 // totals, half-point steps
	totalHi        float64
}

var sportBands = map[models.Sport]scoreBand{
	models.SportNFL: {homeLo: 17, homeHi: 36, awayLo: 14, awayHi: 33, lineLo: -7, lineHi: 7, totalLo: 42, totalHi: 51},
	models.SportNBA: {homeLo: 98, homeHi: 125, awayLo: 95, awayHi: 122, lineLo: -9.5, lineHi: 9.5, totalLo: 212.5, totalHi: 234.5},
	models.SportMLB: {homeLo: 2, homeHi: 9, awayLo: 1, awayHi: 8, lineLo: -1.5, lineHi: 1.5, totalLo: 7, totalHi: 10.5},
	models.SportNHL: {homeLo: 2, homeHi: 5, awayLo: 1, awayHi: 4, lineLo: -1.5, lineHi: 1.5, totalLo: 5.5, totalHi: 7.5},
}

// resolveSport fixes a trend's sport for one game, drawing a concrete league
// when the trend applies to every sport.
func resolveSport(sport models.Sport, s Stream) (models.Sport, Stream) {
	if sport != models.SportAll {
		return sport, s
	}
	idx, next := s.NextInt(0, len(models.ConcreteSports)-1)
	return models.ConcreteSports[idx], next
}
