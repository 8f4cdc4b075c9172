package models

import (
	"fmt"
	"time"
)

// GameStatus tracks a scheduled game's lifecycle.
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusFinal     GameStatus = "final"
)

// TeamInfo is a team's identity plus its season record as supplied by the
// schedule provider.
type TeamInfo struct {
	Name   string `json:"name"`
	Record string `json:"record"` // "wins-losses"
}

// ScheduledGame is one entry from the daily schedule. Owned by the schedule
// provider; the engine only reads it.
type ScheduledGame struct {
	ID       string     `json:"id"`
	Sport    Sport      `json:"sport"`
	Kickoff  time.Time  `json:"kickoff"`
	HomeTeam TeamInfo   `json:"home_team"`
	AwayTeam TeamInfo   `json:"away_team"`
	Status   GameStatus `json:"status"`
}

// GameResult is the settled outcome of a single historical pick.
type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
	ResultPush GameResult = "push"
)

// ReconstructedGame is one synthesized historical game, fully re-derivable
// from its trend's summary. Never mutated after creation; views over a game
// list are built by filtering into new slices.
type ReconstructedGame struct {
	Date      time.Time  `json:"date"`
	Sport     Sport      `json:"sport"`
	HomeTeam  string     `json:"home_team"`
	AwayTeam  string     `json:"away_team"`
	HomeScore int        `json:"home_score"`
	AwayScore int        `json:"away_score"`
	Line      float64    `json:"line"`
	Total     float64    `json:"total"`
	Pick      string     `json:"pick"`
	Result    GameResult `json:"result"`
	UnitsWon  float64    `json:"units_won"`
}

// WindowStats is the reduction of a game list over a trailing time window.
type WindowStats struct {
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Pushes     int     `json:"pushes"`
	WinRate    float64 `json:"win_rate"`
	ROI        float64 `json:"roi"`
	TotalUnits float64 `json:"total_units"`
}

// Record formats the stats as "wins-losses" ("wins-losses-pushes" when any
// pushes settled).
func (s WindowStats) Record() string {
	if s.Pushes > 0 {
		return fmt.Sprintf("%d-%d-%d", s.Wins, s.Losses, s.Pushes)
	}
	return fmt.Sprintf("%d-%d", s.Wins, s.Losses)
}

// SystemStats is the catalogue-wide roll-up for one window.
type SystemStats struct {
	TotalPicks int     `json:"total_picks"`
	WinRate    float64 `json:"win_rate"`
	ROI        float64 `json:"roi"`
	TotalUnits float64 `json:"total_units"`
}

// MatchedTrend pairs a trend with the concrete recommendation it produces for
// one scheduled game. Primary marks the best-edge candidate.
type MatchedTrend struct {
	Trend          TrendSummary `json:"trend"`
	Recommendation string       `json:"recommendation"`
	Stats          WindowStats  `json:"stats"`
	Primary        bool         `json:"primary"`
}
