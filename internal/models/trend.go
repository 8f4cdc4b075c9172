package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Sport identifies the league a trend or game belongs to.
type Sport string

const (
	SportNFL Sport = "nfl"
	SportNBA Sport = "nba"
	SportMLB Sport = "mlb"
	SportNHL Sport = "nhl"

	// SportAll marks a trend that applies to every league.
	SportAll Sport = "all"
)

// ConcreteSports lists every league a SportAll trend can resolve to.
var ConcreteSports = []Sport{SportNFL, SportNBA, SportMLB, SportNHL}

// Valid reports whether s is a known sport tag (including the all-sports sentinel).
func (s Sport) Valid() bool {
	switch s {
	case SportNFL, SportNBA, SportMLB, SportNHL, SportAll:
		return true
	}
	return false
}

// BetType identifies how a trend's picks are settled.
type BetType string

const (
	BetSpread    BetType = "spread"
	BetTotal     BetType = "total"
	BetMoneyline BetType = "moneyline"
)

// Trend categories. CategoryProprietary is the sport-agnostic bucket the
// matcher considers for every game regardless of league.
const (
	CategoryProprietary = "proprietary"
	CategorySituational = "situational"
	CategoryStatistical = "statistical"
)

// TrendSummary is a single betting angle as supplied by the catalogue store.
// It is read-only once loaded; the engine derives game histories and windowed
// statistics from it but never writes back.
type TrendSummary struct {
	ID                 string             `gorm:"primaryKey" json:"id"`
	Sport              Sport              `gorm:"index;not null" json:"sport"`
	BetType            BetType            `gorm:"index;not null" json:"bet_type"`
	Name               string             `gorm:"not null" json:"name"`
	Description        string             `json:"description"`
	Category           string             `gorm:"index" json:"category"`
	AllTimeRecord      string             `json:"all_time_record"` // "wins-losses", e.g. "18-6"
	AllTimeSampleSize  int                `json:"all_time_sample_size"`
	AllTimeROI         float64            `json:"all_time_roi"`
	MonthlyPerformance MonthlyPerformance `gorm:"type:jsonb" json:"monthly_performance"`
	ConfidenceScore    int                `json:"confidence_score"` // 0-100, externally assigned
	HotStreak          bool               `json:"hot_streak"`       // externally assigned
	RawPayload         datatypes.JSON     `json:"-"`                // provider payload as received
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (TrendSummary) TableName() string {
	return "trends"
}

// Record splits AllTimeRecord into wins and losses. A malformed record is
// treated as 0-0 so one bad row never blocks the rest of the catalogue.
func (t *TrendSummary) Record() (wins, losses int) {
	if _, err := fmt.Sscanf(t.AllTimeRecord, "%d-%d", &wins, &losses); err != nil || wins < 0 || losses < 0 {
		return 0, 0
	}
	return wins, losses
}

// WinRate returns the all-time win rate, defaulting to 0.5 on an empty record.
func (t *TrendSummary) WinRate() float64 {
	wins, losses := t.Record()
	if wins+losses == 0 {
		return 0.5
	}
	return float64(wins) / float64(wins+losses)
}

// MonthEntry is one month of settled performance, most-recent-first in the
// MonthlyPerformance slice.
type MonthEntry struct {
	Month    time.Month `json:"month"`
	Year     int        `json:"year"`
	Wins     int        `json:"wins"`
	Losses   int        `json:"losses"`
	NetUnits float64    `json:"net_units"`
}

// MonthlyPerformance stores month-by-month records as JSONB.
type MonthlyPerformance []MonthEntry

// Scan implements the sql.Scanner interface for JSONB
func (mp *MonthlyPerformance) Scan(value interface{}) error {
	if value == nil {
		*mp = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into MonthlyPerformance", value)
	}

	var entries []MonthEntry
	if err := json.Unmarshal(bytes, &entries); err != nil {
		return err
	}

	*mp = MonthlyPerformance(entries)
	return nil
}

// Value implements the driver.Valuer interface for JSONB
func (mp MonthlyPerformance) Value() (driver.Value, error) {
	if mp == nil {
		return nil, nil
	}
	return json.Marshal(mp)
}

// Totals sums the monthly entries. Used to cross-check the all-time record at
// ingest; a mismatch is logged, not rejected.
func (mp MonthlyPerformance) Totals() (wins, losses int, units float64) {
	for _, e := range mp {
		wins += e.Wins
		losses += e.Losses
		units += e.NetUnits
	}
	return wins, losses, units
}
