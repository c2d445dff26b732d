package models

import "time"

// Fixture is an upcoming scheduled match with per-side difficulty ratings.
type Fixture struct {
	ID             int       `gorm:"primaryKey" json:"id"`
	Gameweek       int       `gorm:"index" json:"gameweek"`
	HomeTeamID     int       `gorm:"index" json:"home_team_id"`
	AwayTeamID     int       `gorm:"index" json:"away_team_id"`
	HomeDifficulty int       `json:"home_difficulty"` // 1 easy .. 5 hard
	AwayDifficulty int       `json:"away_difficulty"`
	KickoffTime    time.Time `json:"kickoff_time"`
	Finished       bool      `gorm:"default:false" json:"finished"`
}

func (Fixture) TableName() string {
	return "fixtures"
}

// FixtureOdds is an optional odds-derived implied-goals record for a
// fixture. When present and not itself estimated, it overrides the
// strength-model implied goals.
type FixtureOdds struct {
	FixtureID   int       `gorm:"primaryKey" json:"fixture_id"`
	HomeXG      float64   `json:"home_xg"`
	AwayXG      float64   `json:"away_xg"`
	IsEstimated bool      `json:"is_estimated"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (FixtureOdds) TableName() string {
	return "fixture_odds"
}
