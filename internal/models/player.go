package models

import "time"

// Player holds a player's identity and season totals from the fantasy API.
type Player struct {
	ID                int       `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"not null;index" json:"name"`
	Position          string    `gorm:"not null;index" json:"position"` // GK, DEF, MID, FWD
	TeamID            int       `gorm:"index" json:"team_id"`
	Cost              float64   `json:"cost"`
	TotalPoints       int       `json:"total_points"`
	Minutes           int       `json:"minutes"`
	Goals             int       `json:"goals"`
	Assists           int       `json:"assists"`
	CleanSheets       int       `json:"clean_sheets"`
	Bonus             int       `json:"bonus"`
	Availability      *float64  `json:"availability,omitempty"` // chance of playing, 0-100
	ICTIndex          float64   `json:"ict_index"`
	SelectedByPercent float64   `json:"selected_by_percent"`
	XGPer90           *float64  `json:"xg_per_90,omitempty"`
	XAPer90           *float64  `json:"xa_per_90,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Player) TableName() string {
	return "players"
}

// PlayerAdvancedStats is an optional per-player record from a third-party
// advanced-stats source, keyed by the fantasy-API player id.
type PlayerAdvancedStats struct {
	PlayerID   int       `gorm:"primaryKey" json:"player_id"`
	Minutes    int       `json:"minutes"`
	XG         float64   `json:"xg"`
	XA         float64   `json:"xa"`
	Shots      int       `json:"shots"`
	BigChances int       `json:"big_chances"`
	Source     string    `json:"source"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (PlayerAdvancedStats) TableName() string {
	return "player_advanced_stats"
}

// PlayerMatch is one row of a player's per-match history.
type PlayerMatch struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	PlayerID        int     `gorm:"index:idx_player_round" json:"player_id"`
	Round           int     `gorm:"index:idx_player_round" json:"round"`
	Minutes         int     `json:"minutes"`
	TotalPoints     int     `json:"total_points"`
	OpponentTeamID  int     `json:"opponent_team"`
	WasHome         bool    `json:"was_home"`
	Goals           int     `json:"goals"`
	Assists         int     `json:"assists"`
	CleanSheets     int     `json:"clean_sheets"`
	Bonus           int     `json:"bonus"`
	ExpectedGoals   float64 `json:"expected_goals"`
	ExpectedAssists float64 `json:"expected_assists"`
}

func (PlayerMatch) TableName() string {
	return "player_matches"
}
