package models

import "time"

// Team holds a team's season aggregates as fetched from the fantasy API.
type Team struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	ShortName    string    `gorm:"index" json:"short_name"`
	Played       int       `json:"played"`
	GoalsFor     int       `json:"goals_for"`
	GoalsAgainst int       `json:"goals_against"`
	CleanSheets  int       `json:"clean_sheets"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

// TeamAdvancedStats is an optional per-team expected-goals record from a
// third-party advanced-stats source. Absence is normal and non-fatal.
type TeamAdvancedStats struct {
	TeamID     int       `gorm:"primaryKey" json:"team_id"`
	Matches    int       `json:"matches"`
	XGPerGame  float64   `json:"xg_per_game"`
	XGAPerGame float64   `json:"xga_per_game"`
	Source     string    `json:"source"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (TeamAdvancedStats) TableName() string {
	return "team_advanced_stats"
}
