package snapshot

// Position is the fantasy-game position of a player.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

// IsAttacking reports whether the position is primarily judged on goal
// involvement rather than clean sheets.
func (p Position) IsAttacking() bool {
	return p == PositionMidfielder || p == PositionForward
}

// TeamSeason holds a team's season-level scoring and conceding rates.
type TeamSeason struct {
	TeamID              int     `json:"team_id"`
	Name                string  `json:"name"`
	ShortName           string  `json:"short_name"`
	Played              int     `json:"played"`
	GoalsForPerGame     float64 `json:"goals_for_per_game"`
	GoalsAgainstPerGame float64 `json:"goals_against_per_game"`
	CleanSheets         int     `json:"clean_sheets"`
}

// TeamAdvanced is an optional advanced-stats override for a team,
// sourced from an expected-goals provider.
type TeamAdvanced struct {
	TeamID     int     `json:"team_id"`
	Matches    int     `json:"matches"`
	XGPerGame  float64 `json:"xg_per_game"`
	XGAPerGame float64 `json:"xga_per_game"`
}

// PlayerSeason holds a player's identity and season totals.
type PlayerSeason struct {
	PlayerID          int      `json:"player_id"`
	Name              string   `json:"name"`
	Position          Position `json:"position"`
	TeamID            int      `json:"team_id"`
	Cost              float64  `json:"cost"`
	TotalPoints       int      `json:"total_points"`
	TotalMinutes      int      `json:"total_minutes"`
	Goals             int      `json:"goals"`
	Assists           int      `json:"assists"`
	CleanSheets       int      `json:"clean_sheets"`
	Bonus             int      `json:"bonus"`
	Availability      *float64 `json:"availability,omitempty"` // 0-100, nil when not reported
	ICTIndex          float64  `json:"ict_index"`
	SelectedByPercent float64  `json:"selected_by_percent"`
	XGPer90           *float64 `json:"xg_per_90,omitempty"`
	XAPer90           *float64 `json:"xa_per_90,omitempty"`
}

// PlayerAdvanced is an optional advanced-stats record for a player,
// keyed by player id in the snapshot.
type PlayerAdvanced struct {
	PlayerID   int     `json:"player_id"`
	Minutes    int     `json:"minutes"`
	XG         float64 `json:"xg"`
	XA         float64 `json:"xa"`
	Shots      int     `json:"shots"`
	BigChances int     `json:"big_chances"`
}

// MatchRecord is one entry of a player's match history.
type MatchRecord struct {
	Round           int     `json:"round"`
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

// Fixture is an upcoming scheduled match. Difficulty ratings are 1 (easy)
// to 5 (hard), relative to each side.
type Fixture struct {
	FixtureID      int `json:"fixture_id"`
	Gameweek       int `json:"gameweek"`
	HomeTeamID     int `json:"home_team_id"`
	AwayTeamID     int `json:"away_team_id"`
	HomeDifficulty int `json:"home_difficulty"`
	AwayDifficulty int `json:"away_difficulty"`
}

// OddsGoals is an optional odds-derived implied-goals record for a fixture.
type OddsGoals struct {
	FixtureID   int     `json:"fixture_id"`
	HomeXG      float64 `json:"home_xg"`
	AwayXG      float64 `json:"away_xg"`
	IsEstimated bool    `json:"is_estimated"`
}
