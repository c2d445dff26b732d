package engine

import "github.com/mwhitfield/fpl-projector/internal/snapshot"

// StrengthSource tags where a team's strength indices came from.
type StrengthSource string

const (
	StrengthSourceAdvanced StrengthSource = "advanced"
	StrengthSourceFallback StrengthSource = "fallback"
)

// TeamStrengthProfile holds a team's normalized attack and defence
// indices. A higher DefenceIndex means a stronger, more clean-sheet-prone
// defence. Both indices are clamped to [0.6, 1.6].
type TeamStrengthProfile struct {
	TeamID       int            `json:"team_id"`
	AttackIndex  float64        `json:"attack_index"`
	DefenceIndex float64        `json:"defence_index"`
	XGPerGame    float64        `json:"xg_per_game"`
	XGAPerGame   float64        `json:"xga_per_game"`
	Source       StrengthSource `json:"source"`
}

// FixtureProjection holds implied goals and clean-sheet probabilities for
// one fixture. Implied goals are clamped to [0.2, 3.5] and clean-sheet
// probabilities to [0.05, 0.65].
type FixtureProjection struct {
	FixtureID          int     `json:"fixture_id"`
	HomeTeamID         int     `json:"home_team_id"`
	AwayTeamID         int     `json:"away_team_id"`
	HomeXG             float64 `json:"home_xg"`
	AwayXG             float64 `json:"away_xg"`
	HomeCleanSheetProb float64 `json:"home_clean_sheet_prob"`
	AwayCleanSheetProb float64 `json:"away_clean_sheet_prob"`
	Estimated          bool    `json:"estimated"`
}

// SeasonBaseline anchors a player's projection to their season output.
type SeasonBaseline struct {
	PlayerID          int     `json:"player_id"`
	PointsPer90       float64 `json:"points_per_90"`
	PointsPerGame     float64 `json:"points_per_game"`
	RecentPointsPer90 float64 `json:"recent_points_per_90"`
	FormMultiplier    float64 `json:"form_multiplier"` // [0.85, 1.2]
	GamesPlayed       int     `json:"games_played"`
	TotalMinutes      int     `json:"total_minutes"`
	TotalPoints       int     `json:"total_points"`
}

// MinutesEstimate is the expected playing time for an upcoming fixture.
type MinutesEstimate struct {
	ExpectedMinutes        float64 `json:"expected_minutes"` // [0, 90]
	RoleFactor             float64 `json:"role_factor"`
	AverageMinutes         float64 `json:"average_minutes"`
	IsReturningFromAbsence bool    `json:"is_returning_from_absence"`
}

// AttackingOutput is the expected goal involvement for one fixture.
// IsEstimated is true when the per-90 rate came from anything other than
// a measured advanced-stats record.
type AttackingOutput struct {
	ExpectedGoals                 float64 `json:"expected_goals"`
	ExpectedAssists               float64 `json:"expected_assists"`
	ExpectedGoalInvolvementsPer90 float64 `json:"expected_goal_involvements_per_90"`
	IsEstimated                   bool    `json:"is_estimated"`
}

// PointsBreakdown decomposes a single-fixture expected-points total.
type PointsBreakdown struct {
	AppearancePoints float64 `json:"appearance_points"`
	GoalPoints       float64 `json:"goal_points"`
	AssistPoints     float64 `json:"assist_points"`
	CleanSheetPoints float64 `json:"clean_sheet_points"`
	BonusPoints      float64 `json:"bonus_points"`
	Total            float64 `json:"total"`
}

// ConfidenceFactor is a human-readable contributor to the confidence
// score, for display only.
type ConfidenceFactor struct {
	Text     string `json:"text"`
	Severity string `json:"severity"` // "positive", "neutral", "negative"
}

// ConfidenceScore is a 0-100 reliability score, clamped to [20, 100].
type ConfidenceScore struct {
	Score   int                `json:"score"`
	Factors []ConfidenceFactor `json:"factors"`
}

// FixtureForecast is a player's projection for one upcoming fixture.
type FixtureForecast struct {
	FixtureID       int             `json:"fixture_id"`
	Gameweek        int             `json:"gameweek"`
	OpponentTeamID  int             `json:"opponent_team_id"`
	IsHome          bool            `json:"is_home"`
	Difficulty      int             `json:"difficulty"`
	ExpectedMinutes float64         `json:"expected_minutes"`
	ExpectedGoals   float64         `json:"expected_goals"`
	ExpectedAssists float64         `json:"expected_assists"`
	CleanSheetProb  float64         `json:"clean_sheet_prob"`
	ExpectedPoints  float64         `json:"expected_points"`
	Breakdown       PointsBreakdown `json:"breakdown"`
	Estimated       bool            `json:"estimated"`
}

// PlayerProjection is the aggregate outlook for a player over the
// weighted fixture horizon.
type PlayerProjection struct {
	PlayerID                  int                      `json:"player_id"`
	Name                      string                   `json:"name"`
	Position                  snapshot.Position        `json:"position"`
	TeamID                    int                      `json:"team_id"`
	Cost                      float64                  `json:"cost"`
	SelectedByPercent         float64                  `json:"selected_by_percent"`
	ExpectedPointsNextFixture float64                  `json:"expected_points_next_fixture"`
	ExpectedPointsNext3       float64                  `json:"expected_points_next_3"`
	ExpectedPointsNext5       float64                  `json:"expected_points_next_5"`
	ConfidenceLow             float64                  `json:"confidence_low"`
	ConfidenceHigh            float64                  `json:"confidence_high"`
	Confidence                ConfidenceScore          `json:"confidence"`
	Fixtures                  []FixtureForecast        `json:"fixtures"`
	Baseline                  SeasonBaseline           `json:"season_baseline"`
	Minutes                   MinutesEstimate          `json:"minutes"`
	AdvancedStats             *snapshot.PlayerAdvanced `json:"advanced_stats,omitempty"`
	IsEstimated               bool                     `json:"is_estimated"`
}

// TeamOutlook is the aggregate projection for one team's upcoming run.
type TeamOutlook struct {
	TeamID              int                 `json:"team_id"`
	Name                string              `json:"name"`
	Strength            TeamStrengthProfile `json:"strength"`
	Fixtures            []FixtureProjection `json:"fixtures"`
	KeyPlayers          []PlayerProjection  `json:"key_players"`
	TotalExpectedPoints float64             `json:"total_expected_points"`
	AvgCleanSheetProb   float64             `json:"avg_clean_sheet_prob"`
}
