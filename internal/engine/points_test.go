package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/pkg/config"
)

func TestAppearancePoints(t *testing.T) {
	tests := []struct {
		minutes  float64
		expected float64
	}{
		{0, 0},
		{15, 1.25},
		{30, 1.5},
		{60, 2},
		{90, 2},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, appearancePoints(tt.minutes), 1e-9, "minutes %v", tt.minutes)
	}
}

func TestFullHourProbability(t *testing.T) {
	tests := []struct {
		minutes  float64
		expected float64
	}{
		{0, 0},
		{30, 0},
		{60, 0.5},
		{90, 1},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, fullHourProbability(tt.minutes), 1e-9, "minutes %v", tt.minutes)
	}
}

func TestValuesFor_PositionTable(t *testing.T) {
	tests := []struct {
		position snapshot.Position
		values   positionValues
	}{
		{snapshot.PositionGoalkeeper, positionValues{Goal: 6, Assist: 3, CleanSheet: 4, Ceiling: 8}},
		{snapshot.PositionDefender, positionValues{Goal: 6, Assist: 3, CleanSheet: 4, Ceiling: 10}},
		{snapshot.PositionMidfielder, positionValues{Goal: 5, Assist: 3, CleanSheet: 1, Ceiling: 12}},
		{snapshot.PositionForward, positionValues{Goal: 4, Assist: 3, CleanSheet: 0, Ceiling: 11}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.values, valuesFor(tt.position), "position %s", tt.position)
	}
}

func TestMapPoints_ZeroMinutesScoresZero(t *testing.T) {
	params := config.DefaultModelParams()
	breakdown := MapPoints(snapshot.PositionForward,
		MinutesEstimate{ExpectedMinutes: 0},
		AttackingOutput{ExpectedGoals: 0.5},
		0.3, SeasonBaseline{}, 50, params)

	assert.Zero(t, breakdown.Total)
}

func TestMapPoints_FloorAndCeiling(t *testing.T) {
	params := config.DefaultModelParams()

	t.Run("any expected minutes floor the total at 1", func(t *testing.T) {
		breakdown := MapPoints(snapshot.PositionForward,
			MinutesEstimate{ExpectedMinutes: 5},
			AttackingOutput{}, 0, SeasonBaseline{}, 0, params)
		assert.GreaterOrEqual(t, breakdown.Total, 1.0)
	})

	t.Run("implausible output is capped at the position ceiling", func(t *testing.T) {
		breakdown := MapPoints(snapshot.PositionForward,
			MinutesEstimate{ExpectedMinutes: 90},
			AttackingOutput{ExpectedGoals: 5, ExpectedAssists: 3},
			0, SeasonBaseline{GamesPlayed: 10, PointsPerGame: 30}, 100, params)
		assert.Equal(t, 11.0, breakdown.Total)
	})
}

func TestMapPoints_BaselineBlendAboveFortyFiveMinutes(t *testing.T) {
	params := config.DefaultModelParams()
	baseline := SeasonBaseline{GamesPlayed: 10, PointsPerGame: 6}
	att := AttackingOutput{ExpectedGoals: 0.3, ExpectedAssists: 0.2}

	full := MapPoints(snapshot.PositionMidfielder, MinutesEstimate{ExpectedMinutes: 90}, att, 0.3, baseline, 0, params)

	raw := full.AppearancePoints + full.GoalPoints + full.AssistPoints + full.CleanSheetPoints + full.BonusPoints
	expected := raw*params.BaselineBlendModel + baseline.PointsPerGame*params.BaselineBlendPPG
	assert.InDelta(t, expected, full.Total, 1e-9)

	// A cameo estimate is not blended toward the per-game anchor.
	cameo := MapPoints(snapshot.PositionMidfielder, MinutesEstimate{ExpectedMinutes: 30}, att, 0.3, baseline, 0, params)
	cameoRaw := cameo.AppearancePoints + cameo.GoalPoints + cameo.AssistPoints + cameo.CleanSheetPoints + cameo.BonusPoints
	assert.InDelta(t, cameoRaw, cameo.Total, 1e-9)
}

func TestMapPoints_CleanSheetValueByPosition(t *testing.T) {
	params := config.DefaultModelParams()
	minutes := MinutesEstimate{ExpectedMinutes: 90}

	defender := MapPoints(snapshot.PositionDefender, minutes, AttackingOutput{}, 0.5, SeasonBaseline{}, 0, params)
	forward := MapPoints(snapshot.PositionForward, minutes, AttackingOutput{}, 0.5, SeasonBaseline{}, 0, params)

	assert.InDelta(t, 0.5*4*1.0, defender.CleanSheetPoints, 1e-9)
	assert.Zero(t, forward.CleanSheetPoints)
}

func TestMapPoints_DefenderRewardsCleanSheetOdds(t *testing.T) {
	params := config.DefaultModelParams()
	minutes := MinutesEstimate{ExpectedMinutes: 90}
	baseline := SeasonBaseline{GamesPlayed: 10, PointsPerGame: 4}

	goodOdds := MapPoints(snapshot.PositionDefender, minutes, AttackingOutput{}, 0.6, baseline, 30, params)
	badOdds := MapPoints(snapshot.PositionDefender, minutes, AttackingOutput{}, 0.1, baseline, 30, params)

	assert.Greater(t, goodOdds.Total, badOdds.Total)
}

func TestMapPoints_BonusScalesWithInfluence(t *testing.T) {
	params := config.DefaultModelParams()
	minutes := MinutesEstimate{ExpectedMinutes: 90}
	baseline := SeasonBaseline{GamesPlayed: 10}

	high := MapPoints(snapshot.PositionMidfielder, minutes, AttackingOutput{}, 0, baseline, 150, params)
	low := MapPoints(snapshot.PositionMidfielder, minutes, AttackingOutput{}, 0, baseline, 20, params)

	assert.Greater(t, high.BonusPoints, low.BonusPoints)
	assert.LessOrEqual(t, high.BonusPoints, 2.5*params.BonusDiscount)
}
