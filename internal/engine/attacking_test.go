package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/pkg/config"
)

func attackingBase() AttackingInputs {
	return AttackingInputs{
		Player:     snapshot.PlayerSeason{PlayerID: 1, Position: snapshot.PositionForward, TeamID: 1},
		Baseline:   SeasonBaseline{PlayerID: 1, FormMultiplier: 1.0, PointsPer90: 5},
		Minutes:    MinutesEstimate{ExpectedMinutes: 90},
		Opponent:   TeamStrengthProfile{TeamID: 2, AttackIndex: 1.0, DefenceIndex: 1.0},
		IsHome:     true,
		Difficulty: 3,
	}
}

func TestProjectAttacking_SourcePriority(t *testing.T) {
	params := config.DefaultModelParams()

	t.Run("advanced stats win and are not estimated", func(t *testing.T) {
		in := attackingBase()
		in.Advanced = &snapshot.PlayerAdvanced{PlayerID: 1, Minutes: 900, XG: 6.0, XA: 3.0}
		in.Player.XGPer90 = floatPtr(0.9) // should be ignored

		out := ProjectAttacking(in, params)

		assert.InDelta(t, 0.9, out.ExpectedGoalInvolvementsPer90, 1e-9) // (6+3)/900*90
		assert.False(t, out.IsEstimated)
		// Goal share follows the measured xG share.
		assert.InDelta(t, out.ExpectedGoals/(out.ExpectedGoals+out.ExpectedAssists), 6.0/9.0, 1e-9)
	})

	t.Run("native expected stats are second and estimated", func(t *testing.T) {
		in := attackingBase()
		in.Player.XGPer90 = floatPtr(0.4)
		in.Player.XAPer90 = floatPtr(0.2)

		out := ProjectAttacking(in, params)

		assert.InDelta(t, 0.6, out.ExpectedGoalInvolvementsPer90, 1e-9)
		assert.True(t, out.IsEstimated)
	})

	t.Run("advanced record without minutes falls through", func(t *testing.T) {
		in := attackingBase()
		in.Advanced = &snapshot.PlayerAdvanced{PlayerID: 1, Minutes: 0, XG: 6.0}
		in.Player.XGPer90 = floatPtr(0.4)

		out := ProjectAttacking(in, params)

		assert.InDelta(t, 0.4, out.ExpectedGoalInvolvementsPer90, 1e-9)
		assert.True(t, out.IsEstimated)
	})

	t.Run("index fallback is last and bounded", func(t *testing.T) {
		in := attackingBase()
		in.Player.ICTIndex = 120
		in.Baseline.RecentPointsPer90 = 5

		out := ProjectAttacking(in, params)

		// 120/100*0.55 + 5*0.04 = 0.86, clamped to the fallback maximum.
		assert.InDelta(t, fallbackMaxXGI90, out.ExpectedGoalInvolvementsPer90, 1e-9)
		assert.True(t, out.IsEstimated)
	})

	t.Run("fallback never goes to zero", func(t *testing.T) {
		in := attackingBase()

		out := ProjectAttacking(in, params)

		assert.InDelta(t, fallbackMinXGI90, out.ExpectedGoalInvolvementsPer90, 1e-9)
	})
}

func TestProjectAttacking_GoalShareDefault(t *testing.T) {
	params := config.DefaultModelParams()
	in := attackingBase()
	in.Player.ICTIndex = 50

	out := ProjectAttacking(in, params)

	total := out.ExpectedGoals + out.ExpectedAssists
	assert.InDelta(t, params.DefaultGoalShare, out.ExpectedGoals/total, 1e-9)
}

func TestProjectAttacking_HomeBeatsAway(t *testing.T) {
	params := config.DefaultModelParams()
	home := attackingBase()
	away := attackingBase()
	away.IsHome = false

	homeOut := ProjectAttacking(home, params)
	awayOut := ProjectAttacking(away, params)

	ratio := (homeOut.ExpectedGoals + homeOut.ExpectedAssists) / (awayOut.ExpectedGoals + awayOut.ExpectedAssists)
	assert.InDelta(t, homeAttackModifier/awayAttackModifier, ratio, 1e-9)
}

func TestProjectAttacking_OpponentAdjustmentBounded(t *testing.T) {
	params := config.DefaultModelParams()
	weakDefence := attackingBase()
	weakDefence.Opponent.DefenceIndex = 0.6 // 1/0.6 = 1.67, clamped to 1.35
	strongDefence := attackingBase()
	strongDefence.Opponent.DefenceIndex = 1.6 // 1/1.6 = 0.625, clamped to 0.75

	weak := ProjectAttacking(weakDefence, params)
	strong := ProjectAttacking(strongDefence, params)

	ratio := (weak.ExpectedGoals + weak.ExpectedAssists) / (strong.ExpectedGoals + strong.ExpectedAssists)
	assert.InDelta(t, maxOpponentAdjustment/minOpponentAdjustment, ratio, 1e-9)
}

func TestDifficultyMultiplier(t *testing.T) {
	tests := []struct {
		name       string
		difficulty int
		position   snapshot.Position
		expected   float64
	}{
		{"easy fixture, forward", 1, snapshot.PositionForward, 1 + 0.15*0.9},
		{"easy fixture, defender", 1, snapshot.PositionDefender, 1 + 0.15*0.6},
		{"neutral fixture, forward", 3, snapshot.PositionForward, 1 + 0.0},
		{"hard fixture, forward", 5, snapshot.PositionForward, 1 - 0.15*0.9},
		{"hard fixture, goalkeeper", 5, snapshot.PositionGoalkeeper, 1 - 0.15*0.6},
		{"out-of-range difficulty clamps", 9, snapshot.PositionForward, 1 - 0.15*0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, difficultyMultiplier(tt.difficulty, tt.position), 1e-9)
		})
	}
}

func TestHeadToHeadBoost(t *testing.T) {
	params := config.DefaultModelParams()
	baseline := SeasonBaseline{PointsPer90: 5}
	bigGames := []snapshot.MatchRecord{
		{Round: 10, OpponentTeamID: 2, Minutes: 90, TotalPoints: 12},
		{Round: 5, OpponentTeamID: 2, Minutes: 90, TotalPoints: 12},
	}

	t.Run("repeated strong meetings cap at +15%", func(t *testing.T) {
		assert.InDelta(t, maxH2HBoost, headToHeadBoost(bigGames, 2, baseline, params), 1e-9)
	})

	t.Run("single meeting counts at half weight", func(t *testing.T) {
		boost := headToHeadBoost(bigGames[:1], 2, baseline, params)
		assert.InDelta(t, 1+(maxH2HBoost-1)*0.5, boost, 1e-9)
	})

	t.Run("no prior meetings is neutral", func(t *testing.T) {
		assert.Equal(t, 1.0, headToHeadBoost(bigGames, 9, baseline, params))
	})

	t.Run("disabled by config", func(t *testing.T) {
		off := params
		off.H2HBoostEnabled = false
		assert.Equal(t, 1.0, headToHeadBoost(bigGames, 2, baseline, off))
	})

	t.Run("no season baseline means no boost", func(t *testing.T) {
		assert.Equal(t, 1.0, headToHeadBoost(bigGames, 2, SeasonBaseline{}, params))
	})
}
