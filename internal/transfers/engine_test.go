package transfers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitfield/fpl-projector/internal/engine"
	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/pkg/config"
)

// leagueSnapshot builds four clubs with one forward each. Player 1 is a
// weak starter at a weak club; player 2 is a strong, cheap upgrade.
func leagueSnapshot() *snapshot.Snapshot {
	snap := snapshot.New()

	rates := map[int][2]float64{
		1: {0.8, 1.8},
		2: {2.2, 0.8},
		3: {1.3, 1.3},
		4: {1.2, 1.2},
	}
	for teamID, r := range rates {
		snap.Teams[teamID] = snapshot.TeamSeason{
			TeamID: teamID, Played: 10, GoalsForPerGame: r[0], GoalsAgainstPerGame: r[1],
		}
	}

	type seed struct {
		id, teamID, pointsPerGame int
		cost, ict                 float64
	}
	seeds := []seed{
		{id: 1, teamID: 1, pointsPerGame: 2, cost: 6.0, ict: 30},
		{id: 2, teamID: 2, pointsPerGame: 8, cost: 7.0, ict: 120},
		{id: 3, teamID: 3, pointsPerGame: 4, cost: 6.5, ict: 60},
		{id: 4, teamID: 4, pointsPerGame: 12, cost: 14.0, ict: 140},
	}
	for _, s := range seeds {
		snap.Players[s.id] = snapshot.PlayerSeason{
			PlayerID: s.id, Name: "Forward", Position: snapshot.PositionForward, TeamID: s.teamID,
			Cost: s.cost, TotalPoints: s.pointsPerGame * 10, TotalMinutes: 900,
			ICTIndex: s.ict, SelectedByPercent: 20,
		}
		for round := 10; round >= 1; round-- {
			snap.History[s.id] = append(snap.History[s.id], snapshot.MatchRecord{
				Round: round, Minutes: 90, TotalPoints: s.pointsPerGame,
				OpponentTeamID: 1 + (s.teamID+round)%4,
			})
		}
	}

	gw := 11
	for i := 0; i < 3; i++ {
		snap.Fixtures = append(snap.Fixtures,
			snapshot.Fixture{FixtureID: 100 + i*2, Gameweek: gw + i, HomeTeamID: 1, AwayTeamID: 2, HomeDifficulty: 4, AwayDifficulty: 2},
			snapshot.Fixture{FixtureID: 101 + i*2, Gameweek: gw + i, HomeTeamID: 3, AwayTeamID: 4, HomeDifficulty: 3, AwayDifficulty: 3},
		)
	}

	return snap
}

func newTestSetup(t *testing.T) (*Engine, *engine.Context) {
	t.Helper()
	projector := engine.New(config.DefaultModelParams(), nil)
	return NewEngine(projector, nil), projector.NewContext(leagueSnapshot())
}

func TestRecommend_SurfacesUpgrade(t *testing.T) {
	transferEngine, ctx := newTestSetup(t)

	result, err := transferEngine.Recommend(ctx, Request{
		Squad: []SquadPlayer{{PlayerID: 1, Cost: 6.0}},
		Bank:  2.0,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Best)

	assert.Equal(t, StrategyPoints, result.Strategy)
	assert.Equal(t, 1, result.Best.PlayerOut.PlayerID)
	assert.Equal(t, 2, result.Best.PlayerIn.PlayerID, "the affordable in-form forward should lead")
	assert.Greater(t, result.Best.NetGain, 0.0)
	assert.NotEmpty(t, result.Best.Reasons)
	assert.InDelta(t, result.SquadBaselineTotal+result.Best.NetGain, result.Best.SquadTotalAfter, 1e-9)
	assert.InDelta(t, 2.0+6.0-result.Best.PlayerIn.Cost, result.Best.BudgetAfter, 1e-9)
}

func TestRecommend_RespectsBudget(t *testing.T) {
	transferEngine, ctx := newTestSetup(t)

	result, err := transferEngine.Recommend(ctx, Request{
		Squad: []SquadPlayer{{PlayerID: 1, Cost: 6.0}},
		Bank:  0.5, // bank + 6.0 cannot reach player 4 at 14.0
	})
	require.NoError(t, err)

	for _, rec := range result.Top {
		assert.NotEqual(t, 4, rec.PlayerIn.PlayerID, "unaffordable candidates must be filtered")
		assert.LessOrEqual(t, rec.PlayerIn.Cost, 6.5)
	}
}

func TestRecommend_RespectsClubQuota(t *testing.T) {
	transferEngine, ctx := newTestSetup(t)
	snap := ctx.Snap

	// Three squad members already at club 2; the upgrade at club 2 would
	// be a fourth.
	for id := 10; id <= 12; id++ {
		snap.Players[id] = snapshot.PlayerSeason{
			PlayerID: id, Name: "Backup", Position: snapshot.PositionDefender, TeamID: 2,
			Cost: 4.0, TotalPoints: 20, TotalMinutes: 900,
		}
	}

	result, err := transferEngine.Recommend(ctx, Request{
		Squad: []SquadPlayer{
			{PlayerID: 1, Cost: 6.0},
			{PlayerID: 10, Cost: 4.0},
			{PlayerID: 11, Cost: 4.0},
			{PlayerID: 12, Cost: 4.0},
		},
		Bank: 2.0,
	})
	require.NoError(t, err)

	for _, rec := range result.Top {
		if rec.PlayerOut.TeamID != 2 {
			assert.NotEqual(t, 2, rec.PlayerIn.TeamID, "a fourth player from one club must be rejected")
		}
	}
}

func TestRecommend_EmptySquad(t *testing.T) {
	transferEngine, ctx := newTestSetup(t)

	_, err := transferEngine.Recommend(ctx, Request{})
	assert.Error(t, err)
}

func TestRecommend_UnknownSquadPlayer(t *testing.T) {
	transferEngine, ctx := newTestSetup(t)

	_, err := transferEngine.Recommend(ctx, Request{
		Squad: []SquadPlayer{{PlayerID: 999, Cost: 5.0}},
	})
	assert.Error(t, err)
}

func TestStrategyScore(t *testing.T) {
	proj := engine.PlayerProjection{
		ExpectedPointsNext5: 20,
		Cost:                10,
		SelectedByPercent:   50,
		Confidence:          engine.ConfidenceScore{Score: 80},
	}

	assert.Equal(t, 20.0, strategyScore(proj, StrategyPoints))
	assert.Equal(t, 2.0, strategyScore(proj, StrategyValue))
	assert.Equal(t, 80.0, strategyScore(proj, StrategyConfidence))
	assert.Equal(t, 20.0, strategyScore(proj, StrategyDifferential)) // 20 * (1.5 - 0.5)
	assert.Equal(t, 0.0, strategyScore(engine.PlayerProjection{ExpectedPointsNext5: 20}, StrategyValue))
}

func TestClubQuotaAllows(t *testing.T) {
	counts := map[int]int{1: 3, 2: 1}

	assert.True(t, clubQuotaAllows(counts, 1, 1), "like-for-like within a club is always fine")
	assert.False(t, clubQuotaAllows(counts, 2, 1), "a fourth player at club 1 is over quota")
	assert.True(t, clubQuotaAllows(counts, 1, 2))
}

func TestBuildReasons(t *testing.T) {
	out := engine.PlayerProjection{
		Cost:                6.0,
		ExpectedPointsNext5: 10,
		Minutes:             engine.MinutesEstimate{ExpectedMinutes: 55},
		Baseline:            engine.SeasonBaseline{FormMultiplier: 0.9},
		Confidence:          engine.ConfidenceScore{Score: 55},
		Fixtures: []engine.FixtureForecast{
			{Difficulty: 4}, {Difficulty: 4},
		},
	}
	in := engine.PlayerProjection{
		Cost:                6.0,
		ExpectedPointsNext5: 16,
		Minutes:             engine.MinutesEstimate{ExpectedMinutes: 85},
		Baseline:            engine.SeasonBaseline{FormMultiplier: 1.1},
		Confidence:          engine.ConfidenceScore{Score: 80},
		Fixtures: []engine.FixtureForecast{
			{Difficulty: 2}, {Difficulty: 2},
		},
	}

	reasons := buildReasons(out, in, 6.0, 0.9, 1.3)

	assert.ElementsMatch(t, []string{
		"Easier upcoming fixtures",
		"More secure minutes",
		"Stronger team momentum",
		"Better recent form",
		"Higher projection confidence",
		"Better value per cost",
	}, reasons)
}

func TestBuildReasons_NoMarginNoTags(t *testing.T) {
	proj := engine.PlayerProjection{
		Cost:                6.0,
		ExpectedPointsNext5: 10,
		Minutes:             engine.MinutesEstimate{ExpectedMinutes: 80},
		Baseline:            engine.SeasonBaseline{FormMultiplier: 1.0},
		Confidence:          engine.ConfidenceScore{Score: 60},
		Fixtures:            []engine.FixtureForecast{{Difficulty: 3}},
	}

	assert.Empty(t, buildReasons(proj, proj, 6.0, 1.0, 1.0))
}
