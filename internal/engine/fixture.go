package engine

import (
	"math"

	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/pkg/config"
)

const (
	minImpliedGoals   = 0.2
	maxImpliedGoals   = 3.5
	minCleanSheetProb = 0.05
	maxCleanSheetProb = 0.65
)

// CleanSheetProbability approximates P(opponent scores zero) with the
// Poisson zero term on the opponent's implied goals, clamped so extreme
// inputs never produce implausible probabilities.
func CleanSheetProbability(opponentXG float64) float64 {
	return clamp(finiteOr(math.Exp(-opponentXG), minCleanSheetProb), minCleanSheetProb, maxCleanSheetProb)
}

// ProjectFixture derives implied goals and clean-sheet probabilities for
// one fixture. An odds-derived override with both sides present is used
// directly; the fixture is then only marked estimated when the override
// itself is flagged estimated. Otherwise the strength model applies with
// home advantage and away penalty, and the fixture is estimated.
func ProjectFixture(fix snapshot.Fixture, home, away TeamStrengthProfile, odds *snapshot.OddsGoals, leagueAvgGoals float64, p config.ModelParams) FixtureProjection {
	proj := FixtureProjection{
		FixtureID:  fix.FixtureID,
		HomeTeamID: fix.HomeTeamID,
		AwayTeamID: fix.AwayTeamID,
		Estimated:  true,
	}

	if odds != nil && odds.HomeXG > 0 && odds.AwayXG > 0 {
		proj.HomeXG = clamp(finiteOr(odds.HomeXG, p.LeagueAvgGoals), minImpliedGoals, maxImpliedGoals)
		proj.AwayXG = clamp(finiteOr(odds.AwayXG, p.LeagueAvgGoals), minImpliedGoals, maxImpliedGoals)
		proj.Estimated = odds.IsEstimated
	} else {
		if leagueAvgGoals <= 0 {
			leagueAvgGoals = p.LeagueAvgGoals
		}
		homeXG := leagueAvgGoals * home.AttackIndex * (1 / away.DefenceIndex) * p.HomeAdvantage
		awayXG := leagueAvgGoals * away.AttackIndex * (1 / home.DefenceIndex) * p.AwayPenalty
		proj.HomeXG = clamp(finiteOr(homeXG, p.LeagueAvgGoals), minImpliedGoals, maxImpliedGoals)
		proj.AwayXG = clamp(finiteOr(awayXG, p.LeagueAvgGoals), minImpliedGoals, maxImpliedGoals)
	}

	proj.HomeCleanSheetProb = CleanSheetProbability(proj.AwayXG)
	proj.AwayCleanSheetProb = CleanSheetProbability(proj.HomeXG)

	return proj
}
