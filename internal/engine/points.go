package engine

import (
	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/pkg/config"
)

// positionValues is the game's fixed scoring table per position, plus a
// per-fixture ceiling that keeps single-fixture noise in check.
type positionValues struct {
	Goal       float64
	Assist     float64
	CleanSheet float64
	Ceiling    float64
}

func valuesFor(pos snapshot.Position) positionValues {
	switch pos {
	case snapshot.PositionGoalkeeper:
		return positionValues{Goal: 6, Assist: 3, CleanSheet: 4, Ceiling: 8}
	case snapshot.PositionDefender:
		return positionValues{Goal: 6, Assist: 3, CleanSheet: 4, Ceiling: 10}
	case snapshot.PositionMidfielder:
		return positionValues{Goal: 5, Assist: 3, CleanSheet: 1, Ceiling: 12}
	default: // forward
		return positionValues{Goal: 4, Assist: 3, CleanSheet: 0, Ceiling: 11}
	}
}

// appearancePoints interpolates smoothly between 1 point (any minutes)
// and 2 points (60+), using expected minutes as a partial-appearance
// probability rather than a hard threshold.
func appearancePoints(expectedMinutes float64) float64 {
	if expectedMinutes <= 0 {
		return 0
	}
	return 1 + clamp(expectedMinutes/60.0, 0, 1)
}

// fullHourProbability scales clean-sheet eligibility, which requires 60
// played minutes.
func fullHourProbability(expectedMinutes float64) float64 {
	return clamp((expectedMinutes-30)/60.0, 0, 1)
}

// MapPoints converts the per-fixture estimates into a position-scored
// points breakdown, anchored toward the season baseline so a single
// fixture cannot produce implausible totals.
func MapPoints(pos snapshot.Position, minutes MinutesEstimate, att AttackingOutput, cleanSheetProb float64, baseline SeasonBaseline, ict float64, p config.ModelParams) PointsBreakdown {
	values := valuesFor(pos)
	em := minutes.ExpectedMinutes

	breakdown := PointsBreakdown{
		AppearancePoints: appearancePoints(em),
		GoalPoints:       att.ExpectedGoals * values.Goal,
		AssistPoints:     att.ExpectedAssists * values.Assist,
	}

	if values.CleanSheet > 0 {
		breakdown.CleanSheetPoints = clamp(cleanSheetProb, 0, 1) * values.CleanSheet * fullHourProbability(em)
	}

	// Bonus estimated from per-game match influence, discounted.
	ictPerGame := 0.0
	if baseline.GamesPlayed > 0 {
		ictPerGame = finiteOr(ict, 0) / float64(baseline.GamesPlayed)
	}
	breakdown.BonusPoints = clamp(ictPerGame/10.0, 0, 2.5) * p.BonusDiscount * clamp(em/90.0, 0, 1)

	raw := breakdown.AppearancePoints + breakdown.GoalPoints + breakdown.AssistPoints +
		breakdown.CleanSheetPoints + breakdown.BonusPoints

	total := raw
	if em > 45 {
		// Blend toward the season anchor once a real appearance is likely.
		total = raw*p.BaselineBlendModel + baseline.PointsPerGame*p.BaselineBlendPPG
	}

	if em > 0 {
		total = clamp(total, 1, values.Ceiling)
	} else {
		total = 0
	}
	breakdown.Total = total

	return breakdown
}
