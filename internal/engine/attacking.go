package engine

import (
	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/pkg/config"
)

const (
	minOpponentAdjustment = 0.75
	maxOpponentAdjustment = 1.35
	homeAttackModifier    = 1.08
	awayAttackModifier    = 0.92
	maxH2HBoost           = 1.15
	minH2HBoost           = 0.85
	fallbackMinXGI90      = 0.05
	fallbackMaxXGI90      = 0.85
)

// AttackingInputs carries everything the attacking model needs for one
// (player, fixture) pair.
type AttackingInputs struct {
	Player   snapshot.PlayerSeason
	Advanced *snapshot.PlayerAdvanced
	History  []snapshot.MatchRecord
	Baseline SeasonBaseline
	Minutes  MinutesEstimate
	Opponent TeamStrengthProfile
	IsHome   bool
	// Difficulty is the externally supplied 1 (easy) to 5 (hard) rating.
	Difficulty int
}

// xgiRate is a resolved per-90 goal-involvement rate with its goal share.
type xgiRate struct {
	per90     float64
	goalShare float64
	estimated bool
}

// xgiSource is one strategy in the priority-ordered source chain. The
// first source that applies wins.
type xgiSource struct {
	name    string
	resolve func(in AttackingInputs, p config.ModelParams) (xgiRate, bool)
}

func goalShare(xg, xa float64, p config.ModelParams) float64 {
	if xg+xa <= 0 {
		return p.DefaultGoalShare
	}
	return xg / (xg + xa)
}

// xgiSources is the fallback chain: measured advanced stats, then the
// player's native expected figures, then an index-based heuristic.
var xgiSources = []xgiSource{
	{
		name: "advanced-stats",
		resolve: func(in AttackingInputs, p config.ModelParams) (xgiRate, bool) {
			if in.Advanced == nil || in.Advanced.Minutes <= 0 {
				return xgiRate{}, false
			}
			per90 := finiteOr((in.Advanced.XG+in.Advanced.XA)/float64(in.Advanced.Minutes)*90, 0)
			return xgiRate{
				per90:     per90,
				goalShare: goalShare(in.Advanced.XG, in.Advanced.XA, p),
			}, true
		},
	},
	{
		name: "native-expected",
		resolve: func(in AttackingInputs, p config.ModelParams) (xgiRate, bool) {
			if in.Player.XGPer90 == nil && in.Player.XAPer90 == nil {
				return xgiRate{}, false
			}
			xg90, xa90 := 0.0, 0.0
			if in.Player.XGPer90 != nil {
				xg90 = finiteOr(*in.Player.XGPer90, 0)
			}
			if in.Player.XAPer90 != nil {
				xa90 = finiteOr(*in.Player.XAPer90, 0)
			}
			if xg90+xa90 <= 0 {
				return xgiRate{}, false
			}
			return xgiRate{
				per90:     xg90 + xa90,
				goalShare: goalShare(xg90, xa90, p),
				estimated: true,
			}, true
		},
	},
	{
		name: "index-fallback",
		resolve: func(in AttackingInputs, p config.ModelParams) (xgiRate, bool) {
			base := finiteOr(in.Player.ICTIndex, 0)/100.0*0.55 + in.Baseline.RecentPointsPer90*0.04
			return xgiRate{
				per90:     clamp(base, fallbackMinXGI90, fallbackMaxXGI90),
				goalShare: p.DefaultGoalShare,
				estimated: true,
			}, true
		},
	},
}

// difficultyMultiplier flattens output as the fixture difficulty rises
// from 1 (easy) to 5 (hard). Attacking positions are attenuated less:
// their output tracks the fixture more than a defender's does.
func difficultyMultiplier(difficulty int, position snapshot.Position) float64 {
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty > 5 {
		difficulty = 5
	}
	base := 1.15 - 0.075*float64(difficulty-1)
	attenuation := 0.6
	if position.IsAttacking() {
		attenuation = 0.9
	}
	return 1 + (base-1)*attenuation
}

// headToHeadBoost derives a bounded boost from the player's historical
// points-per-90 against this specific opponent. One prior meeting counts
// at half weight; zero meetings means no boost.
func headToHeadBoost(history []snapshot.MatchRecord, opponentID int, baseline SeasonBaseline, p config.ModelParams) float64 {
	if !p.H2HBoostEnabled || baseline.PointsPer90 <= 0 {
		return 1.0
	}
	points, minutes, meetings := 0, 0, 0
	for _, m := range history {
		if m.OpponentTeamID != opponentID || m.Minutes == 0 {
			continue
		}
		points += m.TotalPoints
		minutes += m.Minutes
		meetings++
	}
	if meetings == 0 {
		return 1.0
	}
	ninety := float64(minutes) / 90.0
	if ninety < minRecentNinety {
		ninety = minRecentNinety
	}
	pp90Versus := float64(points) / ninety
	boost := clamp(pp90Versus/baseline.PointsPer90, minH2HBoost, maxH2HBoost)
	if meetings < 2 {
		boost = 1 + (boost-1)*0.5
	}
	return boost
}

// ProjectAttacking estimates a player's goals and assists for one
// fixture. The per-90 rate comes from the first applicable source in the
// priority chain; fixture context then scales it.
func ProjectAttacking(in AttackingInputs, p config.ModelParams) AttackingOutput {
	var rate xgiRate
	for _, source := range xgiSources {
		if r, ok := source.resolve(in, p); ok {
			rate = r
			break
		}
	}

	opponentAdj := clamp(finiteOr(1/in.Opponent.DefenceIndex, 1.0), minOpponentAdjustment, maxOpponentAdjustment)
	minutesFactor := in.Minutes.ExpectedMinutes / 90.0
	homeAwayMod := awayAttackModifier
	if in.IsHome {
		homeAwayMod = homeAttackModifier
	}
	diffMult := difficultyMultiplier(in.Difficulty, in.Player.Position)
	h2h := headToHeadBoost(in.History, in.Opponent.TeamID, in.Baseline, p)

	xgi := rate.per90 * minutesFactor * opponentAdj * diffMult * homeAwayMod * h2h * in.Baseline.FormMultiplier

	return AttackingOutput{
		ExpectedGoals:                 xgi * rate.goalShare,
		ExpectedAssists:               xgi * (1 - rate.goalShare),
		ExpectedGoalInvolvementsPer90: rate.per90,
		IsEstimated:                   rate.estimated,
	}
}
