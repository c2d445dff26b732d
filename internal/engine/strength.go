package engine

import (
	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/pkg/config"
)

const (
	minStrengthIndex = 0.6
	maxStrengthIndex = 1.6
)

// teamRates resolves a team's per-game scoring and conceding rates,
// preferring the advanced-stats source, then season stats, then the
// global default. Never fails: a team with zero data gets defaults.
func teamRates(team snapshot.TeamSeason, adv *snapshot.TeamAdvanced, p config.ModelParams) (xg, xga float64, source StrengthSource) {
	if adv != nil && adv.Matches > 0 {
		return finiteOr(adv.XGPerGame, p.DefaultGoalsRate),
			finiteOr(adv.XGAPerGame, p.DefaultGoalsRate),
			StrengthSourceAdvanced
	}
	if team.Played > 0 {
		return finiteOr(team.GoalsForPerGame, p.DefaultGoalsRate),
			finiteOr(team.GoalsAgainstPerGame, p.DefaultGoalsRate),
			StrengthSourceFallback
	}
	return p.DefaultGoalsRate, p.DefaultGoalsRate, StrengthSourceFallback
}

// BuildTeamStrength converts per-team scoring and conceding rates into
// normalized attack/defence indices against the cross-team average.
// Rebuilt once per data refresh; read-only thereafter.
func BuildTeamStrength(teams map[int]snapshot.TeamSeason, advanced map[int]snapshot.TeamAdvanced, p config.ModelParams) map[int]TeamStrengthProfile {
	profiles := make(map[int]TeamStrengthProfile, len(teams))
	if len(teams) == 0 {
		return profiles
	}

	type rates struct {
		xg, xga float64
		source  StrengthSource
	}
	resolved := make(map[int]rates, len(teams))
	sumXG, sumXGA := 0.0, 0.0
	for id, team := range teams {
		var adv *snapshot.TeamAdvanced
		if a, ok := advanced[id]; ok {
			adv = &a
		}
		xg, xga, source := teamRates(team, adv, p)
		resolved[id] = rates{xg: xg, xga: xga, source: source}
		sumXG += xg
		sumXGA += xga
	}

	leagueAvgXG := sumXG / float64(len(teams))
	leagueAvgXGA := sumXGA / float64(len(teams))
	if leagueAvgXG <= 0 {
		leagueAvgXG = p.DefaultGoalsRate
	}
	if leagueAvgXGA <= 0 {
		leagueAvgXGA = p.DefaultGoalsRate
	}

	for id, r := range resolved {
		attack := clamp(finiteOr(r.xg/leagueAvgXG, 1.0), minStrengthIndex, maxStrengthIndex)
		defence := 1.0
		if r.xga > 0 {
			defence = leagueAvgXGA / r.xga
		}
		profiles[id] = TeamStrengthProfile{
			TeamID:       id,
			AttackIndex:  attack,
			DefenceIndex: clamp(finiteOr(defence, 1.0), minStrengthIndex, maxStrengthIndex),
			XGPerGame:    r.xg,
			XGAPerGame:   r.xga,
			Source:       r.source,
		}
	}

	return profiles
}

// LeagueAverageGoals is the mean per-team goals-per-game across the
// built profiles, falling back to the configured league average.
func LeagueAverageGoals(profiles map[int]TeamStrengthProfile, p config.ModelParams) float64 {
	if len(profiles) == 0 {
		return p.LeagueAvgGoals
	}
	sum := 0.0
	for _, prof := range profiles {
		sum += prof.XGPerGame
	}
	avg := sum / float64(len(profiles))
	if avg <= 0 {
		return p.LeagueAvgGoals
	}
	return avg
}

// NeutralStrength is the profile used for a team with no built profile.
func NeutralStrength(teamID int, p config.ModelParams) TeamStrengthProfile {
	return TeamStrengthProfile{
		TeamID:       teamID,
		AttackIndex:  1.0,
		DefenceIndex: 1.0,
		XGPerGame:    p.DefaultGoalsRate,
		XGAPerGame:   p.DefaultGoalsRate,
		Source:       StrengthSourceFallback,
	}
}
