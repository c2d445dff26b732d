package engine

import "github.com/mwhitfield/fpl-projector/internal/snapshot"

const (
	recentBaselineGames = 5
	minRecentNinety     = 0.5 // floor on minutes/90 to stop tiny samples exploding
	minFormMultiplier   = 0.85
	maxFormMultiplier   = 1.2
)

// ComputeBaseline derives a player's season scoring anchors and a form
// multiplier from their season totals and match history (most recent
// first). All divisions are guarded; a player with no minutes gets zeros
// and a neutral form multiplier.
func ComputeBaseline(player snapshot.PlayerSeason, history []snapshot.MatchRecord) SeasonBaseline {
	baseline := SeasonBaseline{
		PlayerID:       player.PlayerID,
		TotalMinutes:   player.TotalMinutes,
		TotalPoints:    player.TotalPoints,
		FormMultiplier: 1.0,
	}

	for _, m := range history {
		if m.Minutes > 0 {
			baseline.GamesPlayed++
		}
	}

	if player.TotalMinutes > 0 {
		baseline.PointsPer90 = float64(player.TotalPoints) / float64(player.TotalMinutes) * 90
	}
	if baseline.GamesPlayed > 0 {
		baseline.PointsPerGame = float64(player.TotalPoints) / float64(baseline.GamesPlayed)
	}

	// Recent form over the last up to 5 played games.
	points, minutes, counted := 0, 0, 0
	for _, m := range history {
		if m.Minutes == 0 {
			continue
		}
		points += m.TotalPoints
		minutes += m.Minutes
		counted++
		if counted >= recentBaselineGames {
			break
		}
	}
	if counted > 0 {
		ninety := float64(minutes) / 90.0
		if ninety < minRecentNinety {
			ninety = minRecentNinety
		}
		baseline.RecentPointsPer90 = float64(points) / ninety
	}

	formRatio := 1.0
	if baseline.PointsPer90 > 0 {
		formRatio = baseline.RecentPointsPer90 / baseline.PointsPer90
	}
	baseline.FormMultiplier = clamp(minFormMultiplier+(formRatio-1)*0.15, minFormMultiplier, maxFormMultiplier)

	return baseline
}
