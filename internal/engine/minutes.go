package engine

import (
	"math"

	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/pkg/config"
)

const (
	defaultAvailability    = 90.0
	returningWindowGames   = 5
	returningMinZeroGames  = 2
	returningFitMinutes    = 60
	returningSampleMinutes = 45
	returningSampleCap     = 10
	returningDefaultAvg    = 75.0
	recencyWindowGames     = 8
)

// roleFactor maps average minutes to a playing-role multiplier via a
// monotonic step function.
func roleFactor(avgMinutes float64) float64 {
	switch {
	case avgMinutes >= 85:
		return 1.0
	case avgMinutes >= 70:
		return 0.92
	case avgMinutes >= 60:
		return 0.85
	case avgMinutes >= 45:
		return 0.78
	default:
		return 0.7
	}
}

// isReturningFromAbsence inspects the 5 most recent games: at least 2
// with zero minutes and at least one appearance of 60+ minutes marks a
// player coming back from injury or suspension.
func isReturningFromAbsence(history []snapshot.MatchRecord) bool {
	window := history
	if len(window) > returningWindowGames {
		window = window[:returningWindowGames]
	}
	zeros, played, fit := 0, 0, false
	for _, m := range window {
		if m.Minutes == 0 {
			zeros++
			continue
		}
		played++
		if m.Minutes >= returningFitMinutes {
			fit = true
		}
	}
	return zeros >= returningMinZeroGames && played >= 1 && fit
}

// EstimateMinutes projects a player's minutes for an upcoming fixture
// from their match history and reported availability. Never errors: a
// player with no history gets a documented default.
func EstimateMinutes(history []snapshot.MatchRecord, availability *float64, p config.ModelParams) MinutesEstimate {
	avail := defaultAvailability
	if availability != nil {
		avail = clamp(finiteOr(*availability, defaultAvailability), 0, 100)
	}

	if len(history) == 0 {
		var base float64
		switch {
		case avail >= 75:
			base = 70
		case avail >= 50:
			base = 45
		default:
			base = 20
		}
		return MinutesEstimate{
			ExpectedMinutes: clamp(base, 0, 90),
			RoleFactor:      roleFactor(base),
			AverageMinutes:  base,
		}
	}

	returning := isReturningFromAbsence(history)
	returningBoost := 1.0

	var avg float64
	if returning {
		// Average only over real appearances: the zero-minute games are
		// the absence, not the role.
		sum, count := 0.0, 0
		for _, m := range history {
			if m.Minutes >= returningSampleMinutes {
				sum += float64(m.Minutes)
				count++
				if count >= returningSampleCap {
					break
				}
			}
		}
		if count > 0 {
			avg = sum / float64(count)
		} else {
			avg = returningDefaultAvg
		}
		returningBoost = p.ReturningBoost
	} else {
		// Recency-weighted average over the last 8 games.
		window := history
		if len(window) > recencyWindowGames {
			window = window[:recencyWindowGames]
		}
		weightedSum, weightTotal := 0.0, 0.0
		for i, m := range window {
			w := 1.0 - 0.05*float64(i)
			weightedSum += float64(m.Minutes) * w
			weightTotal += w
		}
		if weightTotal > 0 {
			avg = weightedSum / weightTotal
		}
	}

	role := roleFactor(avg)
	availFactor := math.Sqrt(avail / 100.0)
	expected := clamp(avg*role*availFactor*returningBoost, 0, 90)

	return MinutesEstimate{
		ExpectedMinutes:        expected,
		RoleFactor:             role,
		AverageMinutes:         avg,
		IsReturningFromAbsence: returning,
	}
}
