package engine

import (
	"math"

	"github.com/mwhitfield/fpl-projector/internal/snapshot"
)

const (
	minConfidence = 20
	maxConfidence = 100

	consistencyWindow = 6
)

// ConfidenceInputs carries the signals the scorer weighs.
type ConfidenceInputs struct {
	Baseline     SeasonBaseline
	Minutes      MinutesEstimate
	Availability *float64
	History      []snapshot.MatchRecord
	TeamStrength TeamStrengthProfile
}

// ScoreConfidence produces a 20-100 reliability score from five weighted
// factors plus small situational adjustments. Each factor is clamped
// independently before summing, and the total is clamped again, so even
// degenerate inputs (zero games, zero availability) stay in range.
func ScoreConfidence(in ConfidenceInputs) ConfidenceScore {
	var factors []ConfidenceFactor
	score := 0.0

	// Minutes security: 0-30.
	minutesScore := clamp(in.Minutes.AverageMinutes/90.0, 0, 1) * 30
	if in.Baseline.GamesPlayed == 0 {
		minutesScore = 0
	}
	score += minutesScore
	if minutesScore >= 25 {
		factors = append(factors, ConfidenceFactor{Text: "Nailed-on starter", Severity: "positive"})
	} else if minutesScore < 15 {
		factors = append(factors, ConfidenceFactor{Text: "Minutes are not secure", Severity: "negative"})
	}

	// Sample size: 0-25, saturating at 12 games.
	games := in.Baseline.GamesPlayed
	if games > 12 {
		games = 12
	}
	sampleScore := float64(games) / 12.0 * 25
	score += sampleScore
	if in.Baseline.GamesPlayed < 4 {
		factors = append(factors, ConfidenceFactor{Text: "Small sample of games this season", Severity: "negative"})
	}

	// Availability: 0-20 with a softened curve.
	avail := defaultAvailability
	if in.Availability != nil {
		avail = clamp(finiteOr(*in.Availability, defaultAvailability), 0, 100)
	}
	score += math.Pow(avail/100.0, 0.7) * 20
	if avail < 75 {
		factors = append(factors, ConfidenceFactor{Text: "Flagged with reduced availability", Severity: "negative"})
	}

	// Consistency: 0-15, inverse to the coefficient of variation of
	// recent point totals. Fewer than 3 samples defaults to the maximum.
	recent := recentPointTotals(in.History, consistencyWindow)
	consistencyScore := 15.0
	if len(recent) >= 3 {
		m := mean(recent)
		cv := 1.0
		if m > 0 {
			cv = stdDev(recent) / m
		}
		consistencyScore = clamp(15*(1-cv), 0, 15)
	}
	score += consistencyScore
	if consistencyScore >= 12 && len(recent) >= 3 {
		factors = append(factors, ConfidenceFactor{Text: "Consistent recent returns", Severity: "positive"})
	}

	// Form stability: 10 stable, 8 rising, 4 falling.
	formRatio := 1.0
	if in.Baseline.PointsPer90 > 0 {
		formRatio = in.Baseline.RecentPointsPer90 / in.Baseline.PointsPer90
	}
	switch {
	case formRatio >= 1.1:
		score += 8
		factors = append(factors, ConfidenceFactor{Text: "Form trending up", Severity: "positive"})
	case formRatio <= 0.9:
		score += 4
		factors = append(factors, ConfidenceFactor{Text: "Form trending down", Severity: "negative"})
	default:
		score += 10
	}

	// Situational adjustments.
	if in.TeamStrength.AttackIndex >= 1.25 {
		score += 3
		factors = append(factors, ConfidenceFactor{Text: "Strong team attacking momentum", Severity: "positive"})
	} else if in.TeamStrength.AttackIndex <= 0.8 {
		score -= 3
		factors = append(factors, ConfidenceFactor{Text: "Weak team momentum", Severity: "negative"})
	}

	if in.Minutes.IsReturningFromAbsence {
		if lastPlayedMinutes(in.History) >= 60 {
			score += 3
			factors = append(factors, ConfidenceFactor{Text: "Returned from absence and completed an hour", Severity: "positive"})
		} else {
			factors = append(factors, ConfidenceFactor{Text: "Recently returned from absence", Severity: "neutral"})
		}
	}

	if in.Baseline.TotalPoints >= 100 {
		score += 5
		factors = append(factors, ConfidenceFactor{Text: "Proven season output", Severity: "positive"})
	}

	final := int(math.Round(clamp(score, minConfidence, maxConfidence)))

	return ConfidenceScore{Score: final, Factors: factors}
}

// recentPointTotals collects point totals from the most recent played
// games, up to limit.
func recentPointTotals(history []snapshot.MatchRecord, limit int) []float64 {
	totals := make([]float64, 0, limit)
	for _, m := range history {
		if m.Minutes == 0 {
			continue
		}
		totals = append(totals, float64(m.TotalPoints))
		if len(totals) >= limit {
			break
		}
	}
	return totals
}

// lastPlayedMinutes returns the minutes of the most recent game with any
// playing time.
func lastPlayedMinutes(history []snapshot.MatchRecord) int {
	for _, m := range history {
		if m.Minutes > 0 {
			return m.Minutes
		}
	}
	return 0
}
