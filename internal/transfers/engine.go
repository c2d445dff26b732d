package transfers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mwhitfield/fpl-projector/internal/engine"
	"github.com/mwhitfield/fpl-projector/internal/snapshot"
)

// Strategy selects how candidates are ranked.
type Strategy string

const (
	StrategyPoints       Strategy = "points"       // maximize total projected points
	StrategyValue        Strategy = "value"        // maximize points per unit cost
	StrategyConfidence   Strategy = "confidence"   // maximize projection reliability
	StrategyDifferential Strategy = "differential" // maximize ownership differential
)

const (
	maxPlayersPerClub = 3
	topRecommendations = 10
	candidatePoolPerPosition = 40

	// Reason thresholds: a tag is emitted only when the margin between
	// the incoming and outgoing player crosses the threshold.
	fixtureEaseThreshold     = 0.5
	minutesSecurityThreshold = 15.0
	momentumThreshold        = 0.15
	valueThreshold           = 0.3
	formTrendThreshold       = 0.05
	confidenceThreshold      = 10
)

// SquadPlayer identifies a held player and the price they would sell for.
type SquadPlayer struct {
	PlayerID int     `json:"player_id"`
	Cost     float64 `json:"cost"`
}

// Request describes one recommendation run.
type Request struct {
	Squad    []SquadPlayer `json:"squad"`
	Bank     float64       `json:"bank"`
	Horizon  int           `json:"horizon"`
	Strategy Strategy      `json:"strategy"`
}

// Recommendation is one suggested swap with its justification.
type Recommendation struct {
	PlayerOut       engine.PlayerProjection `json:"player_out"`
	PlayerIn        engine.PlayerProjection `json:"player_in"`
	NetGain         float64                 `json:"net_gain"`
	CostDelta       float64                 `json:"cost_delta"`
	BudgetAfter     float64                 `json:"budget_after"`
	Reasons         []string                `json:"reasons"`
	SquadTotalAfter float64                 `json:"squad_total_after"`
}

// Result is the full output of a recommendation run.
type Result struct {
	Best               *Recommendation  `json:"best,omitempty"`
	Top                []Recommendation `json:"top"`
	SquadBaselineTotal float64          `json:"squad_baseline_total"`
	AverageConfidence  float64          `json:"average_confidence"`
	Strategy           Strategy         `json:"strategy"`
}

// Engine scans a candidate pool for upgrades over a held squad.
type Engine struct {
	projector *engine.Engine
	logger    *logrus.Logger
}

func NewEngine(projector *engine.Engine, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{projector: projector, logger: logger}
}

// Recommend projects the squad and the candidate pool, then surfaces the
// best affordable, quota-respecting swaps under the active strategy.
func (t *Engine) Recommend(ctx *engine.Context, req Request) (*Result, error) {
	if len(req.Squad) == 0 {
		return nil, fmt.Errorf("squad is empty")
	}
	if req.Horizon <= 0 {
		req.Horizon = engine.DefaultHorizon
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = StrategyPoints
	}

	squadProj, squadIDs, clubCounts, err := t.projectSquad(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &Result{Strategy: strategy}
	confidenceSum := 0.0
	for _, p := range squadProj {
		result.SquadBaselineTotal += p.ExpectedPointsNext5
		confidenceSum += float64(p.Confidence.Score)
	}
	result.AverageConfidence = confidenceSum / float64(len(squadProj))

	pool := t.buildCandidatePool(ctx, squadIDs, strategy, req.Horizon)

	var recommendations []Recommendation
	for _, out := range squadProj {
		outCost := squadCost(req.Squad, out.PlayerID)
		budget := req.Bank + outCost

		for _, in := range pool[out.Position] {
			if in.Cost > budget {
				continue
			}
			if !clubQuotaAllows(clubCounts, out.TeamID, in.TeamID) {
				continue
			}

			netGain := in.ExpectedPointsNext5 - out.ExpectedPointsNext5
			reasons := buildReasons(out, in, outCost,
				ctx.StrengthFor(out.TeamID).AttackIndex,
				ctx.StrengthFor(in.TeamID).AttackIndex)
			if netGain <= 0 && len(reasons) < 3 {
				continue
			}

			recommendations = append(recommendations, Recommendation{
				PlayerOut:       out,
				PlayerIn:        in,
				NetGain:         netGain,
				CostDelta:       in.Cost - outCost,
				BudgetAfter:     budget - in.Cost,
				Reasons:         reasons,
				SquadTotalAfter: result.SquadBaselineTotal + netGain,
			})
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return strategyScore(recommendations[i].PlayerIn, strategy) >
			strategyScore(recommendations[j].PlayerIn, strategy)
	})

	if len(recommendations) > topRecommendations {
		recommendations = recommendations[:topRecommendations]
	}
	result.Top = recommendations
	if len(recommendations) > 0 {
		best := recommendations[0]
		result.Best = &best
	}

	return result, nil
}

// projectSquad projects every held player; an unknown id fails the run,
// since a squad the caller cannot name is a request error, not a data gap.
func (t *Engine) projectSquad(ctx *engine.Context, req Request) ([]engine.PlayerProjection, map[int]bool, map[int]int, error) {
	projections := make([]engine.PlayerProjection, 0, len(req.Squad))
	squadIDs := make(map[int]bool, len(req.Squad))
	clubCounts := make(map[int]int)

	for _, member := range req.Squad {
		proj, err := t.projector.ProjectPlayer(ctx, member.PlayerID, req.Horizon)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to project squad player %d: %w", member.PlayerID, err)
		}
		projections = append(projections, *proj)
		squadIDs[member.PlayerID] = true
		clubCounts[proj.TeamID]++
	}

	return projections, squadIDs, clubCounts, nil
}

// buildCandidatePool projects all non-squad players, grouped by position
// and sorted by the active strategy. Projections are independent and run
// in parallel.
func (t *Engine) buildCandidatePool(ctx *engine.Context, squadIDs map[int]bool, strategy Strategy, horizon int) map[snapshot.Position][]engine.PlayerProjection {
	candidateIDs := make([]int, 0, len(ctx.Snap.Players))
	for id := range ctx.Snap.Players {
		if !squadIDs[id] {
			candidateIDs = append(candidateIDs, id)
		}
	}
	sort.Ints(candidateIDs)

	projections := make([]*engine.PlayerProjection, len(candidateIDs))
	var wg sync.WaitGroup
	for i, id := range candidateIDs {
		wg.Add(1)
		go func(i, playerID int) {
			defer wg.Done()
			proj, err := t.projector.ProjectPlayer(ctx, playerID, horizon)
			if err != nil {
				t.logger.Warnf("Failed to project candidate %d: %v", playerID, err)
				return
			}
			projections[i] = proj
		}(i, id)
	}
	wg.Wait()

	pool := make(map[snapshot.Position][]engine.PlayerProjection)
	for _, proj := range projections {
		if proj != nil {
			pool[proj.Position] = append(pool[proj.Position], *proj)
		}
	}
	for pos := range pool {
		candidates := pool[pos]
		sort.SliceStable(candidates, func(i, j int) bool {
			return strategyScore(candidates[i], strategy) > strategyScore(candidates[j], strategy)
		})
		if len(candidates) > candidatePoolPerPosition {
			candidates = candidates[:candidatePoolPerPosition]
		}
		pool[pos] = candidates
	}

	return pool
}

// strategyScore ranks a candidate under the active strategy.
func strategyScore(p engine.PlayerProjection, strategy Strategy) float64 {
	switch strategy {
	case StrategyValue:
		if p.Cost <= 0 {
			return 0
		}
		return p.ExpectedPointsNext5 / p.Cost
	case StrategyConfidence:
		return float64(p.Confidence.Score)
	case StrategyDifferential:
		return p.ExpectedPointsNext5 * (1.5 - p.SelectedByPercent/100.0)
	default:
		return p.ExpectedPointsNext5
	}
}

// clubQuotaAllows checks the 3-per-club limit after swapping a player of
// outTeam for one of inTeam.
func clubQuotaAllows(clubCounts map[int]int, outTeam, inTeam int) bool {
	if outTeam == inTeam {
		return true
	}
	return clubCounts[inTeam]+1 <= maxPlayersPerClub
}

func squadCost(squad []SquadPlayer, playerID int) float64 {
	for _, s := range squad {
		if s.PlayerID == playerID {
			return s.Cost
		}
	}
	return 0
}

// buildReasons emits a tag per dimension where the incoming player beats
// the outgoing one by the fixed threshold.
func buildReasons(out, in engine.PlayerProjection, outCost, outAttackIndex, inAttackIndex float64) []string {
	var reasons []string

	if avgDifficulty(out.Fixtures)-avgDifficulty(in.Fixtures) >= fixtureEaseThreshold {
		reasons = append(reasons, "Easier upcoming fixtures")
	}
	if in.Minutes.ExpectedMinutes-out.Minutes.ExpectedMinutes >= minutesSecurityThreshold {
		reasons = append(reasons, "More secure minutes")
	}
	if inAttackIndex-outAttackIndex >= momentumThreshold {
		reasons = append(reasons, "Stronger team momentum")
	}
	if in.Baseline.FormMultiplier-out.Baseline.FormMultiplier >= formTrendThreshold {
		reasons = append(reasons, "Better recent form")
	}
	if in.Confidence.Score-out.Confidence.Score >= confidenceThreshold {
		reasons = append(reasons, "Higher projection confidence")
	}
	if outCost > 0 && in.Cost > 0 {
		if in.ExpectedPointsNext5/in.Cost-out.ExpectedPointsNext5/outCost >= valueThreshold {
			reasons = append(reasons, "Better value per cost")
		}
	}

	return reasons
}

func avgDifficulty(fixtures []engine.FixtureForecast) float64 {
	if len(fixtures) == 0 {
		return 3.0
	}
	sum := 0.0
	for _, f := range fixtures {
		sum += float64(f.Difficulty)
	}
	return sum / float64(len(fixtures))
}
