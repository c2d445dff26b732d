package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/pkg/config"
)

// horizonWeights is the fixed descending weight sequence applied over an
// upcoming-fixture horizon, repeating as needed.
var horizonWeights = []float64{1.0, 0.95, 0.9, 0.85, 0.8}

const (
	// DefaultHorizon is the number of upcoming fixtures projected when
	// the caller does not specify one.
	DefaultHorizon = 5

	defaultRecentStdDev = 2.5
	minVarianceFactor   = 0.1
	maxVarianceFactor   = 0.3

	keyPlayerCount = 5
)

// Engine computes projections. It holds no mutable state: every call
// reads an immutable Context and returns a fresh result, so concurrent
// projections are independent.
type Engine struct {
	params config.ModelParams
	logger *logrus.Logger
}

func New(params config.ModelParams, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{params: params, logger: logger}
}

// Context pairs a snapshot with the strength indices derived from it.
// Built once per snapshot publish and shared read-only by all requests.
type Context struct {
	Snap           *snapshot.Snapshot
	Strength       map[int]TeamStrengthProfile
	LeagueAvgGoals float64

	params config.ModelParams
}

// NewContext derives team strength and league averages for a snapshot.
func (e *Engine) NewContext(snap *snapshot.Snapshot) *Context {
	strength := BuildTeamStrength(snap.Teams, snap.TeamAdvanced, e.params)
	return &Context{
		Snap:           snap,
		Strength:       strength,
		LeagueAvgGoals: LeagueAverageGoals(strength, e.params),
		params:         e.params,
	}
}

// StrengthFor returns the team's strength profile, or a neutral profile
// when the team has no built one.
func (c *Context) StrengthFor(teamID int) TeamStrengthProfile {
	if prof, ok := c.Strength[teamID]; ok {
		return prof
	}
	return NeutralStrength(teamID, c.params)
}

// ProjectFixtureByID derives implied goals and clean-sheet probabilities
// for a known upcoming fixture.
func (e *Engine) ProjectFixtureByID(ctx *Context, fixtureID int) (*FixtureProjection, error) {
	fix, ok := ctx.Snap.FixtureByID(fixtureID)
	if !ok {
		return nil, fmt.Errorf("fixture %d not found", fixtureID)
	}
	proj := ProjectFixture(fix,
		ctx.StrengthFor(fix.HomeTeamID),
		ctx.StrengthFor(fix.AwayTeamID),
		ctx.Snap.OddsFor(fix.FixtureID),
		ctx.LeagueAvgGoals, e.params)
	return &proj, nil
}

// ProjectPlayer builds a player's projection over the next horizon
// fixtures. Missing optional sources degrade to fallbacks and flag the
// result estimated; only an unknown player id is an error.
func (e *Engine) ProjectPlayer(ctx *Context, playerID int, horizon int) (*PlayerProjection, error) {
	player, ok := ctx.Snap.Players[playerID]
	if !ok {
		return nil, fmt.Errorf("player %d not found", playerID)
	}
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	history := ctx.Snap.HistoryFor(playerID)
	baseline := ComputeBaseline(player, history)
	minutes := EstimateMinutes(history, player.Availability, e.params)

	var advanced *snapshot.PlayerAdvanced
	if adv, ok := ctx.Snap.PlayerAdvanced[playerID]; ok {
		advanced = &adv
	}

	proj := &PlayerProjection{
		PlayerID:          player.PlayerID,
		Name:              player.Name,
		Position:          player.Position,
		TeamID:            player.TeamID,
		Cost:              player.Cost,
		SelectedByPercent: player.SelectedByPercent,
		Baseline:          baseline,
		Minutes:           minutes,
		AdvancedStats:     advanced,
		IsEstimated:       len(history) == 0,
	}

	fixtures := ctx.Snap.UpcomingFixturesFor(player.TeamID, horizon)
	for _, fix := range fixtures {
		forecast := e.forecastFixture(ctx, player, advanced, history, baseline, minutes, fix)
		if forecast.Estimated {
			proj.IsEstimated = true
		}
		proj.Fixtures = append(proj.Fixtures, forecast)
	}

	for i, f := range proj.Fixtures {
		w := horizonWeights[i%len(horizonWeights)]
		if i == 0 {
			proj.ExpectedPointsNextFixture = f.ExpectedPoints
		}
		if i < 3 {
			proj.ExpectedPointsNext3 += f.ExpectedPoints * w
		}
		if i < 5 {
			proj.ExpectedPointsNext5 += f.ExpectedPoints * w
		}
	}

	// Confidence band from the spread of recent full-ish appearances.
	variance := varianceFactor(history)
	proj.ConfidenceLow = proj.ExpectedPointsNext5 * (1 - variance)
	proj.ConfidenceHigh = proj.ExpectedPointsNext5 * (1 + variance)

	proj.Confidence = ScoreConfidence(ConfidenceInputs{
		Baseline:     baseline,
		Minutes:      minutes,
		Availability: player.Availability,
		History:      history,
		TeamStrength: ctx.StrengthFor(player.TeamID),
	})

	return proj, nil
}

// forecastFixture projects one (player, fixture) pair.
func (e *Engine) forecastFixture(ctx *Context, player snapshot.PlayerSeason, advanced *snapshot.PlayerAdvanced, history []snapshot.MatchRecord, baseline SeasonBaseline, minutes MinutesEstimate, fix snapshot.Fixture) FixtureForecast {
	isHome := fix.HomeTeamID == player.TeamID
	opponentID := fix.HomeTeamID
	difficulty := fix.AwayDifficulty
	if isHome {
		opponentID = fix.AwayTeamID
		difficulty = fix.HomeDifficulty
	}

	fixtureProj := ProjectFixture(fix,
		ctx.StrengthFor(fix.HomeTeamID),
		ctx.StrengthFor(fix.AwayTeamID),
		ctx.Snap.OddsFor(fix.FixtureID),
		ctx.LeagueAvgGoals, e.params)

	csProb := fixtureProj.AwayCleanSheetProb
	if isHome {
		csProb = fixtureProj.HomeCleanSheetProb
	}

	attacking := ProjectAttacking(AttackingInputs{
		Player:     player,
		Advanced:   advanced,
		History:    history,
		Baseline:   baseline,
		Minutes:    minutes,
		Opponent:   ctx.StrengthFor(opponentID),
		IsHome:     isHome,
		Difficulty: difficulty,
	}, e.params)

	breakdown := MapPoints(player.Position, minutes, attacking, csProb, baseline, player.ICTIndex, e.params)

	return FixtureForecast{
		FixtureID:       fix.FixtureID,
		Gameweek:        fix.Gameweek,
		OpponentTeamID:  opponentID,
		IsHome:          isHome,
		Difficulty:      difficulty,
		ExpectedMinutes: minutes.ExpectedMinutes,
		ExpectedGoals:   attacking.ExpectedGoals,
		ExpectedAssists: attacking.ExpectedAssists,
		CleanSheetProb:  csProb,
		ExpectedPoints:  breakdown.Total,
		Breakdown:       breakdown,
		Estimated:       attacking.IsEstimated || fixtureProj.Estimated,
	}
}

// ProjectTeam builds the aggregate outlook for a team: implied goals for
// its upcoming run plus projections for its key players. Player
// projections are independent and computed in parallel.
func (e *Engine) ProjectTeam(ctx *Context, teamID int, horizon int) (*TeamOutlook, error) {
	team, ok := ctx.Snap.Teams[teamID]
	if !ok {
		return nil, fmt.Errorf("team %d not found", teamID)
	}
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	outlook := &TeamOutlook{
		TeamID:   teamID,
		Name:     team.Name,
		Strength: ctx.StrengthFor(teamID),
	}

	csSum := 0.0
	for _, fix := range ctx.Snap.UpcomingFixturesFor(teamID, horizon) {
		proj := ProjectFixture(fix,
			ctx.StrengthFor(fix.HomeTeamID),
			ctx.StrengthFor(fix.AwayTeamID),
			ctx.Snap.OddsFor(fix.FixtureID),
			ctx.LeagueAvgGoals, e.params)
		outlook.Fixtures = append(outlook.Fixtures, proj)
		if fix.HomeTeamID == teamID {
			csSum += proj.HomeCleanSheetProb
		} else {
			csSum += proj.AwayCleanSheetProb
		}
	}
	if len(outlook.Fixtures) > 0 {
		outlook.AvgCleanSheetProb = csSum / float64(len(outlook.Fixtures))
	}

	players := ctx.Snap.PlayersOfTeam(teamID)
	projections := make([]*PlayerProjection, len(players))
	var wg sync.WaitGroup
	for i, p := range players {
		wg.Add(1)
		go func(i, playerID int) {
			defer wg.Done()
			proj, err := e.ProjectPlayer(ctx, playerID, horizon)
			if err != nil {
				e.logger.Warnf("Failed to project player %d: %v", playerID, err)
				return
			}
			projections[i] = proj
		}(i, p.PlayerID)
	}
	wg.Wait()

	ranked := make([]PlayerProjection, 0, len(projections))
	for _, proj := range projections {
		if proj != nil {
			ranked = append(ranked, *proj)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].ExpectedPointsNext5 > ranked[j].ExpectedPointsNext5
	})
	if len(ranked) > keyPlayerCount {
		ranked = ranked[:keyPlayerCount]
	}
	outlook.KeyPlayers = ranked
	for _, kp := range ranked {
		outlook.TotalExpectedPoints += kp.ExpectedPointsNextFixture
	}

	return outlook, nil
}

// varianceFactor maps the spread of recent meaningful appearances into a
// bounded symmetric band factor.
func varianceFactor(history []snapshot.MatchRecord) float64 {
	totals := make([]float64, 0, 10)
	for _, m := range history {
		if m.Minutes < 30 {
			continue
		}
		totals = append(totals, float64(m.TotalPoints))
		if len(totals) >= 10 {
			break
		}
	}
	sd := defaultRecentStdDev
	if len(totals) >= 3 {
		sd = stdDev(totals)
	}
	return clamp(sd*0.05, minVarianceFactor, maxVarianceFactor)
}
