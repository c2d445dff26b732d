package snapshot

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mwhitfield/fpl-projector/internal/models"
	"github.com/mwhitfield/fpl-projector/pkg/database"
)

// Loader builds a fresh snapshot from a data source.
type Loader interface {
	Load() (*Snapshot, error)
}

// DBLoader builds snapshots from the gorm-backed source-data schema.
type DBLoader struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewDBLoader(db *database.DB, logger *logrus.Logger) *DBLoader {
	return &DBLoader{db: db, logger: logger}
}

// Load reads the full source-data set and assembles an immutable snapshot.
// Optional sources (advanced stats, odds) loading nothing is normal; the
// engine degrades to its documented fallbacks.
func (l *DBLoader) Load() (*Snapshot, error) {
	snap := New()

	var teams []models.Team
	if err := l.db.Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	for _, t := range teams {
		season := TeamSeason{
			TeamID:      t.ID,
			Name:        t.Name,
			ShortName:   t.ShortName,
			Played:      t.Played,
			CleanSheets: t.CleanSheets,
		}
		if t.Played > 0 {
			season.GoalsForPerGame = float64(t.GoalsFor) / float64(t.Played)
			season.GoalsAgainstPerGame = float64(t.GoalsAgainst) / float64(t.Played)
		}
		snap.Teams[t.ID] = season
	}

	var teamAdv []models.TeamAdvancedStats
	if err := l.db.Find(&teamAdv).Error; err != nil {
		l.logger.Warnf("Advanced team stats unavailable: %v", err)
	}
	for _, a := range teamAdv {
		snap.TeamAdvanced[a.TeamID] = TeamAdvanced{
			TeamID:     a.TeamID,
			Matches:    a.Matches,
			XGPerGame:  a.XGPerGame,
			XGAPerGame: a.XGAPerGame,
		}
	}

	var players []models.Player
	if err := l.db.Find(&players).Error; err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	for _, p := range players {
		snap.Players[p.ID] = PlayerSeason{
			PlayerID:          p.ID,
			Name:              p.Name,
			Position:          Position(p.Position),
			TeamID:            p.TeamID,
			Cost:              p.Cost,
			TotalPoints:       p.TotalPoints,
			TotalMinutes:      p.Minutes,
			Goals:             p.Goals,
			Assists:           p.Assists,
			CleanSheets:       p.CleanSheets,
			Bonus:             p.Bonus,
			Availability:      p.Availability,
			ICTIndex:          p.ICTIndex,
			SelectedByPercent: p.SelectedByPercent,
			XGPer90:           p.XGPer90,
			XAPer90:           p.XAPer90,
		}
	}

	var playerAdv []models.PlayerAdvancedStats
	if err := l.db.Find(&playerAdv).Error; err != nil {
		l.logger.Warnf("Advanced player stats unavailable: %v", err)
	}
	for _, a := range playerAdv {
		snap.PlayerAdvanced[a.PlayerID] = PlayerAdvanced{
			PlayerID:   a.PlayerID,
			Minutes:    a.Minutes,
			XG:         a.XG,
			XA:         a.XA,
			Shots:      a.Shots,
			BigChances: a.BigChances,
		}
	}

	var matches []models.PlayerMatch
	if err := l.db.Order("player_id, round desc").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to load match history: %w", err)
	}
	for _, m := range matches {
		snap.History[m.PlayerID] = append(snap.History[m.PlayerID], MatchRecord{
			Round:           m.Round,
			Minutes:         m.Minutes,
			TotalPoints:     m.TotalPoints,
			OpponentTeamID:  m.OpponentTeamID,
			WasHome:         m.WasHome,
			Goals:           m.Goals,
			Assists:         m.Assists,
			CleanSheets:     m.CleanSheets,
			Bonus:           m.Bonus,
			ExpectedGoals:   m.ExpectedGoals,
			ExpectedAssists: m.ExpectedAssists,
		})
	}

	var fixtures []models.Fixture
	if err := l.db.Where("finished = ?", false).Order("gameweek, id").Find(&fixtures).Error; err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}
	for _, f := range fixtures {
		snap.Fixtures = append(snap.Fixtures, Fixture{
			FixtureID:      f.ID,
			Gameweek:       f.Gameweek,
			HomeTeamID:     f.HomeTeamID,
			AwayTeamID:     f.AwayTeamID,
			HomeDifficulty: f.HomeDifficulty,
			AwayDifficulty: f.AwayDifficulty,
		})
	}

	var odds []models.FixtureOdds
	if err := l.db.Find(&odds).Error; err != nil {
		l.logger.Warnf("Fixture odds unavailable: %v", err)
	}
	for _, o := range odds {
		snap.Odds[o.FixtureID] = OddsGoals{
			FixtureID:   o.FixtureID,
			HomeXG:      o.HomeXG,
			AwayXG:      o.AwayXG,
			IsEstimated: o.IsEstimated,
		}
	}

	snap.sortFixtures()
	snap.sortHistory()

	l.logger.Infof("Snapshot built: %d teams, %d players, %d fixtures, %d odds records",
		len(snap.Teams), len(snap.Players), len(snap.Fixtures), len(snap.Odds))

	return snap, nil
}
