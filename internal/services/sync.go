package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"

	"github.com/mwhitfield/fpl-projector/internal/models"
	"github.com/mwhitfield/fpl-projector/internal/providers"
	"github.com/mwhitfield/fpl-projector/pkg/database"
)

var positionNames = map[int]string{
	1: "GK",
	2: "DEF",
	3: "MID",
	4: "FWD",
}

// SyncService pulls season data from the fantasy API into the source
// schema. It is the collaborator boundary: its errors are retryable and
// never reach the projection engine.
type SyncService struct {
	client *providers.FantasyClient
	db     *database.DB
	logger *logrus.Logger
}

func NewSyncService(client *providers.FantasyClient, db *database.DB, logger *logrus.Logger) *SyncService {
	return &SyncService{client: client, db: db, logger: logger}
}

// SyncAll refreshes teams, players and fixtures, then player histories.
func (s *SyncService) SyncAll(ctx context.Context) error {
	if err := s.SyncBootstrap(ctx); err != nil {
		return err
	}
	if err := s.SyncFixtures(ctx); err != nil {
		return err
	}
	return s.SyncHistories(ctx)
}

// SyncBootstrap upserts teams and players from the bootstrap payload.
func (s *SyncService) SyncBootstrap(ctx context.Context) error {
	bootstrap, err := s.client.GetBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap sync: %w", err)
	}

	for _, t := range bootstrap.Teams {
		team := models.Team{
			ID:           t.ID,
			Name:         t.Name,
			ShortName:    t.ShortName,
			Played:       t.Played,
			GoalsFor:     t.GoalsFor,
			GoalsAgainst: t.GoalsAgainst,
		}
		if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&team).Error; err != nil {
			s.logger.Errorf("Failed to upsert team %d: %v", t.ID, err)
		}
	}

	for _, e := range bootstrap.Elements {
		player := models.Player{
			ID:                e.ID,
			Name:              e.WebName,
			Position:          positionNames[e.ElementType],
			TeamID:            e.Team,
			Cost:              float64(e.NowCost) / 10.0,
			TotalPoints:       e.TotalPoints,
			Minutes:           e.Minutes,
			Goals:             e.GoalsScored,
			Assists:           e.Assists,
			CleanSheets:       e.CleanSheets,
			Bonus:             e.Bonus,
			ICTIndex:          providers.ParseAPIFloat(e.ICTIndex),
			SelectedByPercent: providers.ParseAPIFloat(e.SelectedByPercent),
		}
		if e.ChanceOfPlayingNextRound != nil {
			avail := float64(*e.ChanceOfPlayingNextRound)
			player.Availability = &avail
		}
		if xg := providers.ParseAPIFloat(e.ExpectedGoalsPer90); xg > 0 {
			player.XGPer90 = &xg
		}
		if xa := providers.ParseAPIFloat(e.ExpectedAssistsPer90); xa > 0 {
			player.XAPer90 = &xa
		}
		if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&player).Error; err != nil {
			s.logger.Errorf("Failed to upsert player %d: %v", e.ID, err)
		}
	}

	s.logger.Infof("Synced %d teams and %d players", len(bootstrap.Teams), len(bootstrap.Elements))
	return nil
}

// SyncFixtures upserts the upcoming fixture list.
func (s *SyncService) SyncFixtures(ctx context.Context) error {
	fixtures, err := s.client.GetFixtures(ctx)
	if err != nil {
		return fmt.Errorf("fixture sync: %w", err)
	}

	count := 0
	for _, f := range fixtures {
		if f.Event == 0 {
			// Unscheduled fixture, no gameweek assigned yet.
			continue
		}
		fixture := models.Fixture{
			ID:             f.ID,
			Gameweek:       f.Event,
			HomeTeamID:     f.TeamH,
			AwayTeamID:     f.TeamA,
			HomeDifficulty: f.TeamHDifficulty,
			AwayDifficulty: f.TeamADifficulty,
			Finished:       f.Finished,
		}
		if t, err := time.Parse(time.RFC3339, f.KickoffTime); err == nil {
			fixture.KickoffTime = t
		}
		if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&fixture).Error; err != nil {
			s.logger.Errorf("Failed to upsert fixture %d: %v", f.ID, err)
			continue
		}
		count++
	}

	s.logger.Infof("Synced %d fixtures", count)
	return nil
}

// SyncHistories refreshes the per-match history of every known player.
// Individual failures are logged and skipped; the rest of the sync
// proceeds.
func (s *SyncService) SyncHistories(ctx context.Context) error {
	var players []models.Player
	if err := s.db.Find(&players).Error; err != nil {
		return fmt.Errorf("history sync: %w", err)
	}

	for _, player := range players {
		summary, err := s.client.GetElementSummary(ctx, player.ID)
		if err != nil {
			s.logger.Warnf("Skipping history for player %d: %v", player.ID, err)
			continue
		}

		if err := s.db.Where("player_id = ?", player.ID).Delete(&models.PlayerMatch{}).Error; err != nil {
			s.logger.Errorf("Failed to clear history for player %d: %v", player.ID, err)
			continue
		}
		for _, h := range summary.History {
			match := models.PlayerMatch{
				PlayerID:        player.ID,
				Round:           h.Round,
				Minutes:         h.Minutes,
				TotalPoints:     h.TotalPoints,
				OpponentTeamID:  h.OpponentTeam,
				WasHome:         h.WasHome,
				Goals:           h.GoalsScored,
				Assists:         h.Assists,
				CleanSheets:     h.CleanSheets,
				Bonus:           h.Bonus,
				ExpectedGoals:   providers.ParseAPIFloat(h.ExpectedGoals),
				ExpectedAssists: providers.ParseAPIFloat(h.ExpectedAssists),
			}
			if err := s.db.Create(&match).Error; err != nil {
				s.logger.Errorf("Failed to store match for player %d: %v", player.ID, err)
			}
		}
	}

	s.logger.Infof("Synced histories for %d players", len(players))
	return nil
}
