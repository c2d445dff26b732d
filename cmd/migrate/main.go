package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mwhitfield/fpl-projector/internal/models"
	"github.com/mwhitfield/fpl-projector/pkg/config"
	"github.com/mwhitfield/fpl-projector/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(
		&models.Team{},
		&models.TeamAdvancedStats{},
		&models.Player{},
		&models.PlayerAdvancedStats{},
		&models.PlayerMatch{},
		&models.Fixture{},
		&models.FixtureOdds{},
		&models.RecommendationLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []interface{}{
		&models.RecommendationLog{},
		&models.FixtureOdds{},
		&models.Fixture{},
		&models.PlayerMatch{},
		&models.PlayerAdvancedStats{},
		&models.Player{},
		&models.TeamAdvancedStats{},
		&models.Team{},
	}

	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}

	return nil
}

// seedData inserts a small league for local development: two clubs,
// a handful of players with history, and their next fixtures.
func seedData(db *database.DB) error {
	if err := runMigrations(db); err != nil {
		return err
	}

	teams := []models.Team{
		{ID: 1, Name: "Arsenal", ShortName: "ARS", Played: 10, GoalsFor: 22, GoalsAgainst: 8},
		{ID: 2, Name: "Brentford", ShortName: "BRE", Played: 10, GoalsFor: 11, GoalsAgainst: 16},
	}
	for _, team := range teams {
		if err := db.Create(&team).Error; err != nil {
			return fmt.Errorf("failed to seed team %s: %w", team.ShortName, err)
		}
	}

	teamStats := []models.TeamAdvancedStats{
		{TeamID: 1, Matches: 10, XGPerGame: 2.1, XGAPerGame: 0.9, Source: "understat"},
		{TeamID: 2, Matches: 10, XGPerGame: 1.1, XGAPerGame: 1.6, Source: "understat"},
	}
	for _, stats := range teamStats {
		if err := db.Create(&stats).Error; err != nil {
			return fmt.Errorf("failed to seed team stats: %w", err)
		}
	}

	avail := 100.0
	players := []models.Player{
		{ID: 1, Name: "Saka", Position: "MID", TeamID: 1, Cost: 10.0, TotalPoints: 62, Minutes: 880, Goals: 5, Assists: 6, Bonus: 9, ICTIndex: 112.4, SelectedByPercent: 44.8, Availability: &avail},
		{ID: 2, Name: "Raya", Position: "GK", TeamID: 1, Cost: 5.5, TotalPoints: 44, Minutes: 900, CleanSheets: 6, Bonus: 4, ICTIndex: 38.2, SelectedByPercent: 21.3, Availability: &avail},
		{ID: 3, Name: "Wissa", Position: "FWD", TeamID: 2, Cost: 6.2, TotalPoints: 48, Minutes: 810, Goals: 7, Assists: 1, Bonus: 7, ICTIndex: 84.0, SelectedByPercent: 12.6, Availability: &avail},
	}
	for _, player := range players {
		if err := db.Create(&player).Error; err != nil {
			return fmt.Errorf("failed to seed player %s: %w", player.Name, err)
		}
	}

	for playerID := 1; playerID <= 3; playerID++ {
		for round := 6; round <= 10; round++ {
			match := models.PlayerMatch{
				PlayerID:       playerID,
				Round:          round,
				Minutes:        90,
				TotalPoints:    2 + playerID + round%4,
				OpponentTeamID: 3 - playerID%2,
				WasHome:        round%2 == 0,
			}
			if err := db.Create(&match).Error; err != nil {
				return fmt.Errorf("failed to seed match history: %w", err)
			}
		}
	}

	kickoff := time.Now().Add(48 * time.Hour).UTC()
	fixtures := []models.Fixture{
		{ID: 101, Gameweek: 11, HomeTeamID: 1, AwayTeamID: 2, HomeDifficulty: 2, AwayDifficulty: 4, KickoffTime: kickoff},
		{ID: 102, Gameweek: 12, HomeTeamID: 2, AwayTeamID: 1, HomeDifficulty: 4, AwayDifficulty: 2, KickoffTime: kickoff.Add(7 * 24 * time.Hour)},
	}
	for _, fixture := range fixtures {
		if err := db.Create(&fixture).Error; err != nil {
			return fmt.Errorf("failed to seed fixture %d: %w", fixture.ID, err)
		}
	}

	return nil
}
