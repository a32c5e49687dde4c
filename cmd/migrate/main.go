package main

import (
	"os"

	"github.com/joho/godotenv"

	"server/internal/database"
	"server/internal/infra"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	logger := infra.NewLogger(os.Getenv("APP_ENV"), "pos-migrate")
	if databaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	// Sanity check koneksi sebelum migrasi.
	db, err := database.Open(databaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	db.Close()

	if err := database.RunMigrations(databaseURL); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	logger.Info().Msg("migrations applied")
}
