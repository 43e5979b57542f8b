// main.go
//
// Entry point for the hangman backend.
// Loads .env, configures logging, loads the word list, opens the
// SQLite database and applies migrations, then starts the HTTP server.

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wordgames/hangman-server/internal/httpserver"
	"github.com/wordgames/hangman-server/internal/store"
	"github.com/wordgames/hangman-server/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	words.Init()

	db, err := openDB(getEnv("DB_PATH", "./data/hangman.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, db)
	port := getEnv("PORT", "5176")
	log.Info().Str("port", port).Int("words", words.Stats()).Msg("starting hangman-server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
