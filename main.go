// main.go
//
// Entry point for the Big Monte dice poker server.
//   - Loads .env (development) and parses the environment.
//   - Configures the global zerolog logger.
//   - Opens SQLite and applies the embedded migrations.
//   - Picks the session store (memory or sqlite) and serves HTTP until
//     SIGINT/SIGTERM.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bigmonte/internal/config"
	"github.com/robalobadob/bigmonte/internal/db"
	"github.com/robalobadob/bigmonte/internal/httpserver"
	"github.com/robalobadob/bigmonte/internal/names"
	"github.com/robalobadob/bigmonte/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load house rules")
	}
	if err := names.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load player names")
	}

	conn, err := db.OpenAndMigrate(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open database")
	}
	defer conn.Close()

	var st store.Store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		st = store.NewMemoryStore()
	default:
		st = store.NewSQLiteStore(conn, rules)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(cfg, rules, st, conn)
	log.Info().
		Str("port", cfg.Port).
		Str("store", cfg.StoreDriver).
		Int("names", names.Stats()).
		Msg("starting bigmonte server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("server stopped")
}
