package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/config"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/database"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/game"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/moderation"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/server"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/utils"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration & Logger
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Mask descriptions
	catalog := utils.DefaultCatalog()
	if cfg.DescriptionsFile != "" {
		if catalog, err = utils.ReadCsvFile(cfg.DescriptionsFile); err != nil {
			return fmt.Errorf("load descriptions: %w", err)
		}
	}

	names, err := moderation.NewNameFilter(cfg.BannedNames, '*')
	if err != nil {
		return fmt.Errorf("build name filter: %w", err)
	}

	// 3. Round archive (optional)
	var (
		db      database.Service
		archive game.Archive
	)
	if cfg.DatabaseURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		db, err = database.New(connectCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			return err
		}
		defer func() {
			logger.Info().Msg("Closing database...")
			_ = db.Close()
		}()
		archive = db
	} else {
		logger.Warn().Msg("DATABASE_URL not set, round history is disabled")
	}

	// 4. Engine
	engine, err := game.NewEngine(game.Options{
		Catalog:        catalog,
		Names:          names,
		Archive:        archive,
		Defaults:       cfg.Settings(),
		ReconnectGrace: cfg.ReconnectGrace,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	// 5. HTTP server
	httpServer := server.NewServer(cfg.Addr(), server.New(engine, db, cfg.AllowedOrigins, cfg.SendBuffer, logger))

	errChan := make(chan error, 1)
	go func() {
		logger.Info().Str("address", httpServer.Addr).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info().Msg("Server exiting")
	return nil
}

func newLogger(cfg config.Config) zerolog.Logger {
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.LogPretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
