// Package main is the entry point for the expense ledger tool server.
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

	"gitlab.com/yelinaung/expense-ledger/internal/config"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/export"
	"gitlab.com/yelinaung/expense-ledger/internal/logger"
	"gitlab.com/yelinaung/expense-ledger/internal/report"
	"gitlab.com/yelinaung/expense-ledger/internal/repository"
	"gitlab.com/yelinaung/expense-ledger/internal/tools"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("expense-ledger %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)

	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.MaxConns)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Schema setup is fatal on failure: an unreachable store or missing
	// privileges is a deployment problem, not a transient condition.
	if err := database.RunMigrations(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Log.Info().Msg("Database initialized successfully")

	ledger := repository.NewLedgerRepository(pool, repository.Options{
		QueryTimeout:        cfg.QueryTimeout,
		DisallowFutureDates: cfg.DisallowFutureDates,
	})
	engine := report.NewEngine(pool, report.Options{QueryTimeout: cfg.QueryTimeout})
	formatter := export.NewFormatter(ledger)
	registry := tools.NewRegistry(ledger, engine, formatter, pool, cfg.TopCategoriesLimit)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           registry.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
		cancel()
	}()

	logger.Log.Info().Str("addr", cfg.ListenAddr).Msg("Tool server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal().Err(err).Msg("Server failed")
	}
}
