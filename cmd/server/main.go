package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jepargne/patrimoine-backend/internal/adapter/binance"
	"github.com/jepargne/patrimoine-backend/internal/adapter/exchangerate"
	"github.com/jepargne/patrimoine-backend/internal/adapter/repository/postgres"
	"github.com/jepargne/patrimoine-backend/internal/adapter/rest"
	"github.com/jepargne/patrimoine-backend/internal/config"
	"github.com/jepargne/patrimoine-backend/internal/scheduler"
	"github.com/jepargne/patrimoine-backend/internal/usecase/patrimony"
	"github.com/jepargne/patrimoine-backend/internal/usecase/pricing"
	"github.com/jepargne/patrimoine-backend/internal/usecase/recalc"
)

const batchTimeout = 5 * time.Minute

func main() {
	cfg := config.Load()
	logger := setupLogger(cfg)

	// 1. Database
	db, err := postgres.NewDB(cfg.ConnString(), postgres.PoolSettings{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetimeMins) * time.Minute,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// 2. Repositories
	profileRepo := postgres.NewProfileRepository(db)
	quoteRepo := postgres.NewQuoteRepository(db)

	// 3. Quote sources and price cache
	tickerSource := binance.NewClient(cfg.BinanceBaseURL)
	rateSource := exchangerate.NewClient(cfg.ExchangeRateBaseURL)
	priceCache := pricing.NewCache(quoteRepo, tickerSource, rateSource, logger)

	// 4. Use cases
	priceMaxAge := time.Duration(cfg.PriceMaxAgeMinutes) * time.Minute
	engine := patrimony.NewEngine(profileRepo, priceCache, priceMaxAge, logger)
	orchestrator := recalc.NewOrchestrator(profileRepo, priceCache, engine, priceMaxAge, logger)

	// 5. Periodic recalculation
	sched := scheduler.New(logger)
	job := scheduler.NewRecalculationJob(orchestrator, batchTimeout)
	if err := sched.AddJob(cfg.RefreshSchedule, job); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.RefreshSchedule).Msg("Invalid refresh schedule")
	}
	sched.Start()
	defer sched.Stop()

	// 6. HTTP server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := rest.NewServer(addr, profileRepo, orchestrator, cfg.APIToken, logger)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	waitForShutdown(server, logger)
}

// setupLogger configures the process-wide zerolog logger.
func setupLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.DevMode {
		return log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *rest.Server, logger zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	logger.Info().Msg("HTTP server stopped")
}
