// Package main is the entry point for coindash, a cryptocurrency dashboard
// backend: a simulated market listing with a live price feed, a personal
// transaction ledger with derived holdings, price alerts and data export.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/coindash/internal/config"
	"github.com/aristath/coindash/internal/di"
	alertshandlers "github.com/aristath/coindash/internal/modules/alerts/handlers"
	exporthandlers "github.com/aristath/coindash/internal/modules/export/handlers"
	markethandlers "github.com/aristath/coindash/internal/modules/market/handlers"
	portfoliohandlers "github.com/aristath/coindash/internal/modules/portfolio/handlers"
	"github.com/aristath/coindash/internal/server"
	"github.com/aristath/coindash/pkg/logger"
)

// main loads configuration, wires dependencies, starts the HTTP server and
// the scheduler, then waits for SIGINT or SIGTERM and shuts down in reverse.
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().
		Str("data_dir", cfg.DataDir).
		Str("store", cfg.StoreBackend).
		Msg("Starting coindash")

	container, _, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	srv := server.New(server.Config{
		Log:      log,
		EventBus: container.EventBus,
		Modules: []server.RouteRegistrar{
			markethandlers.NewHandler(container.MarketService, cfg.ItemsPerPage, log),
			portfoliohandlers.NewHandler(container.PortfolioService, log),
			alertshandlers.NewHandler(container.AlertsService, log),
			exporthandlers.NewHandler(container.ExportService, log),
		},
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	container.Scheduler.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// No price ticks or maintenance once shutdown starts
	container.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
