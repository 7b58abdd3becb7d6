package di

import (
	"fmt"
	"time"

	"github.com/aristath/coindash/internal/config"
	"github.com/aristath/coindash/internal/events"
	"github.com/aristath/coindash/internal/modules/alerts"
	"github.com/aristath/coindash/internal/modules/export"
	"github.com/aristath/coindash/internal/modules/market"
	"github.com/aristath/coindash/internal/modules/portfolio"
	"github.com/rs/zerolog"
)

// InitializeServices creates the event bus and every module service, then
// restores persisted state. A corrupt blob is logged and the module starts empty.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.Store == nil {
		return fmt.Errorf("container store must be initialized first")
	}

	container.EventBus = events.NewBus(log)
	container.EventManager = events.NewManager(container.EventBus, log)

	seed := time.Now().UnixNano()

	// Market: seeded listing, favorites, and a feed with its own generator
	container.MarketTable = market.NewTable(market.SeedAssets(newRand(seed)))
	container.MarketService = market.NewService(
		container.MarketTable,
		container.Store,
		container.EventManager,
		newRand(seed+1),
		log,
	)
	if err := container.MarketService.LoadFavorites(); err != nil {
		log.Error().Err(err).Msg("Failed to restore favorites, starting with none")
	}
	container.PriceFeed = market.NewFeed(container.MarketService, newRand(seed+2))

	// Portfolio values holdings against live market prices
	container.PortfolioService = portfolio.NewService(
		container.Store,
		container.EventManager,
		container.MarketService,
		log,
	)
	if err := container.PortfolioService.Load(); err != nil {
		log.Error().Err(err).Msg("Failed to restore portfolio, starting empty")
	}

	// Alerts
	container.AlertsService = alerts.NewService(container.Store, container.EventManager, log)
	if err := container.AlertsService.Load(); err != nil {
		log.Error().Err(err).Msg("Failed to restore alerts, starting empty")
	}
	container.alertSubscription = alerts.RegisterListeners(container.EventBus, container.AlertsService, log)

	// Export
	sink, err := export.NewFileSink(cfg.ExportDir, log)
	if err != nil {
		return fmt.Errorf("failed to create export sink: %w", err)
	}
	container.ExportSink = sink
	container.ExportService = export.NewService(
		container.MarketService,
		container.PortfolioService,
		container.AlertsService,
		sink,
		container.EventManager,
		log,
	)

	log.Info().
		Int("assets", container.MarketTable.Len()).
		Int("alerts", len(container.AlertsService.All())).
		Int("transactions", len(container.PortfolioService.AllTransactions())).
		Msg("Services initialized")

	return nil
}
