package di

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/coindash/internal/config"
	"github.com/aristath/coindash/internal/events"
	"github.com/aristath/coindash/internal/modules/alerts"
	"github.com/aristath/coindash/internal/modules/portfolio"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DataDir:           dir,
		ExportDir:         dir + "/exports",
		StoreBackend:      backend,
		PriceFeedSchedule: "@every 3s",
		LogLevel:          "info",
		Port:              8001,
		ItemsPerPage:      10,
	}
}

func TestWire_Memory(t *testing.T) {
	container, jobs, err := Wire(testConfig(t, config.StoreBackendMemory), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	assert.Nil(t, container.KVDB)
	assert.NotNil(t, container.Store)
	assert.NotNil(t, container.MarketService)
	assert.NotNil(t, container.PortfolioService)
	assert.NotNil(t, container.AlertsService)
	assert.NotNil(t, container.ExportService)
	assert.Equal(t, 15, container.MarketTable.Len())

	assert.NotNil(t, jobs.PriceFeed)
	assert.Nil(t, jobs.CheckWALCheckpoints)
	assert.Nil(t, jobs.CheckDatabases)
	assert.ElementsMatch(t, []string{"price_feed"}, container.Scheduler.Jobs())
}

func TestWire_SQLiteRegistersMaintenanceJobs(t *testing.T) {
	container, jobs, err := Wire(testConfig(t, config.StoreBackendSQLite), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	require.NotNil(t, container.KVDB)
	assert.NotNil(t, jobs.CheckWALCheckpoints)
	assert.NotNil(t, jobs.CheckDatabases)
	assert.ElementsMatch(t,
		[]string{"price_feed", "check_wal_checkpoints", "check_databases"},
		container.Scheduler.Jobs(),
	)
	assert.NoError(t, container.Scheduler.RunNow(jobs.CheckDatabases))
}

func TestWire_PriceFeedDisabled(t *testing.T) {
	cfg := testConfig(t, config.StoreBackendMemory)
	cfg.PriceFeedSchedule = ""

	container, jobs, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	assert.Nil(t, jobs.PriceFeed)
	assert.Empty(t, container.Scheduler.Jobs())
}

func TestWire_InvalidSchedule(t *testing.T) {
	cfg := testConfig(t, config.StoreBackendMemory)
	cfg.PriceFeedSchedule = "not a schedule"

	_, _, err := Wire(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestWire_AlertsEvaluatedOncePerPriceUpdate(t *testing.T) {
	container, _, err := Wire(testConfig(t, config.StoreBackendMemory), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	assert.Equal(t, 1, container.EventBus.SubscriberCount(events.PriceUpdated))

	var fired int
	container.EventBus.Subscribe(events.AlertTriggered, func(*events.Event) { fired++ })

	_, err = container.AlertsService.Add("bitcoin", "BTC", alerts.Above, 100000)
	require.NoError(t, err)

	_, err = container.MarketService.SetPrice("bitcoin", 150000)
	require.NoError(t, err)
	_, err = container.MarketService.SetPrice("bitcoin", 160000)
	require.NoError(t, err)

	assert.Equal(t, 1, fired)
	require.Len(t, container.AlertsService.Triggered(), 1)
	assert.Empty(t, container.AlertsService.Active())
}

func TestWire_StateSurvivesRestart(t *testing.T) {
	cfg := testConfig(t, config.StoreBackendSQLite)

	first, _, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)

	_, err = first.PortfolioService.RecordTransaction("bitcoin", portfolio.KindBuy, 0.5, 40000, "2024-01-15")
	require.NoError(t, err)
	_, err = first.AlertsService.Add("ethereum", "ETH", alerts.Below, 1000)
	require.NoError(t, err)
	_, err = first.MarketService.ToggleFavorite("solana")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, _, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	pos, ok := second.PortfolioService.Position("bitcoin")
	require.True(t, ok)
	assert.InDelta(t, 0.5, pos.Quantity, 1e-9)
	assert.Len(t, second.AlertsService.All(), 1)
	assert.True(t, second.MarketService.IsFavorite("solana"))
}

func TestContainer_CloseIsIdempotentForMemory(t *testing.T) {
	c := &Container{}
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
