// Package di provides dependency injection type definitions.
//
// The Container holds every long lived dependency and is the single place
// main reaches into for services, handlers and the scheduler.
package di

import (
	"math/rand"

	"github.com/aristath/coindash/internal/database"
	"github.com/aristath/coindash/internal/events"
	"github.com/aristath/coindash/internal/kvstore"
	"github.com/aristath/coindash/internal/modules/alerts"
	"github.com/aristath/coindash/internal/modules/export"
	"github.com/aristath/coindash/internal/modules/market"
	"github.com/aristath/coindash/internal/modules/portfolio"
	"github.com/aristath/coindash/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	// KVDB is nil when the memory backend is selected
	KVDB  *database.DB
	Store kvstore.Store

	EventBus     *events.Bus
	EventManager *events.Manager

	MarketTable      *market.Table
	MarketService    *market.Service
	PriceFeed        *market.Feed
	PortfolioService *portfolio.Service
	AlertsService    *alerts.Service
	ExportSink       *export.FileSink
	ExportService    *export.Service

	Scheduler *scheduler.Scheduler

	// alertSubscription is the single PRICE_UPDATED subscription feeding the evaluator
	alertSubscription uint64
}

// JobInstances holds references to registered jobs for manual triggering
type JobInstances struct {
	PriceFeed           *scheduler.PriceFeedJob
	CheckWALCheckpoints *scheduler.CheckWALCheckpointsJob
	CheckDatabases      *scheduler.CheckDatabasesJob
}

// newRand returns an independent generator; *rand.Rand is not safe for concurrent use
func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Close releases the database handle. The scheduler must be stopped first.
func (c *Container) Close() error {
	if c.EventBus != nil && c.alertSubscription != 0 {
		c.EventBus.Unsubscribe(c.alertSubscription)
		c.alertSubscription = 0
	}
	if c.KVDB != nil {
		return c.KVDB.Close()
	}
	return nil
}
