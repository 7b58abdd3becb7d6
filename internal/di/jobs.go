package di

import (
	"fmt"

	"github.com/aristath/coindash/internal/config"
	"github.com/aristath/coindash/internal/scheduler"
	"github.com/rs/zerolog"
)

const (
	walCheckpointSchedule = "@every 10m"
	checkDatabaseSchedule = "@daily"
)

// RegisterJobs creates the scheduler and registers the background jobs.
// An empty PriceFeedSchedule disables the simulated feed.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	instances := &JobInstances{}
	container.Scheduler = scheduler.New(log)

	if cfg.PriceFeedSchedule != "" {
		instances.PriceFeed = scheduler.NewPriceFeedJob(container.PriceFeed, container.MarketService, log)
		if err := container.Scheduler.AddJob(cfg.PriceFeedSchedule, instances.PriceFeed); err != nil {
			return nil, fmt.Errorf("failed to register price feed job: %w", err)
		}
	} else {
		log.Info().Msg("Price feed disabled")
	}

	// Maintenance jobs only make sense for the SQLite backend
	if container.KVDB != nil {
		instances.CheckWALCheckpoints = scheduler.NewCheckWALCheckpointsJob(container.KVDB)
		instances.CheckWALCheckpoints.SetLogger(log.With().Str("job", "check_wal_checkpoints").Logger())
		if err := container.Scheduler.AddJob(walCheckpointSchedule, instances.CheckWALCheckpoints); err != nil {
			return nil, fmt.Errorf("failed to register WAL checkpoint job: %w", err)
		}

		instances.CheckDatabases = scheduler.NewCheckDatabasesJob(container.KVDB)
		instances.CheckDatabases.SetLogger(log.With().Str("job", "check_databases").Logger())
		if err := container.Scheduler.AddJob(checkDatabaseSchedule, instances.CheckDatabases); err != nil {
			return nil, fmt.Errorf("failed to register database check job: %w", err)
		}
	}

	return instances, nil
}
