package di

import (
	"fmt"
	"path/filepath"

	"github.com/aristath/coindash/internal/config"
	"github.com/aristath/coindash/internal/database"
	"github.com/aristath/coindash/internal/kvstore"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens the key-value store selected by cfg.StoreBackend
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	if cfg.StoreBackend == config.StoreBackendMemory {
		container.Store = kvstore.NewMemoryStore()
		log.Warn().Msg("Using in-memory store, state is lost on restart")
		return container, nil
	}

	// kv.db - portfolio ledger, alerts and favorites blobs
	kvDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "kv.db"),
		Profile: database.ProfileStandard,
		Name:    "kv",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize kv database: %w", err)
	}

	if err := kvDB.Migrate(); err != nil {
		kvDB.Close()
		return nil, fmt.Errorf("failed to migrate kv database: %w", err)
	}

	container.KVDB = kvDB
	container.Store = kvstore.NewSQLiteStore(kvDB.Conn(), log)

	log.Info().Str("path", kvDB.Path()).Msg("Key-value database initialized")
	return container, nil
}
