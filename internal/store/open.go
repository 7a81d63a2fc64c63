package store

import (
	"context"
	"fmt"

	"ledger/internal/config"
	"ledger/internal/db"

	"github.com/charmbracelet/log"
)

// Backend is what the ledger persists through.
type Backend interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// Open builds the backend named by cfg.StoreBackend. The returned close
// function releases any connection it opened and is never nil.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (Backend, func() error, error) {
	noop := func() error { return nil }
	switch cfg.StoreBackend {
	case config.BackendFile:
		logger.Info("using file store", "path", cfg.DataFile)
		return NewFileStore(cfg.DataFile), noop, nil
	case config.BackendMemory:
		logger.Warn("using in-memory store; state is lost on exit")
		return NewMemoryStore(), noop, nil
	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using postgres store", "ledger_key", cfg.LedgerKey)
		return NewPostgresStore(database, db.NewTxRunner(database, logger), cfg.LedgerKey), database.Close, nil
	case config.BackendDynamo:
		client, err := NewDynamoClient(ctx, cfg.AWSRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using dynamodb store", "table", cfg.DynamoTable, "ledger_key", cfg.LedgerKey)
		return NewDynamoStore(client, cfg.DynamoTable, cfg.LedgerKey), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
