package server

import (
	"context"
	"fmt"

	"github.com/hongminglow/flix-be/internal/config"
	"github.com/hongminglow/flix-be/internal/storage"
	"github.com/hongminglow/flix-be/internal/storage/memory"
	"github.com/hongminglow/flix-be/internal/storage/mongodb"
	"github.com/hongminglow/flix-be/internal/storage/postgres"
)

// OpenStore connects to the backend selected by cfg.DatabaseURL.
func OpenStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, err
	}
	switch driver {
	case config.DriverPostgres:
		store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverMongo:
		store, err := mongodb.NewStore(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
