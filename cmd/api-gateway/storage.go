package main

import (
	"context"
	"fmt"
	"log/slog"

	apiports "github.com/Basilalghandour/Bot-Project/internal/api-gateway/core/ports"
	"github.com/Basilalghandour/Bot-Project/internal/coordinator/eventlog"
	"github.com/Basilalghandour/Bot-Project/internal/coordinator/eventlog/sqllog"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/adapters/memory"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/adapters/sqlstore"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
	"github.com/Basilalghandour/Bot-Project/internal/pkg/cache"
	"github.com/Basilalghandour/Bot-Project/internal/pkg/config"
	"github.com/Basilalghandour/Bot-Project/internal/pkg/database"
)

type orderStore interface {
	ports.OrderRepository
	ports.BrandRepository
	ports.CustomerRepository
}

type storage struct {
	orders orderStore
	events eventlog.Repository
	health apiports.HealthChecker
	close  func() error
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig) (*storage, error) {
	if cfg.Driver == "memory" {
		return &storage{
			orders: memory.NewRepository(),
			events: eventlog.NewMemoryRepository(),
			close:  func() error { return nil },
		}, nil
	}

	dialect, err := database.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(dialect, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	if err := sqlstore.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	events, err := sqllog.New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &storage{
		orders: sqlstore.NewRepository(db),
		events: events,
		health: db.PingContext,
		close:  db.Close,
	}, nil
}

// newDeduper uses Redis when an address is configured so dedupe survives
// restarts and is shared between replicas.
func newDeduper(cfg config.Config, logger *slog.Logger) cache.Deduper {
	if cfg.Redis.Addr == "" {
		logger.Info("no redis configured, using in-process callback dedupe")
		return cache.NewMemoryCache(cfg.Telemetry.ServiceName)
	}
	return cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Telemetry.ServiceName)
}
