// Package app wires configuration, storage, cache and services together for
// the server and the CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/cache"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/config"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/database"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/repository"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/service"
)

// App holds the long-lived dependencies of a process.
type App struct {
	DB       *sql.DB
	Redis    *redis.Client
	Cache    *cache.HoldingsCache
	Services api.Services
}

// New opens the database, applies pending migrations when migrate is true,
// connects to Redis when configured and builds every service.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, migrate bool) (*App, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	a := &App{DB: db}

	if migrate {
		applied, err := database.Migrate(ctx, db)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		if applied > 0 {
			log.Info().Int("applied", applied).Msg("Database migrations applied")
		}
	}

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			// The cache is optional; run uncached rather than refuse to start.
			log.Warn().Err(err).Msg("Redis unreachable, holdings cache disabled")
			_ = a.Redis.Close()
			a.Redis = nil
		} else {
			a.Cache = cache.NewHoldingsCache(a.Redis, cfg.Redis.TTL, log)
		}
	}

	a.Services = buildServices(db, cfg, a.Cache, log)
	return a, nil
}

func buildServices(db *sql.DB, cfg *config.Config, holdingsCache *cache.HoldingsCache, log zerolog.Logger) api.Services {
	transactionRepo := repository.NewTransactionRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	defaults := model.Settings{
		PriceAutoRefreshIntervalMinutes: int(cfg.Holdings.RefreshInterval.Minutes()),
		BaseCurrency:                    cfg.Holdings.BaseCurrency,
	}
	settingsService := service.NewSettingsService(settingsRepo, defaults, holdingsCache, log)
	holdingsService := service.NewHoldingsService(
		transactionRepo,
		assetRepo,
		accountRepo,
		settingsService,
		log,
		service.WithHoldingsCache(holdingsCache),
		service.WithStrictTradeDisposals(cfg.Holdings.StrictTradeDisposals),
	)

	return api.Services{
		System: service.NewSystemService(db, map[string]bool{
			"cache":                  holdingsCache != nil,
			"snapshots":              cfg.Snapshot.Schedule != "",
			"metrics":                cfg.Metrics.Enabled,
			"strict_trade_disposals": cfg.Holdings.StrictTradeDisposals,
		}),
		Holdings:    holdingsService,
		Transaction: service.NewTransactionService(db, transactionRepo, assetRepo, accountRepo, holdingsCache, log),
		Asset:       service.NewAssetService(assetRepo, settingsService, holdingsCache, log),
		Account:     service.NewAccountService(accountRepo, holdingsCache, log),
		Snapshot:    service.NewSnapshotService(db, holdingsService, accountRepo, snapshotRepo, log),
		Settings:    settingsService,
	}
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
