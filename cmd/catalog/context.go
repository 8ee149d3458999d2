package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Clark-Hu/streamcatalog/internal/cache"
	"github.com/Clark-Hu/streamcatalog/internal/catalog"
	"github.com/Clark-Hu/streamcatalog/internal/config"
	"github.com/Clark-Hu/streamcatalog/internal/logging"
	"github.com/Clark-Hu/streamcatalog/internal/repository"
	"github.com/Clark-Hu/streamcatalog/internal/scoring"
	"github.com/Clark-Hu/streamcatalog/internal/store"
)

type commandContext struct {
	envFileFlag *string

	configOnce sync.Once
	config     config.Config
	logger     *slog.Logger
	configErr  error
}

func newCommandContext(envFileFlag *string) *commandContext {
	return &commandContext{envFileFlag: envFileFlag}
}

// ensureConfig loads the env file, the configuration and the logger once.
func (c *commandContext) ensureConfig() (config.Config, *slog.Logger, error) {
	c.configOnce.Do(func() {
		var path string
		if c.envFileFlag != nil {
			path = strings.TrimSpace(*c.envFileFlag)
		}
		if err := config.LoadFile(path); err != nil {
			c.configErr = err
			return
		}
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.logger, c.configErr
}

func storeOptions(cfg config.Config, logger *slog.Logger) store.Options {
	return store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		RetryDelay:             time.Duration(cfg.DBRetryDelaySecs) * time.Second,
		Logger:                 logger,
	}
}

// withStore connects to PostgreSQL, retrying until ctx ends, and runs fn.
func (c *commandContext) withStore(ctx context.Context, fn func(cfg config.Config, logger *slog.Logger, st *store.Store) error) error {
	cfg, logger, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Connect(ctx, cfg.DBURL, storeOptions(cfg, logger))
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, logger, st)
}

// newService assembles the catalog service over st. The returned cleanup
// releases the cache connection, if any.
func newService(ctx context.Context, cfg config.Config, logger *slog.Logger, st *store.Store) (*catalog.Service, func()) {
	repo := repository.New(st)
	deps := catalog.Deps{
		Movies:    repo.Movies,
		Platforms: repo.Platforms,
		Reviews:   repo.Reviews,
		Scores:    scoring.NewAggregator(repo.Movies, logger),
		Logger:    logger,
	}

	cleanup := func() {}
	if cfg.CacheEnabled() {
		views, err := cache.Connect(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      time.Duration(cfg.CacheTTLSecs) * time.Second,
		})
		if err != nil {
			logger.Warn("review view cache disabled", slog.Any("error", err))
		} else {
			deps.Cache = views
			cleanup = func() { _ = views.Close() }
		}
	}
	return catalog.NewService(deps), cleanup
}
