package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zarybnicky/baserow/internal/config"
	"github.com/zarybnicky/baserow/internal/db"
	"github.com/zarybnicky/baserow/internal/fields"
	"github.com/zarybnicky/baserow/internal/filter"
	"github.com/zarybnicky/baserow/internal/history"
	"github.com/zarybnicky/baserow/internal/rows"
	"github.com/zarybnicky/baserow/internal/store"
	"github.com/zarybnicky/baserow/internal/views"
)

// runtime wires the configured services together for a command run.
type runtime struct {
	cfg        *config.Config
	logger     *zap.Logger
	pool       *db.Pool
	fieldTypes *fields.Registry
	filters    *filter.Registry
	store      *store.Store
	views      *views.Handler
	rows       *rows.Handler
	history    *history.Store
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	pool, err := db.NewPool(ctx, cfg.ConnectionConfig())
	if err != nil {
		return nil, err
	}

	var historyStore *history.Store
	if cfg.History.Enabled {
		historyStore, err = history.NewStore(cfg.History)
		if err != nil {
			logger.Warn("query history disabled", zap.Error(err))
			historyStore = nil
		}
	}

	fieldTypes := fields.NewDefaultRegistry()
	filters := filter.NewDefaultRegistry()
	metaStore := store.NewStore(pool, fieldTypes, logger)

	return &runtime{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		fieldTypes: fieldTypes,
		filters:    filters,
		store:      metaStore,
		views:      views.NewHandler(metaStore, filters, fieldTypes, logger),
		rows:       rows.NewHandler(pool, fieldTypes, historyStore, logger),
		history:    historyStore,
	}, nil
}

func (rt *runtime) Close() {
	if rt.history != nil {
		_ = rt.history.Close()
	}
	rt.pool.Close()
	_ = rt.logger.Sync()
}

// queryContext bounds row reads and writes by the configured query timeout.
func (rt *runtime) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(rt.cfg.Query.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	var zapConfig zap.Config
	if cfg.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	return zapConfig.Build()
}
