package cmd

import (
	"fmt"

	"procdiff/core/config"
	"procdiff/core/database"
	"procdiff/core/logger"
	"procdiff/core/reconcile"
	"procdiff/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env is what every command needs: configuration, logger, storage and the optional database.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	store  storage.Client
	db     *gorm.DB
	schema reconcile.Schema
}

func bootstrap() (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	schema, err := cfg.Compare.Schema()
	if err != nil {
		return nil, err
	}

	// Minio connects lazily, so this only fails on a malformed endpoint
	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	e := &env{cfg: cfg, log: logg, store: store, schema: schema}

	if cfg.Database.Enabled() {
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			e.db = conn
			logg.Debug("Connected to database", zap.String("driver", cfg.Database.Driver))
		}
	}

	return e, nil
}
