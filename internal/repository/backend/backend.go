// Package backend opens the store selected by database.driver.
package backend

import (
	"alcyxob/trainer-planner/internal/config"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/repository"
	"alcyxob/trainer-planner/internal/repository/mongo"
	"alcyxob/trainer-planner/internal/repository/sqldb"
	"context"
	"fmt"
	"time"
)

// Open connects to the configured backend and prepares its schema or indexes.
// The returned close func releases the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (repository.Store, func(), error) {
	switch cfg.Driver {
	case "mongo":
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return repository.Store{}, nil, fmt.Errorf("could not connect to MongoDB: %w", err)
		}
		closeFn := func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Error("Failed to disconnect MongoDB", "error", err)
			}
		}
		db := client.Database(cfg.Name)

		indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(indexCtx, db); err != nil {
			closeFn()
			return repository.Store{}, nil, err
		}
		log.Info("Database connection established", "driver", cfg.Driver, "database", cfg.Name)
		return mongo.NewStore(client, db), closeFn, nil

	case "postgres", "sqlite":
		db, err := sqldb.Open(cfg.Driver, cfg.DSN, log)
		if err != nil {
			return repository.Store{}, nil, err
		}
		closeFn := func() {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.Close()
			}
			if err != nil {
				log.Error("Failed to close database", "driver", cfg.Driver, "error", err)
			}
		}
		log.Info("Database connection established", "driver", cfg.Driver)
		return sqldb.NewStore(db), closeFn, nil

	default:
		return repository.Store{}, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
