package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/platform/gormdb"
	"libraryapi/internal/platform/postgres"
	"libraryapi/internal/user"
)

// store bundles the repositories for the configured driver.
type store struct {
	books book.Repository
	users user.Repository
	ping  func(ctx context.Context) error
	close func()
}

func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := gormdb.OpenSQLite(cfg.SQLitePath, &book.Book{}, &user.User{})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		log.Info("sqlite store ready", zap.String("path", cfg.SQLitePath))
		return &store{
			books: book.NewGormRepo(db),
			users: user.NewGormRepo(db),
			ping:  sqlDB.PingContext,
			close: func() { _ = gormdb.Close(db) },
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		log.Info("database connection OK", zap.String("dsn", postgres.RedactDSN(cfg.DatabaseDSN)))
		return &store{
			books: book.NewPostgresRepo(pool, cfg.QueryTimeout),
			users: user.NewPostgresRepo(pool, cfg.QueryTimeout),
			ping:  pool.Ping,
			close: pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
