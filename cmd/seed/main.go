package main

import (
	"context"

	"go.uber.org/zap"

	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/logger"
	"libraryapi/internal/platform/gormdb"
	"libraryapi/internal/platform/postgres"
)

func main() {
	config.LoadEnvFiles()
	log := logger.New("library-seed", "info", "")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	st, err := config.LoadStore()
	if err != nil {
		log.Fatal("invalid store configuration", zap.Error(err))
	}

	var repo book.Repository
	switch st.Driver {
	case config.DriverSQLite:
		db, err := gormdb.OpenSQLite(st.SQLitePath, &book.Book{})
		if err != nil {
			log.Fatal("failed to open sqlite", zap.String("path", st.SQLitePath), zap.Error(err))
		}
		defer func() { _ = gormdb.Close(db) }()
		repo = book.NewGormRepo(db)
	default:
		pool, err := postgres.Open(ctx, st.DSN)
		if err != nil {
			log.Fatal("failed to connect to database", zap.String("dsn", postgres.RedactDSN(st.DSN)), zap.Error(err))
		}
		defer pool.Close()
		repo = book.NewPostgresRepo(pool, st.QueryTimeout)
	}

	inserted, err := seedBooks(ctx, repo)
	if err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	if inserted == 0 {
		log.Info("catalog not empty, nothing to seed")
		return
	}
	log.Info("seeded catalog", zap.Int("books", inserted))
}
