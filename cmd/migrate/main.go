package main

import (
	"context"
	"flag"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"libraryapi/internal/config"
	"libraryapi/internal/logger"
	"libraryapi/internal/platform/postgres"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()
	log := logger.New("library-migrate", "info", "")
	defer func() { _ = log.Sync() }()

	dir := migrationsDir()

	if *command == "create" {
		if *name == "" {
			log.Fatal("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			log.Fatal("failed to create migration", zap.Error(err))
		}
		log.Info("migration created", zap.String("name", *name), zap.String("dir", dir))
		return
	}

	st, err := config.LoadStore()
	if err != nil {
		log.Fatal("invalid store configuration", zap.Error(err))
	}
	if st.Driver != config.DriverPostgres {
		log.Fatal("migrations run against postgres only; the sqlite driver auto-migrates", zap.String("driver", st.Driver))
	}

	pool, err := postgres.Open(context.Background(), st.DSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.String("dsn", postgres.RedactDSN(st.DSN)), zap.Error(err))
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("failed to set dialect", zap.Error(err))
	}

	switch *command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		log.Info("migrations applied")
	case "down":
		if err := goose.Down(db, dir); err != nil {
			log.Fatal("failed to roll back migration", zap.Error(err))
		}
		log.Info("migration rolled back")
	case "status":
		if err := goose.Status(db, dir); err != nil {
			log.Fatal("failed to check migration status", zap.Error(err))
		}
	default:
		log.Fatal("unknown command, use: up, down, status, create", zap.String("command", *command))
	}
}
