package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/pkoss/recipebook/config"
	"github.com/pkoss/recipebook/internal/database"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "directory containing .sql migration files")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.RunMigrations(db.Gorm, *migrationsDir, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migrations complete")
}
