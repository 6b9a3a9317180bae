package main

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkoss/recipebook/config"
	"github.com/pkoss/recipebook/internal/api"
	"github.com/pkoss/recipebook/internal/database"
	"github.com/pkoss/recipebook/internal/model"
	"github.com/pkoss/recipebook/internal/store"
)

// Seeds the demo user and the six-recipe demo catalog into postgres.
func main() {
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

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("failed to hash password", zap.Error(err))
	}

	demo := model.User{
		Username:     "demo",
		PasswordHash: string(hash),
		DisplayName:  "Demo Cook",
	}
	if err := db.Gorm.Where("username = ?", demo.Username).FirstOrCreate(&demo).Error; err != nil {
		logger.Fatal("failed to seed demo user", zap.Error(err))
	}
	logger.Info("seeded demo user", zap.Int64("id", demo.ID))

	var count int64
	if err := db.Gorm.Model(&model.Recipe{}).Count(&count).Error; err != nil {
		logger.Fatal("failed to count recipes", zap.Error(err))
	}
	if count > 0 {
		logger.Info("recipes already present, skipping catalog seed", zap.Int64("count", count))
		return
	}

	st := store.NewGormStore(db.Gorm)
	if err := st.Seed(context.Background(), store.DefaultRecipes(time.Now(), api.DefaultAuthorID)); err != nil {
		logger.Fatal("failed to seed recipes", zap.Error(err))
	}
	logger.Info("seeded demo catalog")
}
