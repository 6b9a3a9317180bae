package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pkoss/recipebook/config"
	"github.com/pkoss/recipebook/internal/api"
	"github.com/pkoss/recipebook/internal/database"
	"github.com/pkoss/recipebook/internal/middleware"
	"github.com/pkoss/recipebook/internal/server"
	"github.com/pkoss/recipebook/internal/service"
	"github.com/pkoss/recipebook/internal/store"
)

func main() {
	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	st, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage backend", zap.Error(err))
	}

	var uploader api.ImageUploader
	if cfg.ImagesEnabled() {
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			logger.Fatal("failed to initialize S3", zap.Error(err))
		}
		uploader = service.NewImageService(s3cfg)
	} else {
		logger.Info("S3 not configured, image uploads disabled")
	}

	var mutating []gin.HandlerFunc
	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(cfg, logger)
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		mutating = append(mutating, middleware.NewMutationRateLimiter(redisClient).Middleware())
	} else {
		logger.Info("Redis not configured, rate limiting disabled")
	}

	srv := server.New(cfg, st, uploader, logger, mutating...)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

// buildStore selects the storage backend once at startup. The store handle
// is passed down to the handlers; nothing accesses it ambiently.
func buildStore(cfg *config.Config, logger *zap.Logger) (store.RecipeStore, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := database.New(cfg, logger)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(db.Gorm), nil
	default:
		logger.Info("using in-memory storage backend")
		st := store.NewMemoryStore()
		if cfg.SeedDemoData {
			if err := st.Seed(context.Background(), store.DefaultRecipes(time.Now(), api.DefaultAuthorID)); err != nil {
				return nil, err
			}
			logger.Info("seeded demo catalog")
		}
		return st, nil
	}
}

func newLogger() (*zap.Logger, error) {
	if config.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
