package main

import (
	"context"
	"fmt"
	"log"

	"github.com/c-victorino/dishcord-web-app/internal/config"
	"github.com/c-victorino/dishcord-web-app/internal/database"
	"github.com/c-victorino/dishcord-web-app/internal/repository"
	"github.com/c-victorino/dishcord-web-app/internal/router"
	"github.com/c-victorino/dishcord-web-app/internal/storage"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// content store (posts, categories)
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("init content store", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate content store", zap.Error(err))
	}

	// credential store (users)
	mongoDB, err := database.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal("connect credential store", zap.Error(err))
	}
	users := repository.NewMongoUserStore(mongoDB)
	if err := users.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure user indexes", zap.Error(err))
	}

	// image store
	uploader, err := storage.NewImageUploader(ctx, cfg.S3)
	if err != nil {
		logger.Fatal("init image uploader", zap.Error(err))
	}

	r := router.SetupRouter(cfg, db, users, uploader, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("run server", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}
