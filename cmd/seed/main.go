package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/MokokAf/amm-saas/pkg/config"
	"github.com/MokokAf/amm-saas/pkg/seed"
	"github.com/MokokAf/amm-saas/pkg/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	db, err := postgres.NewStore(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seed.Run(ctx, db, logger); err != nil {
		if errors.Is(err, seed.ErrAlreadySeeded) {
			logger.Info("Database already seeded, skipping")
			return
		}
		logger.Fatal("Seed failed", zap.Error(err))
	}
}
