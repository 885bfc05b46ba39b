package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"customer_backend/internal/app/di"
	"customer_backend/internal/app/seed"
	"customer_backend/internal/config"
	infradb "customer_backend/internal/platform/db"
	"customer_backend/internal/platform/logging"
)

func main() {
	reset := flag.Bool("reset", false, "delete all users, customers and sessions before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New("customer_backend_seed", cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if *reset && cfg.IsProduction() {
		logger.Fatal("refusing to reset a production database")
	}

	ctx := context.Background()
	cfg.DB.RunMigrations = true
	db, err := infradb.Open(ctx, cfg.DB, logger, di.Models()...)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer func() { _ = infradb.Close(db) }()

	res, err := seed.Run(ctx, db, *reset, logger)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed completed", zap.Int("users", res.Users), zap.Int("customers", res.Customers))
}
