package main

import (
	"context"
	"os"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.Options{Service: "storefront-seed", Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Error("connect db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	n, err := seed.Apply(ctx, productrepo.NewPostgres(pool, log))
	if err != nil {
		log.Error("seed apply", "error", err)
		os.Exit(1)
	}
	log.Info("seed applied", "products", n)
}
