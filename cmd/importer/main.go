package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/logger"
	productrepo "storefront/internal/repository/product"
)

type runner interface {
	Run(ctx context.Context) (int, error)
}

func main() {
	var (
		filePath string
		format   string
	)
	flag.StringVar(&filePath, "file", "", "Path to a product catalog file")
	flag.StringVar(&format, "format", "", "csv or json (default: from file extension)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	}

	cfg := config.FromEnv()
	log := logger.New(logger.Options{Service: "storefront-importer", Env: cfg.AppEnv, Level: cfg.LogLevel})
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Error("connect db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Error("open file", "path", filePath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	repo := productrepo.NewPostgres(pool, log)
	var imp runner
	switch format {
	case "csv":
		imp = importer.NewCSVImporter(f, repo)
	case "json":
		imp = importer.NewJSONImporter(f, repo)
	default:
		log.Error("unsupported format", "format", format)
		os.Exit(2)
	}

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Error("import failed", "imported", count, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
