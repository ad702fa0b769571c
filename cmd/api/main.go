package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/docstore"
	"storefront/internal/events"
	"storefront/internal/httpserver"
	"storefront/internal/logger"
	categoryrepo "storefront/internal/repository/category"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	reviewrepo "storefront/internal/repository/review"
	sessionrepo "storefront/internal/repository/session"
	slotrepo "storefront/internal/repository/slot"
	categorysvc "storefront/internal/service/category"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
	reviewsvc "storefront/internal/service/review"
	sessionsvc "storefront/internal/service/session"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.Options{Service: "storefront-api", Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Error("connect to db", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.DialAMQP(cfg.AMQPURL, cfg.OrderEventsQueue, log)
		if err != nil {
			log.Error("connect to broker", "error", err)
			os.Exit(1)
		}
		publisher = amqpPub
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("close publisher", "error", err)
		}
	}()

	productRepo := productrepo.NewPostgres(dbpool, log)
	orderRepo := orderrepo.NewPostgres(dbpool, log)
	reviewRepo := reviewrepo.NewPostgres(dbpool, log)
	sessionRepo := sessionrepo.NewPostgres(dbpool)
	slots := slotrepo.NewPostgres(dbpool)

	committer := docstore.NewPostgres(dbpool, log)

	srv, err := httpserver.New(cfg.HTTPAddr, log, dbpool, httpserver.Deps{
		CatalogSvc:  productsvc.New(productRepo),
		CategorySvc: categorysvc.New(categoryrepo.NewPostgres(dbpool)),
		OrderSvc:    ordersvc.New(productRepo, committer, publisher, log, cfg.ProductLookupConcurrency),
		ReviewSvc:   reviewsvc.New(orderRepo, productRepo, reviewRepo, log),
		SessionSvc:  sessionsvc.New(sessionRepo, cfg.SessionTTL, log),
		Slots:       slots,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		log.Error("init server", "error", err)
		os.Exit(1)
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		log.Error("server error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	} else {
		log.Info("server stopped")
	}
}
