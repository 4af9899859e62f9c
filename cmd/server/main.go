package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cotizador/backend/config"
	httpDelivery "github.com/cotizador/backend/internal/delivery/http"
	"github.com/cotizador/backend/internal/infrastructure/catalog"
	"github.com/cotizador/backend/internal/logger"
	"github.com/cotizador/backend/internal/metrics"
	"github.com/cotizador/backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer zlog.Sync()

	zlog.Info("starting cotizador backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	// A bad catalog file degrades the service instead of killing it: the
	// server still answers, catalog endpoints return 500 until restart.
	var store *catalog.Store
	store, err = catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		zlog.Error("failed to load catalog, catalog endpoints will be unavailable",
			zap.String("path", cfg.Catalog.Path),
			zap.Error(err))
		store = nil
	} else {
		zlog.Info("catalog loaded",
			zap.String("path", cfg.Catalog.Path),
			zap.Int("products", store.Len()))
		metrics.CatalogProducts.Set(float64(store.Len()))
	}

	matcher := usecase.NewMatchingService(usecase.MatchConfig{
		MinScore:           cfg.Matching.MinScore,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	}, zlog)

	quotes := usecase.NewQuoteService(store, matcher, zlog)

	handler := httpDelivery.NewHandler(quotes, zlog)
	router := httpDelivery.SetupRouter(cfg, zlog, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}
