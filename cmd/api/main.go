package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/camisetia/storefront/api/routes"
	"github.com/camisetia/storefront/internal/cart"
	"github.com/camisetia/storefront/internal/catalog"
	"github.com/camisetia/storefront/internal/checkout"
	"github.com/camisetia/storefront/internal/designgen"
	"github.com/camisetia/storefront/internal/session"
	"github.com/camisetia/storefront/pkg/config"
	"github.com/camisetia/storefront/pkg/instance"
	"github.com/camisetia/storefront/pkg/logger"
	"github.com/camisetia/storefront/pkg/metrics"
	"github.com/camisetia/storefront/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.UsesRedis() {
		redisClient, err = redis.New(runCtx, cfg.Redis, logg)
		if err != nil {
			logg.Error(runCtx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		logg.Error(runCtx, "failed to load catalog", err)
		os.Exit(1)
	}

	generator, err := newDesignService(cfg, logg, redisClient, registry)
	if err != nil {
		logg.Error(runCtx, "failed to create design generator", err)
		os.Exit(1)
	}

	storage, err := newCartStorage(cfg, redisClient)
	if err != nil {
		logg.Error(runCtx, "failed to create cart storage", err)
		os.Exit(1)
	}

	sessions, err := session.NewRegistry(session.Options{
		Catalog:     cat,
		Generator:   generator,
		Storage:     storage,
		CartKey:     cfg.Storage.CartKey,
		IdleTTL:     cfg.Session.IdleTTL,
		Logger:      logg,
		CartMetrics: metrics.NewCartMetrics(registry),
	})
	if err != nil {
		logg.Error(runCtx, "failed to create session registry", err)
		os.Exit(1)
	}

	formatter, err := checkout.NewFormatter(cfg.Checkout)
	if err != nil {
		logg.Error(runCtx, "failed to create checkout formatter", err)
		os.Exit(1)
	}

	var pinger redis.Pinger
	if redisClient != nil {
		pinger = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(runCtx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"storage":  cfg.Storage.Driver,
		"provider": cfg.DesignGen.Provider,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, pinger, registry, cat, sessions, formatter),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.DesignGen.Timeout + 30*time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "failed to shutdown api server", err)
	}
	logg.Info(ctx, "api server stopped")
}

func newDesignService(cfg *config.Config, logg *logger.Logger, redisClient *redis.Client, reg prometheus.Registerer) (*designgen.Service, error) {
	provider, err := designgen.NewProvider(cfg.DesignGen)
	if err != nil {
		return nil, err
	}

	var ledger designgen.Ledger
	if cfg.DesignGen.UsesRedisLedger() {
		ledger, err = designgen.NewRedisLedger(redisClient, cfg.DesignGen.RateLimit, cfg.DesignGen.RateLimitWindow)
		if err != nil {
			return nil, err
		}
	} else {
		ledger = designgen.NewMemoryLedger(cfg.DesignGen.RateLimit, cfg.DesignGen.RateLimitWindow)
	}

	return designgen.NewService(designgen.Options{
		Provider:      provider,
		Ledger:        ledger,
		Limit:         cfg.DesignGen.RateLimit,
		Window:        cfg.DesignGen.RateLimitWindow,
		ThumbnailSize: cfg.DesignGen.ThumbnailSize,
		Metrics:       metrics.NewDesignGenMetrics(reg),
		Logger:        logg,
	})
}

func newCartStorage(cfg *config.Config, redisClient *redis.Client) (cart.Storage, error) {
	if cfg.Storage.UsesRedis() {
		return cart.NewRedisStorage(redisClient, cfg.Storage.CartTTL)
	}
	return cart.NewMemoryStorage(), nil
}
