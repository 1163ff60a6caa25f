package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/camisetia/storefront/api/responses"
	"github.com/camisetia/storefront/pkg/config"
	pkgerrors "github.com/camisetia/storefront/pkg/errors"
	"github.com/camisetia/storefront/pkg/logger"
	"github.com/camisetia/storefront/pkg/redis"
)

const readyTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Camisetia-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks Redis when one is configured. Memory-only deployments
// are always ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisClient redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Camisetia-Env", cfg.App.Env)
		checks := map[string]string{"storage": cfg.Storage.Driver}

		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := redisClient.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable").
					WithDetails(map[string]string{"redis": "down"}))
				return
			}
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
