package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Storage.CartKey != "flashprint_cart" {
		t.Fatalf("unexpected cart key %q", cfg.Storage.CartKey)
	}
	if cfg.DesignGen.RateLimit != 3 {
		t.Fatalf("expected default rate limit 3, got %d", cfg.DesignGen.RateLimit)
	}
	if got := cfg.DesignGen.RateLimitWindow; got != 24*time.Hour {
		t.Fatalf("expected 24h window, got %v", got)
	}
	if cfg.UsesRedis() {
		t.Fatal("memory defaults should not require redis")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RedisDriverRequiresConnection(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected redis storage without url to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.UsesRedis() {
		t.Fatal("expected UsesRedis with redis storage")
	}
}

func TestLoad_EndpointProviderRequiresURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDesignGenProvider, "endpoint")

	if _, err := Load(); err == nil {
		t.Fatal("expected endpoint provider without url to fail")
	}
}

func TestLoad_AIDesignPriceOverride(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvAIDesignPrice, "12000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	price, ok, err := cfg.Catalog.AIDesignPriceOverride()
	if err != nil || !ok {
		t.Fatalf("expected override, ok=%v err=%v", ok, err)
	}
	if !price.Equal(decimal.NewFromInt(12000)) {
		t.Fatalf("unexpected price %s", price)
	}

	t.Setenv(EnvAIDesignPrice, "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected negative price to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvWhatsAppNumber, "573001234567")
	t.Setenv(EnvStorageDriver, "memory")
	t.Setenv(EnvDesignGenProvider, "gemini")
	t.Setenv(EnvDesignGenLedger, "memory")
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvAIDesignPrice, "")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}

func TestLoad_CORSOrigins(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCORSOrigins, "https://camisetia.co,https://www.camisetia.co")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.App.CORSOrigins) != 2 || cfg.App.CORSOrigins[1] != "https://www.camisetia.co" {
		t.Fatalf("unexpected origins %v", cfg.App.CORSOrigins)
	}
	if cfg.App.TrustProxy {
		t.Fatalf("proxy headers must not be trusted by default")
	}

	t.Setenv(EnvTrustProxy, "true")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.App.TrustProxy {
		t.Fatalf("expected TrustProxy from %s", EnvTrustProxy)
	}
}
