package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App       AppConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Catalog   CatalogConfig
	DesignGen DesignGenConfig
	Checkout  CheckoutConfig
	Session   SessionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"CAMISETIA_APP_ENV" required:"true"`
	Port         string   `envconfig:"CAMISETIA_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"CAMISETIA_LOG_LEVEL" default:"info"`
	LogFormat    string   `envconfig:"CAMISETIA_LOG_FORMAT" default:"json"`
	LogWarnStack bool     `envconfig:"CAMISETIA_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"CAMISETIA_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:9002"`
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool `envconfig:"CAMISETIA_TRUST_PROXY" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"CAMISETIA_REDIS_URL"`
	Address      string        `envconfig:"CAMISETIA_REDIS_ADDR"`
	Password     string        `envconfig:"CAMISETIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAMISETIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAMISETIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAMISETIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAMISETIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAMISETIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAMISETIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Configured() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// StorageConfig selects where carts are persisted between requests.
type StorageConfig struct {
	Driver  string        `envconfig:"CAMISETIA_STORAGE_DRIVER" default:"memory"`
	CartKey string        `envconfig:"CAMISETIA_CART_KEY" default:"flashprint_cart"`
	CartTTL time.Duration `envconfig:"CAMISETIA_CART_TTL" default:"720h"`
}

type CatalogConfig struct {
	Path string `envconfig:"CAMISETIA_CATALOG_PATH"`
	// AIDesignPrice overrides the catalog surcharge for AI designs when set.
	AIDesignPrice string `envconfig:"CAMISETIA_AI_DESIGN_PRICE"`
}

// AIDesignPriceOverride returns the configured surcharge and whether one was set.
func (c CatalogConfig) AIDesignPriceOverride() (decimal.Decimal, bool, error) {
	raw := strings.TrimSpace(c.AIDesignPrice)
	if raw == "" {
		return decimal.Zero, false, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parsing %s: %w", EnvAIDesignPrice, err)
	}
	if value.IsNegative() {
		return decimal.Zero, false, fmt.Errorf("%s must be non-negative", EnvAIDesignPrice)
	}
	return value, true, nil
}

type DesignGenConfig struct {
	Provider        string        `envconfig:"CAMISETIA_DESIGNGEN_PROVIDER" default:"gemini"`
	GeminiAPIKey    string        `envconfig:"CAMISETIA_GEMINI_API_KEY"`
	GeminiBaseURL   string        `envconfig:"CAMISETIA_GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	GeminiModel     string        `envconfig:"CAMISETIA_GEMINI_MODEL" default:"gemini-2.0-flash-exp"`
	EndpointURL     string        `envconfig:"CAMISETIA_DESIGNGEN_ENDPOINT_URL"`
	Timeout         time.Duration `envconfig:"CAMISETIA_DESIGNGEN_TIMEOUT" default:"60s"`
	LedgerDriver    string        `envconfig:"CAMISETIA_DESIGNGEN_LEDGER" default:"memory"`
	RateLimit       int           `envconfig:"CAMISETIA_DESIGNGEN_RATE_LIMIT" default:"3"`
	RateLimitWindow time.Duration `envconfig:"CAMISETIA_DESIGNGEN_RATE_LIMIT_WINDOW" default:"24h"`
	ThumbnailSize   int           `envconfig:"CAMISETIA_DESIGNGEN_THUMBNAIL_SIZE" default:"256"`
}

type CheckoutConfig struct {
	WhatsAppNumber  string `envconfig:"CAMISETIA_WHATSAPP_NUMBER" required:"true"`
	WhatsAppBaseURL string `envconfig:"CAMISETIA_WHATSAPP_BASE_URL" default:"https://wa.me"`
}

type SessionConfig struct {
	CookieName string        `envconfig:"CAMISETIA_SESSION_COOKIE" default:"camisetia_session"`
	IdleTTL    time.Duration `envconfig:"CAMISETIA_SESSION_IDLE_TTL" default:"2h"`
}

func (c *Config) validate() error {
	switch normalize(c.Storage.Driver) {
	case DriverMemory:
	case DriverRedis:
		if !c.Redis.Configured() {
			return fmt.Errorf("%s=redis requires %s or %s", EnvStorageDriver, EnvRedisURL, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, c.Storage.Driver)
	}

	switch normalize(c.DesignGen.LedgerDriver) {
	case DriverMemory:
	case DriverRedis:
		if !c.Redis.Configured() {
			return fmt.Errorf("%s=redis requires %s or %s", EnvDesignGenLedger, EnvRedisURL, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvDesignGenLedger, c.DesignGen.LedgerDriver)
	}

	switch normalize(c.DesignGen.Provider) {
	case ProviderGemini:
	case ProviderEndpoint:
		if strings.TrimSpace(c.DesignGen.EndpointURL) == "" {
			return fmt.Errorf("%s=endpoint requires %s", EnvDesignGenProvider, EnvDesignGenEndpoint)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvDesignGenProvider, c.DesignGen.Provider)
	}

	if c.DesignGen.RateLimit <= 0 || c.DesignGen.RateLimitWindow <= 0 {
		return fmt.Errorf("design generation rate limit and window must be positive")
	}
	if strings.TrimSpace(c.Storage.CartKey) == "" {
		return fmt.Errorf("%s must not be empty", EnvCartKey)
	}
	if _, _, err := c.Catalog.AIDesignPriceOverride(); err != nil {
		return err
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.Storage.UsesRedis() || c.DesignGen.UsesRedisLedger()
}

func (s StorageConfig) UsesRedis() bool {
	return normalize(s.Driver) == DriverRedis
}

func (d DesignGenConfig) UsesRedisLedger() bool {
	return normalize(d.LedgerDriver) == DriverRedis
}
