package config

const EnvPrefix = "CAMISETIA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"

	ProviderGemini   = "gemini"
	ProviderEndpoint = "endpoint"
)

const (
	EnvAppEnv            = "CAMISETIA_APP_ENV"
	EnvPort              = "CAMISETIA_APP_PORT"
	EnvLogLevel          = "CAMISETIA_LOG_LEVEL"
	EnvRedisURL          = "CAMISETIA_REDIS_URL"
	EnvRedisAddr         = "CAMISETIA_REDIS_ADDR"
	EnvStorageDriver     = "CAMISETIA_STORAGE_DRIVER"
	EnvCartKey           = "CAMISETIA_CART_KEY"
	EnvCatalogPath       = "CAMISETIA_CATALOG_PATH"
	EnvAIDesignPrice     = "CAMISETIA_AI_DESIGN_PRICE"
	EnvDesignGenProvider = "CAMISETIA_DESIGNGEN_PROVIDER"
	EnvDesignGenEndpoint = "CAMISETIA_DESIGNGEN_ENDPOINT_URL"
	EnvDesignGenLedger   = "CAMISETIA_DESIGNGEN_LEDGER"
	EnvDesignGenLimit    = "CAMISETIA_DESIGNGEN_RATE_LIMIT"
	EnvGeminiAPIKey      = "CAMISETIA_GEMINI_API_KEY"
	EnvWhatsAppNumber    = "CAMISETIA_WHATSAPP_NUMBER"
	EnvCORSOrigins       = "CAMISETIA_CORS_ORIGINS"
	EnvTrustProxy        = "CAMISETIA_TRUST_PROXY"
)
