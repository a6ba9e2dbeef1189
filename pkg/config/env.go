package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvLogLevel     = "STOREFRONT_LOG_LEVEL"
	EnvLogWarnStack = "STOREFRONT_LOG_WARN_STACK"
	EnvLogFormat    = "STOREFRONT_LOG_FORMAT"
	EnvAppSource    = "STOREFRONT_APP_SOURCE"

	EnvDBDSN      = "STOREFRONT_DB_DSN"
	EnvDBDriver   = "STOREFRONT_DB_DRIVER"
	EnvDBHost     = "STOREFRONT_DB_HOST"
	EnvDBPort     = "STOREFRONT_DB_PORT"
	EnvDBUser     = "STOREFRONT_DB_USER"
	EnvDBPassword = "STOREFRONT_DB_PASSWORD"
	EnvDBName     = "STOREFRONT_DB_NAME"
	EnvDBSSLMode  = "STOREFRONT_DB_SSLMODE"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvJWTSecret              = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer              = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins             = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "STOREFRONT_REFRESH_TOKEN_TTL_MINUTES"
	EnvResetTokenTTLMinutes   = "STOREFRONT_RESET_TOKEN_TTL_MINUTES"

	EnvShopifyStore         = "STOREFRONT_SHOPIFY_STORE_NAME"
	EnvShopifyAccessToken   = "STOREFRONT_SHOPIFY_ACCESS_TOKEN"
	EnvShopifyAPIVersion    = "STOREFRONT_SHOPIFY_API_VERSION"
	EnvShopifyWebhookSecret = "STOREFRONT_SHOPIFY_WEBHOOK_SECRET"
	EnvShopifyTimeout       = "STOREFRONT_SHOPIFY_TIMEOUT"

	EnvSMTPHost = "STOREFRONT_SMTP_HOST"
	EnvSMTPPort = "STOREFRONT_SMTP_PORT"

	EnvFreeShippingThreshold = "STOREFRONT_FREE_SHIPPING_THRESHOLD"
	EnvHomeRegion            = "STOREFRONT_HOME_REGION"
	EnvCORSOrigins           = "STOREFRONT_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
