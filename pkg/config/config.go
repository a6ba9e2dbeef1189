package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Shopify       ShopifyConfig
	SMTP          SMTPConfig
	Store         StoreConfig
	CORS          CORSConfig
	Cache         CacheConfig
	Webhooks      WebhooksConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := decimal.NewFromString(cfg.Store.FreeShippingThreshold); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvFreeShippingThreshold, err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	// Source labels objects this service creates on the commerce platform.
	Source string `envconfig:"STOREFRONT_APP_SOURCE" default:"chylers-api"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOREFRONT_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREFRONT_DB_USER"`
	LegacyPassword string `envconfig:"STOREFRONT_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREFRONT_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns       int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns       int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime    time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime    time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQueryThreshold time.Duration `envconfig:"STOREFRONT_DB_SLOW_QUERY_THRESHOLD" default:"250ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STOREFRONT_JWT_ISSUER" default:"chylers-api"`
	ExpirationMinutes      int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"STOREFRONT_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
	ResetTokenTTLMinutes   int    `envconfig:"STOREFRONT_RESET_TOKEN_TTL_MINUTES" default:"60"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// ResetTokenTTL returns how long a password reset link stays valid.
func (j JWTConfig) ResetTokenTTL() time.Duration {
	if j.ResetTokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ResetTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOREFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOREFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOREFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	ResetWindow        time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_RESET_WINDOW" default:"15m"`
	ResetEmailLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_RESET_EMAIL_LIMIT" default:"3"`
	ResetIPLimit       int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_RESET_IP_LIMIT" default:"10"`
	// ContactPerMinute bounds public contact submissions per client IP.
	ContactPerMinute int `envconfig:"STOREFRONT_CONTACT_RATE_PER_MINUTE" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate      bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
	SkipShopifyProbe bool `envconfig:"STOREFRONT_SKIP_SHOPIFY_PROBE" default:"false"`
}

type ShopifyConfig struct {
	StoreName     string        `envconfig:"STOREFRONT_SHOPIFY_STORE_NAME" required:"true"`
	APIKey        string        `envconfig:"STOREFRONT_SHOPIFY_API_KEY"`
	APISecret     string        `envconfig:"STOREFRONT_SHOPIFY_API_SECRET"`
	AccessToken   string        `envconfig:"STOREFRONT_SHOPIFY_ACCESS_TOKEN" required:"true"`
	APIVersion    string        `envconfig:"STOREFRONT_SHOPIFY_API_VERSION" default:"2024-01"`
	WebhookSecret string        `envconfig:"STOREFRONT_SHOPIFY_WEBHOOK_SECRET"`
	Timeout       time.Duration `envconfig:"STOREFRONT_SHOPIFY_TIMEOUT" default:"15s"`
	// BaseURL overrides the derived admin endpoint; used against local fakes.
	BaseURL string `envconfig:"STOREFRONT_SHOPIFY_BASE_URL"`
}

type SMTPConfig struct {
	Host      string `envconfig:"STOREFRONT_SMTP_HOST"`
	Port      int    `envconfig:"STOREFRONT_SMTP_PORT" default:"587"`
	Username  string `envconfig:"STOREFRONT_SMTP_USERNAME"`
	Password  string `envconfig:"STOREFRONT_SMTP_PASSWORD"`
	FromEmail string `envconfig:"STOREFRONT_SMTP_FROM_EMAIL" default:"BeefChips@chylers.com"`
	FromName  string `envconfig:"STOREFRONT_SMTP_FROM_NAME" default:"Chyler's Hawaiian Beef Chips"`
}

// Enabled reports whether outbound mail has somewhere to go.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

type StoreConfig struct {
	FreeShippingThreshold string `envconfig:"STOREFRONT_FREE_SHIPPING_THRESHOLD" default:"49.00"`
	HomeRegion            string `envconfig:"STOREFRONT_HOME_REGION" default:"HI"`
	WillCallLocation      string `envconfig:"STOREFRONT_WILL_CALL_LOCATION" default:"Kapolei Kitchen Factory Outlet"`
	BusinessEmail         string `envconfig:"STOREFRONT_BUSINESS_EMAIL" default:"BeefChips@chylers.com"`
	Timezone              string `envconfig:"STOREFRONT_TIMEZONE" default:"Pacific/Honolulu"`
	PasswordResetURL      string `envconfig:"STOREFRONT_PASSWORD_RESET_URL" default:"https://chylers.com/reset-password"`
}

// FreeShippingMinimum returns the parsed threshold. Load rejects invalid values.
func (s StoreConfig) FreeShippingMinimum() decimal.Decimal {
	d, err := decimal.NewFromString(s.FreeShippingThreshold)
	if err != nil {
		return decimal.NewFromInt(49)
	}
	return d
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,https://chylers.com"`
}

type CacheConfig struct {
	ProductTTL time.Duration `envconfig:"STOREFRONT_CACHE_PRODUCT_TTL" default:"5m"`
}

type WebhooksConfig struct {
	IdempotencyTTL time.Duration `envconfig:"STOREFRONT_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
