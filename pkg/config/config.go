package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Gateway  GatewayConfig
	Redis    RedisConfig
	Session  SessionConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MALL_APP_ENV" required:"true"`
	Port         string `envconfig:"MALL_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"MALL_APP_BASE_URL" required:"true"`
	LogLevel     string `envconfig:"MALL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MALL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the gateway at the commerce REST backend.
type BackendConfig struct {
	BaseURL string        `envconfig:"MALL_BACKEND_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"MALL_BACKEND_TIMEOUT" default:"10s"`
}

// GatewayConfig carries the payment gateway credentials. The secret key
// authenticates server-to-server confirm calls; the client key is handed to
// the hosted payment page during prepare.
type GatewayConfig struct {
	BaseURL   string        `envconfig:"MALL_PG_BASE_URL" default:"https://api.tosspayments.com"`
	ClientKey string        `envconfig:"MALL_PG_CLIENT_KEY" required:"true"`
	SecretKey string        `envconfig:"MALL_PG_SECRET_KEY" required:"true"`
	Timeout   time.Duration `envconfig:"MALL_PG_TIMEOUT" default:"15s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MALL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MALL_REDIS_ADDR"`
	Password     string        `envconfig:"MALL_REDIS_PASSWORD"`
	DB           int           `envconfig:"MALL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MALL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MALL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MALL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MALL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MALL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig signs the checkout session token that rides through the
// payment gateway redirect.
type SessionConfig struct {
	Secret            string `envconfig:"MALL_SESSION_SECRET" required:"true"`
	Issuer            string `envconfig:"MALL_SESSION_ISSUER" default:"storefront-gateway"`
	ExpirationMinutes int    `envconfig:"MALL_SESSION_EXPIRATION_MINUTES" default:"60"`
}

// TokenTTL returns the session token TTL configured in minutes.
func (s SessionConfig) TokenTTL() time.Duration {
	if s.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(s.ExpirationMinutes) * time.Minute
}

type CheckoutConfig struct {
	FreeShippingThreshold int64         `envconfig:"MALL_FREE_SHIPPING_THRESHOLD" default:"50000"`
	StandardShippingFee   int64         `envconfig:"MALL_STANDARD_SHIPPING_FEE" default:"3000"`
	SessionTTL            time.Duration `envconfig:"MALL_CHECKOUT_SESSION_TTL" default:"1h"`
	IdempotencyTTL        time.Duration `envconfig:"MALL_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

func (c CheckoutConfig) validate() error {
	if c.FreeShippingThreshold < 0 {
		return fmt.Errorf("free shipping threshold must not be negative")
	}
	if c.StandardShippingFee < 0 {
		return fmt.Errorf("standard shipping fee must not be negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("checkout session ttl must be positive")
	}
	return nil
}
