package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Env         string `env:"ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"3000"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`
	JWTSecret   string `env:"JWT_SECRET"`

	Database DatabaseConfig
	Redis    RedisConfig
	Ledger   LedgerConfig
	Gateway  GatewayConfig
	Logging  LoggingConfig
	Otel     OtelConfig
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            int           `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Name            string        `env:"DB_NAME" envDefault:"ledger"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"30m"`
}

// DSN returns the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED" envDefault:"true"`
	Host     string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string        `env:"REDIS_PORT" envDefault:"6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

// LedgerConfig holds the amount floors and currency in minor units.
type LedgerConfig struct {
	MinDepositAmount  int64  `env:"MIN_DEPOSIT_AMOUNT" envDefault:"100"`
	MinTransferAmount int64  `env:"MIN_TRANSFER_AMOUNT" envDefault:"100"`
	DefaultCurrency   string `env:"DEFAULT_CURRENCY" envDefault:"NGN"`
}

type GatewayConfig struct {
	Provider string        `env:"PAYMENT_GATEWAY" envDefault:"paystack"`
	Timeout  time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"15s"`

	PaystackSecretKey   string `env:"PAYSTACK_SECRET_KEY"`
	PaystackBaseURL     string `env:"PAYSTACK_BASE_URL" envDefault:"https://api.paystack.co"`
	PaystackCallbackURL string `env:"PAYSTACK_CALLBACK_URL"`

	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	StripeSuccessURL    string `env:"STRIPE_SUCCESS_URL" envDefault:"http://localhost:5173/wallet/deposit/success"`
	StripeCancelURL     string `env:"STRIPE_CANCEL_URL" envDefault:"http://localhost:5173/wallet/deposit/cancel"`

	RazorpayKey           string `env:"RAZORPAY_KEY"`
	RazorpaySecret        string `env:"RAZORPAY_SECRET"`
	RazorpayWebhookSecret string `env:"RAZORPAY_WEBHOOK_SECRET"`
}

type LoggingConfig struct {
	Level         string `env:"LOG_LEVEL" envDefault:"info"`
	Format        string `env:"LOG_FORMAT" envDefault:"text"`
	IncludeCaller bool   `env:"LOG_INCLUDE_CALLER" envDefault:"false"`
}

type OtelConfig struct {
	Enabled        bool          `env:"OTEL_ENABLED" envDefault:"true"`
	Endpoint       string        `env:"OTEL_ENDPOINT"`
	ServiceName    string        `env:"OTEL_SERVICE_NAME" envDefault:"ledger"`
	MetricInterval time.Duration `env:"OTEL_METRIC_INTERVAL" envDefault:"60s"`
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Ledger.MinDepositAmount <= 0 || c.Ledger.MinTransferAmount <= 0 {
		errs = append(errs, errors.New("minimum amounts must be positive"))
	}
	switch c.Gateway.Provider {
	case "paystack":
		if c.Gateway.PaystackSecretKey == "" {
			errs = append(errs, errors.New("PAYSTACK_SECRET_KEY is required"))
		}
	case "stripe":
		if c.Gateway.StripeSecretKey == "" || c.Gateway.StripeWebhookSecret == "" {
			errs = append(errs, errors.New("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET are required"))
		}
	case "razorpay":
		if c.Gateway.RazorpayKey == "" || c.Gateway.RazorpaySecret == "" || c.Gateway.RazorpayWebhookSecret == "" {
			errs = append(errs, errors.New("RAZORPAY_KEY, RAZORPAY_SECRET and RAZORPAY_WEBHOOK_SECRET are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown PAYMENT_GATEWAY %q", c.Gateway.Provider))
	}
	return errors.Join(errs...)
}

// IsProduction checks if the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
