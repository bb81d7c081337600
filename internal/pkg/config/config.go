package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server       ServerConfig
	DB           DBConfig
	CORS         CORSConfig
	Log          LogConfig
	JWT          JWTConfig
	Redis        RedisConfig
	Checkout     CheckoutConfig
	Verification VerificationConfig
	Janitor      JanitorConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

// Empty Addr disables the coupon lookup cache.
type RedisConfig struct {
	Addr      string        `envconfig:"REDIS_ADDR" default:""`
	Password  string        `envconfig:"REDIS_PASSWORD" default:""`
	DB        int           `envconfig:"REDIS_DB" default:"0"`
	CouponTTL time.Duration `envconfig:"REDIS_COUPON_TTL" default:"30s"`
}

// CouponFailurePolicy decides what pricing does when a supplied coupon cannot be applied.
type CouponFailurePolicy string

const (
	CouponPolicyDegrade CouponFailurePolicy = "degrade"
	CouponPolicyReject  CouponFailurePolicy = "reject"
)

type CheckoutConfig struct {
	CouponFailurePolicy CouponFailurePolicy `envconfig:"COUPON_FAILURE_POLICY" default:"degrade"`
	ReservationTTL      time.Duration       `envconfig:"COUPON_RESERVATION_TTL" default:"30m"`
	StoreTimeout        time.Duration       `envconfig:"STORE_TIMEOUT" default:"5s"`
	RetryAttempts       uint64              `envconfig:"STORE_RETRY_ATTEMPTS" default:"3"`
	RetryBaseDelay      time.Duration       `envconfig:"STORE_RETRY_BASE_DELAY" default:"50ms"`
	CurrencyCode        string              `envconfig:"CURRENCY_CODE" default:"USD"`
}

type VerificationConfig struct {
	TTL         time.Duration `envconfig:"VERIFICATION_TTL" default:"15m"`
	MaxAttempts int           `envconfig:"VERIFICATION_MAX_ATTEMPTS" default:"5"`
	CodeLength  int           `envconfig:"VERIFICATION_CODE_LENGTH" default:"6"`
}

type JanitorConfig struct {
	Enabled  bool          `envconfig:"JANITOR_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"JANITOR_INTERVAL" default:"1m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c CheckoutConfig) Validate() error {
	switch c.CouponFailurePolicy {
	case CouponPolicyDegrade, CouponPolicyReject:
	default:
		return fmt.Errorf("unknown COUPON_FAILURE_POLICY %q", c.CouponFailurePolicy)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	return nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Checkout.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,
		},
		CORS: CORSConfig{
			AllowOrigins:  []string{"http://localhost:3000"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        time.Hour,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
		},
		Redis: RedisConfig{
			CouponTTL: 30 * time.Second,
		},
		Checkout: CheckoutConfig{
			CouponFailurePolicy: CouponPolicyDegrade,
			ReservationTTL:      30 * time.Minute,
			StoreTimeout:        5 * time.Second,
			RetryAttempts:       3,
			RetryBaseDelay:      time.Millisecond,
			CurrencyCode:        "USD",
		},
		Verification: VerificationConfig{
			TTL:         15 * time.Minute,
			MaxAttempts: 5,
			CodeLength:  6,
		},
		Janitor: JanitorConfig{
			Enabled:  false,
			Interval: time.Minute,
		},
	}
}
