package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logger   LoggerConfig   `koanf:"logger"`
	PhonePe  PhonePeConfig  `koanf:"phonepe"`
	Webhook  WebhookConfig  `koanf:"webhook"`
	Payment  PaymentConfig  `koanf:"payment"`
	Redirect RedirectConfig `koanf:"redirect"`
	Booking  BookingConfig  `koanf:"booking"`
	Worker   WorkerConfig   `koanf:"worker"`
	Redis    RedisConfig    `koanf:"redis"`
	Kafka    KafkaConfig    `koanf:"kafka"`
	Auth     AuthConfig     `koanf:"auth"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// PhonePeConfig holds the credentials and endpoints of the PhonePe Standard Checkout V2 API.
// Leaving the base URLs empty selects the UAT or production hosts from Env.
type PhonePeConfig struct {
	Env           string        `koanf:"env" validate:"required"`
	ClientID      string        `koanf:"client_id" validate:"required"`
	ClientSecret  string        `koanf:"client_secret" validate:"required"`
	ClientVersion string        `koanf:"client_version" validate:"required"`
	OAuthBaseURL  string        `koanf:"oauth_base_url"`
	PGBaseURL     string        `koanf:"pg_base_url"`
	Timeout       time.Duration `koanf:"timeout" validate:"required"`
	TokenMargin   time.Duration `koanf:"token_margin"`
	RedirectURL   string        `koanf:"redirect_url" validate:"required"`
}

type WebhookConfig struct {
	Username string `koanf:"username" validate:"required"`
	Password string `koanf:"password" validate:"required"`
}

// PaymentConfig is the checkout policy applied to every new payment order.
type PaymentConfig struct {
	TimeoutMinutes    int    `koanf:"timeout_minutes" validate:"required"`
	MaxRetryAttempts  int    `koanf:"max_retry_attempts" validate:"required"`
	LateSuccessPolicy string `koanf:"late_success_policy" validate:"required"`
	OrderPrefix       string `koanf:"order_prefix" validate:"required"`
}

// Late success policies decide what happens when the gateway reports a
// payment for an order that was already marked EXPIRED.
const (
	LateSuccessFlag  = "flag"
	LateSuccessHonor = "honor"
)

// HonorsLateSuccess is false for any value other than "honor".
func (c PaymentConfig) HonorsLateSuccess() bool {
	return strings.EqualFold(c.LateSuccessPolicy, LateSuccessHonor)
}

type RedirectConfig struct {
	SuccessURL        string        `koanf:"success_url" validate:"required"`
	FailureURL        string        `koanf:"failure_url" validate:"required"`
	FrontendBaseURL   string        `koanf:"frontend_base_url" validate:"required"`
	AstrologyBaseURL  string        `koanf:"astrology_base_url" validate:"required"`
	RecentOrderWindow time.Duration `koanf:"recent_order_window" validate:"required"`
}

type BookingConfig struct {
	DefaultSlotTime    string `koanf:"default_slot_time" validate:"required"`
	KeepConvertedCarts int    `koanf:"keep_converted_carts" validate:"required"`
	AdminEmail         string `koanf:"admin_email" validate:"required"`
}

type WorkerConfig struct {
	Interval       time.Duration `koanf:"interval" validate:"required"`
	BatchSize      int           `koanf:"batch_size" validate:"required"`
	GracePeriod    time.Duration `koanf:"grace_period" validate:"required"`
	MinDelay       time.Duration `koanf:"min_delay"`
	MaxDelay       time.Duration `koanf:"max_delay"`
	BackoffBase    time.Duration `koanf:"backoff_base" validate:"required"`
	MaxAttempts    int           `koanf:"max_attempts" validate:"required"`
	ExpiryInterval time.Duration `koanf:"expiry_interval" validate:"required"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic" validate:"required"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required"`
	Issuer    string `koanf:"issuer"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaults mirror the production checkout policy; every key can be overridden from the environment.
var defaults = map[string]any{
	"server.port":                  "8000",
	"server.read_timeout":          "30s",
	"server.write_timeout":         "30s",
	"server.idle_timeout":          "60s",
	"database.ssl_mode":            "disable",
	"database.max_open_conns":      10,
	"database.max_idle_conns":      2,
	"database.conn_max_lifetime":   "1h",
	"database.conn_max_idle_time":  "30m",
	"logger.level":                 "info",
	"logger.format":                "text",
	"phonepe.env":                  "uat",
	"phonepe.client_version":       "1",
	"phonepe.timeout":              "30s",
	"phonepe.token_margin":         "60s",
	"payment.timeout_minutes":      5,
	"payment.max_retry_attempts":   3,
	"payment.late_success_policy":  "flag",
	"payment.order_prefix":         "OKPUJA",
	"redirect.recent_order_window": "10m",
	"booking.default_slot_time":    "10:00",
	"booking.keep_converted_carts": 3,
	"worker.interval":              "5m",
	"worker.batch_size":            3,
	"worker.grace_period":          "2m",
	"worker.min_delay":             "5s",
	"worker.max_delay":             "8s",
	"worker.backoff_base":          "1s",
	"worker.max_attempts":          3,
	"worker.expiry_interval":       "1m",
	"kafka.topic":                  "okpuja.notifications",
	"auth.issuer":                  "okpuja",
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		logger.Error("failed to load default configuration", "error", err)
		return nil, err
	}

	err := k.Load(env.ProviderWithValue("OKPUJA_", ".", func(s, v string) (string, any) {
		key := strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "OKPUJA_")),
			"__",
			".",
		)
		if key == "kafka.brokers" {
			return key, strings.Split(v, ",")
		}
		return key, v
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
