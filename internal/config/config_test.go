package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	env := map[string]string{
		"OKPUJA_PRIMARY__ENV":                 "test",
		"OKPUJA_DATABASE__HOST":               "localhost",
		"OKPUJA_DATABASE__PORT":               "5432",
		"OKPUJA_DATABASE__USER":               "okpuja",
		"OKPUJA_DATABASE__PASSWORD":           "secret",
		"OKPUJA_DATABASE__NAME":               "okpuja",
		"OKPUJA_PHONEPE__CLIENT_ID":           "client",
		"OKPUJA_PHONEPE__CLIENT_SECRET":       "client-secret",
		"OKPUJA_PHONEPE__REDIRECT_URL":        "https://api.example.com/payments/redirect/",
		"OKPUJA_WEBHOOK__USERNAME":            "hook",
		"OKPUJA_WEBHOOK__PASSWORD":            "hook-pass",
		"OKPUJA_REDIRECT__SUCCESS_URL":        "https://example.com/confirmbooking",
		"OKPUJA_REDIRECT__FAILURE_URL":        "https://example.com/failedbooking",
		"OKPUJA_REDIRECT__FRONTEND_BASE_URL":  "https://example.com",
		"OKPUJA_REDIRECT__ASTROLOGY_BASE_URL": "https://astro.example.com",
		"OKPUJA_BOOKING__ADMIN_EMAIL":         "admin@example.com",
		"OKPUJA_AUTH__JWT_SECRET":             "jwt-secret",
		"OKPUJA_KAFKA__BROKERS":               "kafka-1:9092,kafka-2:9092",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Payment.TimeoutMinutes)
	assert.Equal(t, 3, cfg.Payment.MaxRetryAttempts)
	assert.Equal(t, "flag", cfg.Payment.LateSuccessPolicy)
	assert.Equal(t, 2*time.Minute, cfg.Worker.GracePeriod)
	assert.Equal(t, 3, cfg.Worker.BatchSize)
	assert.Equal(t, 60*time.Second, cfg.PhonePe.TokenMargin)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OKPUJA_PAYMENT__TIMEOUT_MINUTES", "20")
	t.Setenv("OKPUJA_PAYMENT__LATE_SUCCESS_POLICY", "honor")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Payment.TimeoutMinutes)
	assert.Equal(t, "honor", cfg.Payment.LateSuccessPolicy)
}

func TestLoadConfig_FailsWithoutCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OKPUJA_PHONEPE__CLIENT_SECRET", "")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestDatabaseConfig_PgxConfigEscapesCredentials(t *testing.T) {
	db := config.DatabaseConfig{
		Host:            "db.internal",
		Port:            6432,
		User:            "okpuja",
		Password:        "p@ss/w:rd#1",
		Name:            "payments",
		SSLMode:         "disable",
		MaxOpenConns:    8,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 5 * time.Minute,
	}

	cfg, err := db.PgxConfig(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.ConnConfig.Host)
	assert.Equal(t, uint16(6432), cfg.ConnConfig.Port)
	assert.Equal(t, "p@ss/w:rd#1", cfg.ConnConfig.Password)
	assert.Equal(t, "payments", cfg.ConnConfig.Database)
	assert.Equal(t, "okpuja-payments", cfg.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, int32(8), cfg.MaxConns)
	assert.Equal(t, int32(2), cfg.MinConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
}
