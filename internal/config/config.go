package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogFormat       string

	DatabaseDSN   string
	RunMigrations bool

	// Empty RedisAddr keeps sessions in memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	RabbitMQURL   string
	EventsEnabled bool

	StripeSecretKey     string
	StripePublicKey     string
	StripeCurrency      string
	StripeWebhookSecret string

	DepositSKU string
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: parseDuration(getenv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
		LogFormat:       getenv("LOG_FORMAT", "json"),

		DatabaseDSN:   getenv("DATABASE_DSN", ""),
		RunMigrations: envBool("RUN_MIGRATIONS", true),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),
		SessionTTL:    parseDuration(getenv("SESSION_TTL", "72h"), 72*time.Hour),

		RabbitMQURL:   getenv("RABBITMQ_URL", ""),
		EventsEnabled: envBool("EVENTS_ENABLED", false),

		StripeSecretKey:     getenv("STRIPE_SECRET_KEY", ""),
		StripePublicKey:     getenv("STRIPE_PUBLIC_KEY", ""),
		StripeCurrency:      strings.ToLower(getenv("STRIPE_CURRENCY", "eur")),
		StripeWebhookSecret: getenv("STRIPE_WEBHOOK_SECRET", ""),

		DepositSKU: getenv("CUSTOM_CAKE_DEPOSIT_SKU", "CUST-DEP"),
	}

	if cfg.DatabaseDSN == "" {
		return Config{}, errors.New("DATABASE_DSN is required")
	}
	return cfg, nil
}

// PaymentsEnabled is true when both Stripe keys are set.
func (c Config) PaymentsEnabled() bool {
	return c.StripeSecretKey != "" && c.StripePublicKey != ""
}

func (c Config) MessagingEnabled() bool {
	return c.EventsEnabled && c.RabbitMQURL != ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
