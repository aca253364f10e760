package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env            string
	HTTPAddr       string
	MongoURI       string
	MongoDB        string
	KafkaBrokers   []string
	BookingTopic   string
	JWTSecret      string
	ServiceFeeBps  int64
	RequestTimeout time.Duration
}

// Load parses configuration from the current environment. MongoURI and
// KafkaBrokers are optional: without them the service falls back to the
// in-memory store and notifier, which is the dev wiring.
func Load() (Config, error) {
	cfg := Config{
		Env:          getEnv("APP_ENV", "dev"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      getEnv("MONGO_DB", "rentnest"),
		BookingTopic: getEnv("BOOKING_TOPIC", "booking.events"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	feeBps, err := parseIntEnv("SERVICE_FEE_BPS", 1000)
	if err != nil {
		return Config{}, err
	}
	cfg.ServiceFeeBps = feeBps

	timeout, err := parseDurationEnv("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.RequestTimeout = timeout

	if cfg.JWTSecret == "" && cfg.Env != "dev" && cfg.Env != "local" {
		return Config{}, fmt.Errorf("JWT_SECRET is required outside dev")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}
