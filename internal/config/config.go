// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"time"
	_ "time/tzdata"
)

// Config holds the runtime configuration.  Each field corresponds to an
// environment variable.
type Config struct {
	Env       string // APP_ENV, e.g. "dev" or "prod"
	Port      string // APP_PORT
	DBUser    string // DB_USER
	DBPass    string // DB_PASS (may be empty)
	DBHost    string // DB_HOST
	DBPort    string // DB_PORT
	DBName    string // DB_NAME
	JWTSecret string // JWT_SECRET, verifies tokens issued by the auth system
	Timezone  string // APP_TIMEZONE, the property's zone (default UTC)
	AMQPURL   string // AMQP_URL or RABBITMQ_URL; empty disables events

	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT
}

// Load reads the configuration.  Required variables are enforced by must
// and a missing value stops the program.
func Load() Config {
	// Events are optional for the API server; AMQP_URL takes precedence
	// over the RABBITMQ_URL name used by older deployments.
	amqp := os.Getenv("AMQP_URL")
	if amqp == "" {
		amqp = os.Getenv("RABBITMQ_URL")
	}
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		Timezone:        envStr("APP_TIMEZONE", "UTC"),
		AMQPURL:         amqp,
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// Location resolves Timezone.  An unknown zone name is fatal: dates would
// otherwise be evaluated in the wrong day.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Fatalf("invalid APP_TIMEZONE %q: %v", c.Timezone, err)
	}
	return loc
}

// WorkerConfig is the subset the event consumer needs.
type WorkerConfig struct {
	AMQPURL string
	LogDir  string
}

// LoadWorker reads the consumer's configuration.  The broker URL is
// required here because the worker does nothing without it.
func LoadWorker() WorkerConfig {
	url := os.Getenv("AMQP_URL")
	if url == "" {
		url = must("RABBITMQ_URL")
	}
	return WorkerConfig{AMQPURL: url, LogDir: envStr("LOG_DIR", "logs")}
}

// must retrieves a required environment variable.  Unset or empty values
// log a fatal error.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
