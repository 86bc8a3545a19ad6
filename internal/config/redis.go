package config

import (
	"context"
	"crypto/tls"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from the environment:
//
//	REDIS_ADDR or REDIS_HOST + REDIS_PORT (default localhost:6379)
//	REDIS_PASSWORD, REDIS_DB, REDIS_TLS
//
// Redis backs the settings snapshot cache and the rate limiter.  Both
// degrade gracefully, so a server that does not answer a ping yields nil
// instead of an error.
func NewRedisClient() *redis.Client {
	// REDIS_HOST and REDIS_PORT override REDIS_ADDR when both are set.
	addr := os.Getenv("REDIS_ADDR")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	// Managed Redis offerings usually require TLS; plain TCP otherwise.
	var tlsConf *tls.Config
	if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: tlsConf,
	})

	// Ping once at startup.  A short timeout keeps a missing Redis from
	// delaying the server start.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable; settings cache is process-local and rate limiting is off", "addr", addr, "err", err)
		_ = client.Close()
		return nil
	}
	return client
}
