// README: Config loader with env defaults for HTTP, Mongo, Redis, Firebase, and pricing settings.
package config

import (
	"os"
	"strconv"
	"time"
)

type PricingConfig struct {
	RatePerKm int64
	// MapsAPIKey enables road-distance lookups; empty means haversine only.
	MapsAPIKey string
}

type TimeoutConfig struct {
	Store  time.Duration
	Cache  time.Duration
	Notify time.Duration
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Mongo struct {
		URI      string
		Database string
	}
	Redis struct {
		Addr string
	}
	Firebase struct {
		ProjectID       string
		CredentialsFile string
	}
	Pricing  PricingConfig
	Timeouts TimeoutConfig
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("EATS_HTTP_ADDR", ":8080")
	cfg.Mongo.URI = envOrDefault("EATS_MONGO_URI", "mongodb://localhost:27017")
	cfg.Mongo.Database = envOrDefault("EATS_MONGO_DB", "mobile-eats")
	cfg.Redis.Addr = envOrDefault("EATS_REDIS_ADDR", "localhost:6379")
	cfg.Firebase.ProjectID = os.Getenv("EATS_FIREBASE_PROJECT_ID")
	cfg.Firebase.CredentialsFile = os.Getenv("EATS_FIREBASE_CREDENTIALS")
	cfg.Pricing.RatePerKm = envOrDefaultInt64("EATS_RATE_PER_KM", 45)
	cfg.Pricing.MapsAPIKey = os.Getenv("EATS_MAPS_API_KEY")
	cfg.Timeouts.Store = envOrDefaultMillis("EATS_STORE_TIMEOUT_MS", 5000)
	cfg.Timeouts.Cache = envOrDefaultMillis("EATS_CACHE_TIMEOUT_MS", 500)
	cfg.Timeouts.Notify = envOrDefaultMillis("EATS_NOTIFY_TIMEOUT_MS", 3000)
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultMillis(key string, def int64) time.Duration {
	return time.Duration(envOrDefaultInt64(key, def)) * time.Millisecond
}
