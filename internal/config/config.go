package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr string

	BackendBaseURL string
	BackendTimeout time.Duration

	RefreshTimeout      time.Duration
	AutoRefreshTimeout  time.Duration
	StalenessThreshold  time.Duration
	RefreshCooldown     time.Duration
	AutoRefreshInterval time.Duration

	NATSURL         string
	NATSConnTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration

	OTLPCollectorURL string
}

func LoadConfig() (*Config, error) {
	config := &Config{
		ListenAddr: getEnvString("LISTEN_ADDR", ":8080"),

		BackendBaseURL: getEnvString("BACKEND_BASE_URL", "http://localhost:8001"),
		BackendTimeout: getEnvDuration("BACKEND_TIMEOUT", 15*time.Second),

		RefreshTimeout:      getEnvDuration("REFRESH_TIMEOUT", 120*time.Second),
		AutoRefreshTimeout:  getEnvDuration("AUTO_REFRESH_TIMEOUT", 300*time.Second),
		StalenessThreshold:  getEnvDuration("STALENESS_THRESHOLD", 48*time.Hour),
		RefreshCooldown:     getEnvDuration("REFRESH_COOLDOWN", 24*time.Hour),
		AutoRefreshInterval: getEnvDuration("AUTO_REFRESH_INTERVAL", time.Hour),

		NATSURL:         getEnvString("NATS_URL", ""),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		RedisAddr:     getEnvString("REDIS_ADDR", ""),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		StatsCacheTTL: getEnvDuration("STATS_CACHE_TTL", 5*time.Minute),

		OTLPCollectorURL: getEnvString("OTLP_COLLECTOR_URL", ""),
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
