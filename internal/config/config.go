// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EventTransportMemory    = "memory"
	EventTransportGoChannel = "gochannel"
	EventTransportRedis     = "redis"
	EventTransportKafka     = "kafka"

	RouteCacheNone   = "none"
	RouteCacheMemory = "memory"
	RouteCacheRedis  = "redis"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
	DBDriverMemory   = "memory"
)

// Config captures runtime configuration for the pathshare service.
type Config struct {
	AppName        string
	LogLevel       string
	HTTPAddress    string
	RequestTimeout time.Duration

	DBDriver    string
	DatabaseURL string

	EventTransport     string
	KafkaBrokers       []string
	KafkaConsumerGroup string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisConsumerGroup string
	RedisConsumer      string

	RouteCache    string
	RouteCacheTTL time.Duration
	MapFile       string

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	RecentPathsLimit int
}

// Load reads a .env file when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		AppName:        getEnv("APP_NAME", "pathshare"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPAddress:    getEnv("HTTP_ADDRESS", ":8080"),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 10*time.Second),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DBDriverPostgres)),
		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=pathshare password=pathshare dbname=pathshare port=5432 sslmode=disable TimeZone=UTC"),

		EventTransport:     strings.ToLower(getEnv("EVENT_TRANSPORT", EventTransportMemory)),
		KafkaBrokers:       splitAndTrim(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "pathshare"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getIntEnv("REDIS_DB", 0),
		RedisConsumerGroup: getEnv("REDIS_CONSUMER_GROUP", "pathshare"),
		RedisConsumer:      getEnv("REDIS_CONSUMER", hostname()),

		RouteCache:    strings.ToLower(getEnv("ROUTE_CACHE", RouteCacheMemory)),
		RouteCacheTTL: getDurationEnv("ROUTE_CACHE_TTL", 10*time.Minute),
		MapFile:       getEnv("MAP_FILE", ""),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer: getEnv("JWT_ISSUER", "pathshare"),
		TokenTTL:  getDurationEnv("TOKEN_TTL", 24*time.Hour),

		RecentPathsLimit: getIntEnv("RECENT_PATHS_LIMIT", 6),
	}

	return cfg, cfg.Validate()
}

// Validate rejects values the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if !oneOf(c.DBDriver, DBDriverPostgres, DBDriverSQLite, DBDriverMemory) {
		errs = append(errs, fmt.Errorf("DB_DRIVER %q: want postgres, sqlite or memory", c.DBDriver))
	}
	if !oneOf(c.EventTransport, EventTransportMemory, EventTransportGoChannel, EventTransportRedis, EventTransportKafka) {
		errs = append(errs, fmt.Errorf("EVENT_TRANSPORT %q: want memory, gochannel, redis or kafka", c.EventTransport))
	}
	if !oneOf(c.RouteCache, RouteCacheNone, RouteCacheMemory, RouteCacheRedis) {
		errs = append(errs, fmt.Errorf("ROUTE_CACHE %q: want none, memory or redis", c.RouteCache))
	}
	if c.EventTransport == EventTransportKafka && len(c.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required for the kafka transport"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.RecentPathsLimit <= 0 {
		errs = append(errs, errors.New("RECENT_PATHS_LIMIT must be > 0"))
	}
	return errors.Join(errs...)
}

// UsesRedis reports whether any component needs a redis client.
func (c Config) UsesRedis() bool {
	return c.EventTransport == EventTransportRedis || c.RouteCache == RouteCacheRedis
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "pathshare"
	}
	return name
}
