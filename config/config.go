package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
)

const (
	CacheStoreMySQL  = "mysql"
	CacheStoreRedis  = "redis"
	CacheStoreMemory = "memory"
)

type Config struct {
	App               AppConfig
	HTTP              ServerConfig
	GRPC              ServerConfig
	MySQL             MySQLConfig
	Redis             RedisConfig
	Log               LogConfig
	InternalEndpoints InternalEndpointsConfig
	Pricing           PricingConfig
	Jobs              JobsConfig
}

type AppConfig struct {
	ServiceName string
	APIKey      string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

type InternalEndpointsConfig struct {
	AuthGRPCAddr string
}

type PricingConfig struct {
	UpstreamBaseURL    string
	UpstreamAPIKey     string
	FetchTimeout       time.Duration
	CacheDuration      time.Duration
	CacheStore         string
	CacheKey           string
	DefaultRegion      string
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

type JobsConfig struct {
	RefreshInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cacheStore := strings.ToLower(getEnv("PRICING_CACHE_STORE", CacheStoreMySQL))
	switch cacheStore {
	case CacheStoreMySQL, CacheStoreRedis, CacheStoreMemory:
	default:
		return nil, errors.New("PRICING_CACHE_STORE must be one of mysql, redis, memory")
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" && cacheStore == CacheStoreMySQL {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	upstream := strings.TrimRight(getEnv("PRICING_UPSTREAM_BASE_URL", ""), "/")
	if upstream == "" {
		return nil, errors.New("PRICING_UPSTREAM_BASE_URL environment variable is required")
	}

	cacheDuration := getDurationEnv("PRICING_CACHE_DURATION_MINUTES", time.Hour)
	if cacheDuration <= 0 {
		return nil, errors.New("PRICING_CACHE_DURATION_MINUTES must be positive")
	}

	maxFailures := getIntEnv("PRICING_BREAKER_MAX_FAILURES", 5)
	if maxFailures <= 0 {
		return nil, errors.New("PRICING_BREAKER_MAX_FAILURES must be positive")
	}

	defaultRegion, err := entity.ParseRegion(getEnv("PRICING_DEFAULT_REGION", string(entity.RegionPT)))
	if err != nil {
		return nil, fmt.Errorf("PRICING_DEFAULT_REGION: %w", err)
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "pricing-service"),
			APIKey:      getEnv("APP_API_KEY", ""),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		GRPC: ServerConfig{
			Host: getEnv("GRPC_HOST", "0.0.0.0"),
			Port: getEnv("GRPC_PORT", "9090"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		InternalEndpoints: InternalEndpointsConfig{
			AuthGRPCAddr: getEnv("AUTH_SERVICE_GRPC_ADDR", "localhost:9090"),
		},
		Pricing: PricingConfig{
			UpstreamBaseURL:    upstream,
			UpstreamAPIKey:     getEnv("PRICING_UPSTREAM_API_KEY", ""),
			FetchTimeout:       getSecondsEnv("PRICING_FETCH_TIMEOUT_SECONDS", 0),
			CacheDuration:      cacheDuration,
			CacheStore:         cacheStore,
			CacheKey:           getEnv("PRICING_CACHE_KEY", "schedfy-pricing-cache"),
			DefaultRegion:      string(defaultRegion),
			BreakerMaxFailures: uint32(maxFailures),
			BreakerOpenTimeout: getSecondsEnv("PRICING_BREAKER_OPEN_TIMEOUT_SECONDS", 30*time.Second),
		},
		Jobs: JobsConfig{
			RefreshInterval: getDurationEnv("PRICING_REFRESH_INTERVAL_MINUTES", 30*time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
