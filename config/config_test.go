package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s failed: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		}
	})
}

func TestLoadRequiresMySQLDSNForMySQLStore(t *testing.T) {
	unsetEnv(t, "MYSQL_DSN")
	unsetEnv(t, "PRICING_CACHE_STORE")
	setEnv(t, "PRICING_UPSTREAM_BASE_URL", "http://pricing.local")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing MYSQL_DSN")
	}
}

func TestLoadRedisStoreWithoutMySQL(t *testing.T) {
	unsetEnv(t, "MYSQL_DSN")
	setEnv(t, "PRICING_CACHE_STORE", "redis")
	setEnv(t, "PRICING_UPSTREAM_BASE_URL", "http://pricing.local/")
	setEnv(t, "REDIS_ADDR", "cache:6380")
	setEnv(t, "REDIS_DB", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Pricing.CacheStore != CacheStoreRedis {
		t.Fatalf("unexpected cache store: %s", cfg.Pricing.CacheStore)
	}
	if cfg.Pricing.UpstreamBaseURL != "http://pricing.local" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.Pricing.UpstreamBaseURL)
	}
	if cfg.Redis.Addr != "cache:6380" || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
}

func TestLoadRejectsUnknownCacheStore(t *testing.T) {
	setEnv(t, "PRICING_CACHE_STORE", "localstorage")
	setEnv(t, "PRICING_UPSTREAM_BASE_URL", "http://pricing.local")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown cache store")
	}
}

func TestLoadRequiresUpstream(t *testing.T) {
	setEnv(t, "PRICING_CACHE_STORE", "memory")
	unsetEnv(t, "PRICING_UPSTREAM_BASE_URL")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing upstream url")
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/pricing?parseTime=true")
	unsetEnv(t, "PRICING_CACHE_STORE")
	unsetEnv(t, "PRICING_FETCH_TIMEOUT_SECONDS")
	unsetEnv(t, "PRICING_CACHE_KEY")
	setEnv(t, "PRICING_UPSTREAM_BASE_URL", "http://pricing.local")
	setEnv(t, "APP_SERVICE_NAME", "pricing-test")
	setEnv(t, "HTTP_PORT", "8181")
	setEnv(t, "GRPC_PORT", "9191")
	setEnv(t, "MYSQL_MAX_OPEN_CONNS", "20")
	setEnv(t, "MYSQL_CONN_MAX_LIFETIME_MINUTES", "40")
	setEnv(t, "PRICING_CACHE_DURATION_MINUTES", "15")
	setEnv(t, "PRICING_DEFAULT_REGION", "br")
	setEnv(t, "PRICING_BREAKER_OPEN_TIMEOUT_SECONDS", "5")
	setEnv(t, "PRICING_REFRESH_INTERVAL_MINUTES", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.ServiceName != "pricing-test" {
		t.Fatalf("unexpected app service name: %s", cfg.App.ServiceName)
	}
	if cfg.HTTP.Port != "8181" || cfg.GRPC.Port != "9191" {
		t.Fatalf("unexpected ports: http=%s grpc=%s", cfg.HTTP.Port, cfg.GRPC.Port)
	}
	if cfg.MySQL.MaxOpenConns != 20 || cfg.MySQL.ConnMaxLifetime != 40*time.Minute {
		t.Fatalf("unexpected mysql config: %+v", cfg.MySQL)
	}
	if cfg.Pricing.CacheStore != CacheStoreMySQL {
		t.Fatalf("expected mysql default store, got %s", cfg.Pricing.CacheStore)
	}
	if cfg.Pricing.CacheDuration != 15*time.Minute {
		t.Fatalf("unexpected cache duration: %v", cfg.Pricing.CacheDuration)
	}
	if cfg.Pricing.CacheKey != "schedfy-pricing-cache" {
		t.Fatalf("unexpected cache key: %s", cfg.Pricing.CacheKey)
	}
	if cfg.Pricing.FetchTimeout != 0 {
		t.Fatalf("expected no fetch timeout by default, got %v", cfg.Pricing.FetchTimeout)
	}
	if cfg.Pricing.DefaultRegion != "BR" {
		t.Fatalf("unexpected default region: %s", cfg.Pricing.DefaultRegion)
	}
	if cfg.Pricing.BreakerOpenTimeout != 5*time.Second || cfg.Pricing.BreakerMaxFailures != 5 {
		t.Fatalf("unexpected breaker config: %+v", cfg.Pricing)
	}
	if cfg.Jobs.RefreshInterval != 10*time.Minute {
		t.Fatalf("unexpected refresh interval: %v", cfg.Jobs.RefreshInterval)
	}
}

func TestLoadRejectsInvalidPricingSettings(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"PRICING_CACHE_DURATION_MINUTES", "0"},
		{"PRICING_CACHE_DURATION_MINUTES", "-5"},
		{"PRICING_BREAKER_MAX_FAILURES", "-1"},
		{"PRICING_BREAKER_MAX_FAILURES", "0"},
		{"PRICING_DEFAULT_REGION", "DE"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			setEnv(t, "PRICING_CACHE_STORE", "memory")
			setEnv(t, "PRICING_UPSTREAM_BASE_URL", "http://pricing.local")
			unsetEnv(t, "PRICING_CACHE_DURATION_MINUTES")
			unsetEnv(t, "PRICING_BREAKER_MAX_FAILURES")
			unsetEnv(t, "PRICING_DEFAULT_REGION")
			setEnv(t, tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}
