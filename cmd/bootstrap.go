package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-pricing/app/cache"
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
	"github.com/vibast-solutions/ms-go-pricing/app/metrics"
	"github.com/vibast-solutions/ms-go-pricing/app/payment"
	"github.com/vibast-solutions/ms-go-pricing/app/repository"
	"github.com/vibast-solutions/ms-go-pricing/app/service"
	"github.com/vibast-solutions/ms-go-pricing/app/upstream"
	"github.com/vibast-solutions/ms-go-pricing/config"

	_ "github.com/go-sql-driver/mysql"
)

type application struct {
	cfg      *config.Config
	registry *prometheus.Registry
	pricing  *service.PricingService
	regions  *service.RegionService
	quotes   *payment.QuoteService
	closers  []func() error
}

func (a *application) Close() {
	a.pricing.Close()
	a.closeResources()
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	return cfg
}

// mustBuildApplication wires the pricing service graph. The pricing service is
// constructed but not started.
func mustBuildApplication(ctx context.Context, cfg *config.Config) *application {
	app, err := buildApplication(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize pricing service")
	}
	return app
}

func buildApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	app := &application{cfg: cfg, registry: prometheus.NewRegistry()}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(app.registry)

	var db *sql.DB
	if cfg.MySQL.DSN != "" {
		var err error
		db, err = openMySQL(cfg.MySQL)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, db.Close)
	}

	store, err := buildCacheStore(ctx, cfg, db, app)
	if err != nil {
		app.closeResources()
		return nil, err
	}

	policy := cache.NewPolicy(store, cfg.Pricing.CacheDuration, cache.WithMetrics(m))
	fetcher := upstream.NewClient(cfg.Pricing, &http.Client{}, m)
	app.pricing = service.NewPricingService(fetcher, policy, m)

	var prefs service.RegionPreferenceRepository
	if db != nil {
		prefs = repository.NewRegionPreferenceRepository(db)
	} else {
		logrus.Warn("MYSQL_DSN not set, region preferences are kept in memory")
		prefs = repository.NewMemoryRegionPreferenceRepository()
	}

	formatter := service.NewDisplayFormatter(app.pricing, m)
	app.regions = service.NewRegionService(prefs, formatter, entity.Region(cfg.Pricing.DefaultRegion))
	app.quotes = payment.NewQuoteService(app.pricing)
	return app, nil
}

func buildCacheStore(ctx context.Context, cfg *config.Config, db *sql.DB, app *application) (cache.Store, error) {
	switch cfg.Pricing.CacheStore {
	case config.CacheStoreMySQL:
		return repository.NewPricingCacheRepository(db, cfg.Pricing.CacheKey), nil
	case config.CacheStoreRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		app.closers = append(app.closers, client.Close)
		return cache.NewRedisStore(client, cfg.Pricing.CacheKey), nil
	case config.CacheStoreMemory:
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache store %q", cfg.Pricing.CacheStore)
	}
}

func openMySQL(cfg config.MySQLConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func (a *application) closeResources() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logrus.WithError(err).Warn("Failed to release resource")
		}
	}
}
