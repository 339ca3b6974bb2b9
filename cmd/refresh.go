package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-pricing/app/service"
)

var refreshWorker bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Clear the pricing cache and fetch the matrix from upstream",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := mustLoadConfig()
		app := mustBuildApplication(context.Background(), cfg)
		defer app.Close()

		if refreshWorker {
			runWorker("pricing_refresh", cfg.Jobs.RefreshInterval, app.pricing, refreshPricing)
			return
		}

		ctx := context.Background()
		runJob("pricing_refresh", func() error { return refreshPricing(app.pricing, ctx) })
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshCmd.Flags().BoolVar(&refreshWorker, "worker", false, "Run continuously using configured interval")
}

func refreshPricing(s *service.PricingService, ctx context.Context) error {
	return s.RefreshPricing(ctx)
}

func runWorker(
	name string,
	interval time.Duration,
	pricingService *service.PricingService,
	fn func(s *service.PricingService, ctx context.Context) error,
) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(pricingService, ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(pricingService, ctx) })
		}
	}
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
