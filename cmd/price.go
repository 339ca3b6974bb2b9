package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-pricing/app/mapper"
	"github.com/vibast-solutions/ms-go-pricing/app/service"
	"github.com/vibast-solutions/ms-go-pricing/app/types"
)

var (
	pricePlanType      string
	priceBillingPeriod string
	priceRegion        string
	priceLanguage      string
	priceWait          time.Duration
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Resolve the display price for a plan",
	Long:  "Resolve the display price for a plan the way the API does: cached pricing first, then upstream, then the static fallback.",
	RunE:  runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)

	priceCmd.Flags().StringVar(&pricePlanType, "plan", "", "Plan type (simple, individual, business)")
	priceCmd.Flags().StringVar(&priceBillingPeriod, "period", "monthly", "Billing period (monthly, yearly)")
	priceCmd.Flags().StringVar(&priceRegion, "region", "", "Region code; detected from --lang when empty")
	priceCmd.Flags().StringVar(&priceLanguage, "lang", "", "Accept-Language value used for region detection")
	priceCmd.Flags().DurationVar(&priceWait, "wait", 5*time.Second, "How long to wait for upstream pricing")
	_ = priceCmd.MarkFlagRequired("plan")
}

func runPrice(cmd *cobra.Command, _ []string) error {
	req := &types.GetPriceDisplayRequest{
		PlanType:       pricePlanType,
		BillingPeriod:  priceBillingPeriod,
		Region:         priceRegion,
		AcceptLanguage: priceLanguage,
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	cfg := mustLoadConfig()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app := mustBuildApplication(ctx, cfg)
	defer app.Close()

	app.pricing.Start(ctx)
	waitForPricing(app.pricing, priceWait)

	region, err := app.regions.ResolveRegion(ctx, service.ResolveRegionInput{
		Region:         req.Region,
		AcceptLanguage: req.AcceptLanguage,
	})
	if err != nil {
		return err
	}

	plan, period := req.GetPlanType(), req.GetBillingPeriod()
	display := app.regions.GetPriceDisplay(region, plan, period)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(mapper.PriceDisplayToDTO(region, plan, period, display)); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// waitForPricing gives the background fetch a chance to land before the
// display is resolved.
func waitForPricing(pricing *service.PricingService, wait time.Duration) bool {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-pricing.Ready():
		return true
	case <-timer.C:
		logrus.WithField("wait", wait.String()).Warn("Pricing still loading, using fallback pricing")
		return false
	}
}
