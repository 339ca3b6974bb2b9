package service

import (
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
	"github.com/vibast-solutions/ms-go-pricing/app/metrics"
)

const (
	DisplayTierAPI            = "api"
	DisplayTierStaticMonthly  = "static_monthly"
	DisplayTierDegradedYearly = "degraded_yearly"
	DisplayTierUnavailable    = "unavailable"

	yearlyUnavailableSuffix = " (yearly pricing not available)"
)

type PriceDisplay struct {
	Value string
	Tier  string
}

type displayRequest struct {
	region entity.Region
	plan   entity.PlanType
	period entity.BillingPeriod
}

type displayStrategy struct {
	tier    string
	resolve func(req displayRequest) (string, bool)
}

type priceSource interface {
	Loading() bool
	HasRegionEntries(region entity.Region) bool
	GetPriceForPlan(plan entity.PlanType, region entity.Region, period entity.BillingPeriod) *entity.PricingEntry
}

// DisplayFormatter resolves display prices through an ordered list of
// strategies; the first one that yields a value wins.
type DisplayFormatter struct {
	pricing    priceSource
	metrics    *metrics.Metrics
	strategies []displayStrategy
}

func NewDisplayFormatter(pricing priceSource, m *metrics.Metrics) *DisplayFormatter {
	f := &DisplayFormatter{pricing: pricing, metrics: m}
	f.strategies = []displayStrategy{
		{tier: DisplayTierAPI, resolve: f.tryAPI},
		{tier: DisplayTierStaticMonthly, resolve: f.tryStaticMonthly},
		{tier: DisplayTierDegradedYearly, resolve: f.degradeYearly},
	}
	return f
}

func (f *DisplayFormatter) GetPriceDisplay(region entity.Region, plan entity.PlanType, period entity.BillingPeriod) PriceDisplay {
	if period == "" {
		period = entity.BillingPeriodMonthly
	}
	req := displayRequest{region: region, plan: plan, period: period}

	for _, strategy := range f.strategies {
		if value, ok := strategy.resolve(req); ok {
			f.metrics.ObserveDisplay(strategy.tier)
			return PriceDisplay{Value: value, Tier: strategy.tier}
		}
	}

	f.metrics.ObserveDisplay(DisplayTierUnavailable)
	return PriceDisplay{Tier: DisplayTierUnavailable}
}

func (f *DisplayFormatter) tryAPI(req displayRequest) (string, bool) {
	if f.pricing.Loading() || !f.pricing.HasRegionEntries(req.region) {
		return "", false
	}
	entry := f.pricing.GetPriceForPlan(req.plan, req.region, req.period)
	if entry == nil || entry.DisplayPrice == "" {
		return "", false
	}
	return entry.DisplayPrice, true
}

func (f *DisplayFormatter) tryStaticMonthly(req displayRequest) (string, bool) {
	if req.period != entity.BillingPeriodMonthly {
		return "", false
	}
	return StaticMonthlyPrice(req.region, req.plan)
}

// degradeYearly makes missing yearly pricing visible instead of showing the
// monthly figure as if it were yearly.
func (f *DisplayFormatter) degradeYearly(req displayRequest) (string, bool) {
	monthly, ok := StaticMonthlyPrice(req.region, req.plan)
	if !ok {
		return "", false
	}
	return monthly + yearlyUnavailableSuffix, true
}
