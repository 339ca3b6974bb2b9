package payment

import (
	"context"
	"math"

	"github.com/vibast-solutions/ms-go-pricing/app/entity"
)

type planPriceLookup interface {
	GetPriceForPlan(plan entity.PlanType, region entity.Region, period entity.BillingPeriod) *entity.PricingEntry
}

type QuoteService struct {
	pricing planPriceLookup
}

func NewQuoteService(pricing planPriceLookup) *QuoteService {
	return &QuoteService{pricing: pricing}
}

func (s *QuoteService) Quote(_ context.Context, plan entity.PlanType, region entity.Region, period entity.BillingPeriod) Result {
	result := Result{
		Type:          ResultTypeUnavailable,
		PlanType:      plan,
		Region:        region,
		BillingPeriod: period,
		Currency:      region.Currency().String(),
	}

	entry := s.pricing.GetPriceForPlan(plan, region, period)
	if entry == nil {
		result.Error = "pricing not available for plan and region"
		return result
	}

	amount := entry.Price.Monthly
	if period == entity.BillingPeriodYearly {
		amount = entry.Price.Yearly
	}
	if amount == nil {
		result.Error = "pricing not available for billing period"
		return result
	}

	result.Type = ResultTypeQuoted
	result.AmountCents = int64(math.Round(*amount * 100))
	result.DisplayPrice = entry.DisplayPrice
	return result
}
