package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-pricing/app/dto"
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
	"github.com/vibast-solutions/ms-go-pricing/app/payment"
	"github.com/vibast-solutions/ms-go-pricing/app/service"
)

func PricingStateToDTO(state service.PricingState) dto.PricingStatusResponse {
	return dto.PricingStatusResponse{
		Loading:         state.Loading,
		Error:           state.Error,
		HasData:         state.HasData,
		ServedFromCache: state.ServedFromCache,
		UpdatedAt:       formatTime(state.UpdatedAt),
	}
}

func RegionPricingToDTO(region entity.Region, entries []entity.PricingEntry) dto.RegionPricingResponse {
	if entries == nil {
		entries = []entity.PricingEntry{}
	}
	return dto.RegionPricingResponse{Region: string(region), Pricing: entries}
}

func PriceDisplayToDTO(region entity.Region, plan entity.PlanType, period entity.BillingPeriod, display service.PriceDisplay) dto.PriceDisplayResponse {
	return dto.PriceDisplayResponse{
		Region:        string(region),
		PlanType:      string(plan),
		BillingPeriod: string(period),
		DisplayPrice:  display.Value,
		Source:        display.Tier,
	}
}

func RegionsToDTO(defaultRegion entity.Region, items []service.RegionInfo) dto.ListRegionsResponse {
	regions := make([]dto.RegionResponse, 0, len(items))
	for _, item := range items {
		regions = append(regions, dto.RegionResponse{
			Region:   string(item.Region),
			Language: item.Language,
			Currency: item.Currency,
		})
	}
	return dto.ListRegionsResponse{DefaultRegion: string(defaultRegion), Regions: regions}
}

func RegionPreferenceToDTO(pref *entity.RegionPreference) *dto.RegionPreferenceResponse {
	if pref == nil {
		return nil
	}

	return &dto.RegionPreferenceResponse{
		UserID:    pref.UserID,
		Region:    string(pref.Region),
		Language:  pref.Language,
		CreatedAt: pref.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: pref.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func QuoteToDTO(result payment.Result) dto.CheckoutQuoteResponse {
	return dto.CheckoutQuoteResponse{
		Status:        string(result.Type),
		PlanType:      string(result.PlanType),
		Region:        string(result.Region),
		BillingPeriod: string(result.BillingPeriod),
		AmountCents:   result.AmountCents,
		Currency:      result.Currency,
		DisplayPrice:  result.DisplayPrice,
		Error:         result.Error,
	}
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
