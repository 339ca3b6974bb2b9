package cache

import "github.com/vibast-solutions/ms-go-pricing/app/entity"

func sampleMatrix() entity.PricingMatrix {
	us := entity.NewRegionPricing()
	us.Set(entity.PlanTypeSimple, entity.PlanPricing{
		Monthly: &entity.PeriodPricing{Price: 9.99, DisplayPrice: "$9.99"},
		Yearly:  &entity.PeriodPricing{Price: 99, DisplayPrice: "$99"},
	})
	return entity.PricingMatrix{entity.RegionUS: us}
}
