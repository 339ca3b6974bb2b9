package service

import "github.com/vibast-solutions/ms-go-pricing/app/entity"

// staticMonthlyPrices is the compiled-in monthly price table used when the
// pricing API has nothing for a plan.
var staticMonthlyPrices = map[entity.Region]map[entity.PlanType]string{
	entity.RegionPT: {
		entity.PlanTypeSimple:     "€9,99",
		entity.PlanTypeIndividual: "€19,99",
		entity.PlanTypeBusiness:   "€49,99",
	},
	entity.RegionBR: {
		entity.PlanTypeSimple:     "R$ 29,90",
		entity.PlanTypeIndividual: "R$ 59,90",
		entity.PlanTypeBusiness:   "R$ 149,90",
	},
	entity.RegionUS: {
		entity.PlanTypeSimple:     "$9.99",
		entity.PlanTypeIndividual: "$19.99",
		entity.PlanTypeBusiness:   "$49.99",
	},
	entity.RegionES: {
		entity.PlanTypeSimple:     "9,99 €",
		entity.PlanTypeIndividual: "19,99 €",
		entity.PlanTypeBusiness:   "49,99 €",
	},
	entity.RegionFR: {
		entity.PlanTypeSimple:     "9,99 €",
		entity.PlanTypeIndividual: "19,99 €",
		entity.PlanTypeBusiness:   "49,99 €",
	},
	entity.RegionGB: {
		entity.PlanTypeSimple:     "£8.99",
		entity.PlanTypeIndividual: "£17.99",
		entity.PlanTypeBusiness:   "£44.99",
	},
}

func StaticMonthlyPrice(region entity.Region, plan entity.PlanType) (string, bool) {
	price, ok := staticMonthlyPrices[region][plan]
	return price, ok
}
