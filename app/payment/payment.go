package payment

import (
	"context"

	"github.com/vibast-solutions/ms-go-pricing/app/entity"
)

type ResultType string

const (
	ResultTypeQuoted      ResultType = "quoted"
	ResultTypeUnavailable ResultType = "unavailable"
)

// Result is what the checkout page charges. Only API pricing with a numeric
// amount for the requested period is chargeable.
type Result struct {
	Type          ResultType
	PlanType      entity.PlanType
	Region        entity.Region
	BillingPeriod entity.BillingPeriod
	AmountCents   int64
	Currency      string
	DisplayPrice  string
	Error         string
}

type Service interface {
	Quote(ctx context.Context, plan entity.PlanType, region entity.Region, period entity.BillingPeriod) Result
}
