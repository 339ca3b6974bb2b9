package types

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
)

type GetPlanPriceRequest struct {
	PlanType      string `query:"plan_type" json:"plan_type" validate:"required,oneof=simple individual business"`
	Region        string `query:"region" json:"region" validate:"required,oneof=PT BR US ES FR GB"`
	BillingPeriod string `query:"billing_period" json:"billing_period" validate:"omitempty,oneof=monthly yearly"`
}

func NewGetPlanPriceRequestFromContext(ctx echo.Context) (*GetPlanPriceRequest, error) {
	req := &GetPlanPriceRequest{
		PlanType:      ctx.QueryParam("plan_type"),
		Region:        ctx.QueryParam("region"),
		BillingPeriod: ctx.QueryParam("billing_period"),
	}
	req.Normalize()
	return req, nil
}

func (r *GetPlanPriceRequest) Normalize() {
	r.PlanType = normalizePlanType(r.PlanType)
	r.Region = normalizeRegion(r.Region)
	r.BillingPeriod = normalizeBillingPeriod(r.BillingPeriod)
}

func (r *GetPlanPriceRequest) Validate() error {
	return validateStruct(r)
}

func (r *GetPlanPriceRequest) GetPlanType() entity.PlanType {
	return entity.PlanType(r.PlanType)
}

func (r *GetPlanPriceRequest) GetRegion() entity.Region {
	return entity.Region(r.Region)
}

func (r *GetPlanPriceRequest) GetBillingPeriod() entity.BillingPeriod {
	return billingPeriodOrMonthly(r.BillingPeriod)
}

// GetPriceDisplayRequest carries everything needed to resolve the caller's
// region as well as the plan to format.
type GetPriceDisplayRequest struct {
	PlanType       string `query:"plan_type" json:"plan_type" validate:"required,oneof=simple individual business"`
	BillingPeriod  string `query:"billing_period" json:"billing_period" validate:"omitempty,oneof=monthly yearly"`
	Region         string `query:"region" json:"region" validate:"omitempty,oneof=PT BR US ES FR GB"`
	UserId         string `query:"user_id" json:"user_id"`
	AcceptLanguage string `json:"accept_language"`
}

func NewGetPriceDisplayRequestFromContext(ctx echo.Context) (*GetPriceDisplayRequest, error) {
	req := &GetPriceDisplayRequest{
		PlanType:       ctx.QueryParam("plan_type"),
		BillingPeriod:  ctx.QueryParam("billing_period"),
		Region:         ctx.QueryParam("region"),
		UserId:         strings.TrimSpace(ctx.QueryParam("user_id")),
		AcceptLanguage: ctx.Request().Header.Get("Accept-Language"),
	}
	req.Normalize()
	return req, nil
}

func (r *GetPriceDisplayRequest) Normalize() {
	r.PlanType = normalizePlanType(r.PlanType)
	r.BillingPeriod = normalizeBillingPeriod(r.BillingPeriod)
	r.Region = normalizeRegion(r.Region)
	r.UserId = strings.TrimSpace(r.UserId)
}

func (r *GetPriceDisplayRequest) Validate() error {
	return validateStruct(r)
}

func (r *GetPriceDisplayRequest) GetPlanType() entity.PlanType {
	return entity.PlanType(r.PlanType)
}

func (r *GetPriceDisplayRequest) GetBillingPeriod() entity.BillingPeriod {
	return billingPeriodOrMonthly(r.BillingPeriod)
}

type GetRegionPricingRequest struct {
	Region string `param:"region" json:"region" validate:"required,oneof=PT BR US ES FR GB"`
}

func NewGetRegionPricingRequestFromContext(ctx echo.Context) (*GetRegionPricingRequest, error) {
	return &GetRegionPricingRequest{Region: normalizeRegion(ctx.Param("region"))}, nil
}

func (r *GetRegionPricingRequest) Validate() error {
	return validateStruct(r)
}

func (r *GetRegionPricingRequest) GetRegion() entity.Region {
	return entity.Region(r.Region)
}

type CheckoutQuoteRequest struct {
	PlanType      string `json:"plan_type" validate:"required,oneof=simple individual business"`
	Region        string `json:"region" validate:"required,oneof=PT BR US ES FR GB"`
	BillingPeriod string `json:"billing_period" validate:"omitempty,oneof=monthly yearly"`
}

func NewCheckoutQuoteRequestFromContext(ctx echo.Context) (*CheckoutQuoteRequest, error) {
	var body CheckoutQuoteRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.PlanType = normalizePlanType(body.PlanType)
	body.Region = normalizeRegion(body.Region)
	body.BillingPeriod = normalizeBillingPeriod(body.BillingPeriod)
	return &body, nil
}

func (r *CheckoutQuoteRequest) Validate() error {
	return validateStruct(r)
}

func (r *CheckoutQuoteRequest) GetPlanType() entity.PlanType {
	return entity.PlanType(r.PlanType)
}

func (r *CheckoutQuoteRequest) GetRegion() entity.Region {
	return entity.Region(r.Region)
}

func (r *CheckoutQuoteRequest) GetBillingPeriod() entity.BillingPeriod {
	return billingPeriodOrMonthly(r.BillingPeriod)
}

func normalizePlanType(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func normalizeBillingPeriod(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func normalizeRegion(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

func billingPeriodOrMonthly(v string) entity.BillingPeriod {
	if v == "" {
		return entity.BillingPeriodMonthly
	}
	return entity.BillingPeriod(v)
}
