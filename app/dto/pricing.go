package dto

import "github.com/vibast-solutions/ms-go-pricing/app/entity"

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PricingStatusResponse struct {
	Loading         bool   `json:"loading"`
	Error           string `json:"error,omitempty"`
	HasData         bool   `json:"has_data"`
	ServedFromCache bool   `json:"served_from_cache"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

type PricingMatrixResponse struct {
	Matrix    entity.PricingMatrix `json:"matrix"`
	UpdatedAt string               `json:"updated_at,omitempty"`
}

type RegionPricingResponse struct {
	Region  string               `json:"region"`
	Pricing []entity.PricingEntry `json:"pricing"`
}

type PlanPriceResponse struct {
	Pricing *entity.PricingEntry `json:"pricing"`
}

type PriceDisplayResponse struct {
	Region        string `json:"region"`
	PlanType      string `json:"plan_type"`
	BillingPeriod string `json:"billing_period"`
	DisplayPrice  string `json:"display_price"`
	Source        string `json:"source"`
}

type RegionResponse struct {
	Region   string `json:"region"`
	Language string `json:"language"`
	Currency string `json:"currency"`
}

type ListRegionsResponse struct {
	DefaultRegion string           `json:"default_region"`
	Regions       []RegionResponse `json:"regions"`
}

type RegionPreferenceResponse struct {
	UserID    string `json:"user_id"`
	Region    string `json:"region"`
	Language  string `json:"language"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CheckoutQuoteResponse struct {
	Status        string `json:"status"`
	PlanType      string `json:"plan_type"`
	Region        string `json:"region"`
	BillingPeriod string `json:"billing_period"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	DisplayPrice  string `json:"display_price,omitempty"`
	Error         string `json:"error,omitempty"`
}
