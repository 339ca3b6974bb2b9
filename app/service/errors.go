package service

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidRegion      = errors.New("invalid region")
	ErrInvalidPlanType    = errors.New("invalid plan type")
	ErrInvalidPeriod      = errors.New("invalid billing period")
	ErrPricingUnavailable = errors.New("pricing unavailable")
	ErrPricingNotFound    = errors.New("pricing not found")
	ErrPreferenceNotFound = errors.New("region preference not found")
	ErrServiceClosed      = errors.New("pricing service closed")
)

// LoadErrorMessage is surfaced when no pricing data could be loaded at all.
const LoadErrorMessage = "Failed to load pricing data"
