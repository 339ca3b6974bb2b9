package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-pricing/app/dto"
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
	"github.com/vibast-solutions/ms-go-pricing/app/factory"
	"github.com/vibast-solutions/ms-go-pricing/app/mapper"
	"github.com/vibast-solutions/ms-go-pricing/app/payment"
	"github.com/vibast-solutions/ms-go-pricing/app/service"
	"github.com/vibast-solutions/ms-go-pricing/app/types"
)

type pricingService interface {
	State() service.PricingState
	Matrix() entity.PricingMatrix
	RegionEntries(region entity.Region) []entity.PricingEntry
	FetchRegionPricing(ctx context.Context, region entity.Region) []entity.PricingEntry
	GetPriceForPlan(plan entity.PlanType, region entity.Region, period entity.BillingPeriod) *entity.PricingEntry
	RefreshPricing(ctx context.Context) error
}

type regionService interface {
	DefaultRegion() entity.Region
	ListRegions() []service.RegionInfo
	ResolveRegion(ctx context.Context, in service.ResolveRegionInput) (entity.Region, error)
	GetPreference(ctx context.Context, userID string) (*entity.RegionPreference, error)
	SetPreference(ctx context.Context, userID string, region string) (*entity.RegionPreference, error)
	GetPriceDisplay(region entity.Region, plan entity.PlanType, period entity.BillingPeriod) service.PriceDisplay
}

type PricingController struct {
	pricingService pricingService
	regionService  regionService
	quoteService   payment.Service
	logger         logrus.FieldLogger
}

func NewPricingController(
	pricingService pricingService,
	regionService regionService,
	quoteService payment.Service,
) *PricingController {
	return &PricingController{
		pricingService: pricingService,
		regionService:  regionService,
		quoteService:   quoteService,
		logger:         factory.NewModuleLogger("pricing-controller"),
	}
}

func (c *PricingController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &dto.HealthResponse{Status: "ok"})
}

func (c *PricingController) Status(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, mapper.PricingStateToDTO(c.pricingService.State()))
}

func (c *PricingController) Matrix(ctx echo.Context) error {
	state := c.pricingService.State()
	matrix := c.pricingService.Matrix()
	if matrix == nil {
		if state.Loading {
			return c.writeError(ctx, http.StatusServiceUnavailable, "pricing is loading")
		}
		return c.writeError(ctx, http.StatusServiceUnavailable, service.LoadErrorMessage)
	}

	resp := &dto.PricingMatrixResponse{Matrix: matrix}
	if !state.UpdatedAt.IsZero() {
		resp.UpdatedAt = state.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (c *PricingController) RegionPricing(ctx echo.Context) error {
	req, err := types.NewGetRegionPricingRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	region := req.GetRegion()
	return ctx.JSON(http.StatusOK, mapper.RegionPricingToDTO(region, c.pricingService.RegionEntries(region)))
}

func (c *PricingController) LiveRegionPricing(ctx echo.Context) error {
	req, err := types.NewGetRegionPricingRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	region := req.GetRegion()
	entries := c.pricingService.FetchRegionPricing(ctx.Request().Context(), region)
	return ctx.JSON(http.StatusOK, mapper.RegionPricingToDTO(region, entries))
}

func (c *PricingController) PlanPrice(ctx echo.Context) error {
	req, err := types.NewGetPlanPriceRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid query params")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	entry := c.pricingService.GetPriceForPlan(req.GetPlanType(), req.GetRegion(), req.GetBillingPeriod())
	if entry == nil {
		return c.writeError(ctx, http.StatusNotFound, "pricing not found")
	}
	return ctx.JSON(http.StatusOK, &dto.PlanPriceResponse{Pricing: entry})
}

func (c *PricingController) PriceDisplay(ctx echo.Context) error {
	req, err := types.NewGetPriceDisplayRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid query params")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	region, err := c.regionService.ResolveRegion(ctx.Request().Context(), service.ResolveRegionInput{
		Region:         req.Region,
		UserID:         req.UserId,
		AcceptLanguage: req.AcceptLanguage,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRegion) {
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Resolve region failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	plan, period := req.GetPlanType(), req.GetBillingPeriod()
	display := c.regionService.GetPriceDisplay(region, plan, period)
	return ctx.JSON(http.StatusOK, mapper.PriceDisplayToDTO(region, plan, period, display))
}

func (c *PricingController) Refresh(ctx echo.Context) error {
	if err := c.pricingService.RefreshPricing(ctx.Request().Context()); err != nil {
		switch {
		case errors.Is(err, service.ErrPricingUnavailable), errors.Is(err, service.ErrServiceClosed):
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Warn("Pricing refresh failed")
			return c.writeError(ctx, http.StatusServiceUnavailable, service.LoadErrorMessage)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return c.writeError(ctx, http.StatusGatewayTimeout, "pricing refresh timed out")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Pricing refresh failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, mapper.PricingStateToDTO(c.pricingService.State()))
}

func (c *PricingController) ListRegions(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, mapper.RegionsToDTO(c.regionService.DefaultRegion(), c.regionService.ListRegions()))
}

func (c *PricingController) GetRegionPreference(ctx echo.Context) error {
	req, err := types.NewGetRegionPreferenceRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid query params")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	pref, err := c.regionService.GetPreference(ctx.Request().Context(), req.GetUserId())
	if err != nil {
		if errors.Is(err, service.ErrPreferenceNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "region preference not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get region preference failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.RegionPreferenceToDTO(pref))
}

func (c *PricingController) SetRegionPreference(ctx echo.Context) error {
	req, err := types.NewSetRegionPreferenceRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	pref, err := c.regionService.SetPreference(ctx.Request().Context(), req.GetUserId(), req.GetRegion())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrInvalidRegion):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Set region preference failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, mapper.RegionPreferenceToDTO(pref))
}

func (c *PricingController) CheckoutQuote(ctx echo.Context) error {
	req, err := types.NewCheckoutQuoteRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result := c.quoteService.Quote(ctx.Request().Context(), req.GetPlanType(), req.GetRegion(), req.GetBillingPeriod())
	if result.Type != payment.ResultTypeQuoted {
		return ctx.JSON(http.StatusUnprocessableEntity, mapper.QuoteToDTO(result))
	}
	return ctx.JSON(http.StatusOK, mapper.QuoteToDTO(result))
}

func (c *PricingController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &dto.ErrorResponse{Error: message})
}
