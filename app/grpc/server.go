package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/vibast-solutions/ms-go-pricing/app/entity"
	"github.com/vibast-solutions/ms-go-pricing/app/service"
	"github.com/vibast-solutions/ms-go-pricing/app/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type pricingService interface {
	GetPriceForPlan(plan entity.PlanType, region entity.Region, period entity.BillingPeriod) *entity.PricingEntry
	RefreshPricing(ctx context.Context) error
}

type regionService interface {
	ResolveRegion(ctx context.Context, in service.ResolveRegionInput) (entity.Region, error)
	GetPriceDisplay(region entity.Region, plan entity.PlanType, period entity.BillingPeriod) service.PriceDisplay
}

type Server struct {
	pricingService pricingService
	regionService  regionService
}

func NewServer(pricingService pricingService, regionService regionService) *Server {
	return &Server{pricingService: pricingService, regionService: regionService}
}

func (s *Server) GetPriceDisplay(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	l := loggerWithContext(ctx)
	req := types.NewGetPriceDisplayRequestFromStruct(in, AcceptLanguageFromContext(ctx))
	if err := req.Validate(); err != nil {
		l.WithError(err).Debug("Get price display validation failed")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	region, err := s.regionService.ResolveRegion(ctx, service.ResolveRegionInput{
		Region:         req.Region,
		UserID:         req.UserId,
		AcceptLanguage: req.AcceptLanguage,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRegion) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		l.WithError(err).Error("Resolve region failed")
		return nil, status.Error(codes.Internal, "internal server error")
	}

	plan, period := req.GetPlanType(), req.GetBillingPeriod()
	display := s.regionService.GetPriceDisplay(region, plan, period)
	resp, err := structpb.NewStruct(map[string]interface{}{
		"region":         string(region),
		"plan_type":      string(plan),
		"billing_period": string(period),
		"display_price":  display.Value,
		"source":         display.Tier,
	})
	if err != nil {
		l.WithError(err).Error("Encode price display failed")
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return resp, nil
}

func (s *Server) GetPriceForPlan(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	l := loggerWithContext(ctx)
	req := types.NewGetPlanPriceRequestFromStruct(in)
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	entry := s.pricingService.GetPriceForPlan(req.GetPlanType(), req.GetRegion(), req.GetBillingPeriod())
	if entry == nil {
		return nil, status.Error(codes.NotFound, "pricing not found")
	}

	resp, err := entryToStruct(entry)
	if err != nil {
		l.WithError(err).Error("Encode pricing entry failed")
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return resp, nil
}

func (s *Server) RefreshPricing(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	if err := s.pricingService.RefreshPricing(ctx); err != nil {
		switch {
		case errors.Is(err, service.ErrPricingUnavailable), errors.Is(err, service.ErrServiceClosed):
			loggerWithContext(ctx).WithError(err).Warn("Pricing refresh failed")
			return nil, status.Error(codes.Unavailable, service.LoadErrorMessage)
		case errors.Is(err, context.Canceled):
			return nil, status.Error(codes.Canceled, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			return nil, status.Error(codes.DeadlineExceeded, err.Error())
		default:
			loggerWithContext(ctx).WithError(err).Error("Pricing refresh failed")
			return nil, status.Error(codes.Internal, "internal server error")
		}
	}
	return wrapperspb.Bool(true), nil
}

// entryToStruct keeps the JSON field names of the HTTP API; absent period
// prices stay absent.
func entryToStruct(entry *entity.PricingEntry) (*structpb.Struct, error) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}
