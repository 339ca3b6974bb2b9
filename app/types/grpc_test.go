package types

import (
	"testing"

	"github.com/vibast-solutions/ms-go-pricing/app/entity"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestNewGetPlanPriceRequestFromStruct(t *testing.T) {
	in, _ := structpb.NewStruct(map[string]interface{}{"plan_type": " Simple ", "region": "es", "billing_period": 12})
	req := NewGetPlanPriceRequestFromStruct(in)
	if req.GetPlanType() != entity.PlanTypeSimple || req.GetRegion() != entity.RegionES {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.GetBillingPeriod() != entity.BillingPeriodMonthly {
		t.Fatalf("expected non-string billing period to be ignored, got %s", req.GetBillingPeriod())
	}
}

func TestNewGetPriceDisplayRequestFromStructPrefersExplicitLanguage(t *testing.T) {
	in, _ := structpb.NewStruct(map[string]interface{}{"plan_type": "business", "accept_language": "pt-BR"})
	req := NewGetPriceDisplayRequestFromStruct(in, "en-US")
	if req.AcceptLanguage != "pt-BR" {
		t.Fatalf("expected explicit accept_language, got %s", req.AcceptLanguage)
	}

	req = NewGetPriceDisplayRequestFromStruct(nil, "en-US")
	if req.AcceptLanguage != "en-US" || req.PlanType != "" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if err := req.Validate(); err == nil {
		t.Fatal("expected plan_type validation error")
	}
}
