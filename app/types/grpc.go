package types

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// gRPC requests travel as google.protobuf.Struct; these map them onto the
// same request types the HTTP layer validates.

func NewGetPlanPriceRequestFromStruct(in *structpb.Struct) *GetPlanPriceRequest {
	req := &GetPlanPriceRequest{
		PlanType:      structString(in, "plan_type"),
		Region:        structString(in, "region"),
		BillingPeriod: structString(in, "billing_period"),
	}
	req.Normalize()
	return req
}

func NewGetPriceDisplayRequestFromStruct(in *structpb.Struct, acceptLanguage string) *GetPriceDisplayRequest {
	req := &GetPriceDisplayRequest{
		PlanType:       structString(in, "plan_type"),
		BillingPeriod:  structString(in, "billing_period"),
		Region:         structString(in, "region"),
		UserId:         structString(in, "user_id"),
		AcceptLanguage: acceptLanguage,
	}
	if v := structString(in, "accept_language"); v != "" {
		req.AcceptLanguage = v
	}
	req.Normalize()
	return req
}

func structString(in *structpb.Struct, key string) string {
	if in == nil {
		return ""
	}
	v, ok := in.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}
