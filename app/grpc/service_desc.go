package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const pricingServiceName = "pricing.PricingService"

type PricingServiceServer interface {
	GetPriceDisplay(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetPriceForPlan(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	RefreshPricing(ctx context.Context, in *emptypb.Empty) (*wrapperspb.BoolValue, error)
}

// PricingServiceDesc describes pricing.PricingService. Messages are
// protobuf well-known types so no generated code is needed on either side.
var PricingServiceDesc = grpc.ServiceDesc{
	ServiceName: pricingServiceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetPriceDisplay", Handler: getPriceDisplayHandler},
		{MethodName: "GetPriceForPlan", Handler: getPriceForPlanHandler},
		{MethodName: "RefreshPricing", Handler: refreshPricingHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pricing.proto",
}

func RegisterPricingServiceServer(registrar grpc.ServiceRegistrar, srv PricingServiceServer) {
	registrar.RegisterService(&PricingServiceDesc, srv)
}

func FullMethod(method string) string {
	return "/" + pricingServiceName + "/" + method
}

func getPriceDisplayHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServiceServer).GetPriceDisplay(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod("GetPriceDisplay")}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PricingServiceServer).GetPriceDisplay(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getPriceForPlanHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServiceServer).GetPriceForPlan(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod("GetPriceForPlan")}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PricingServiceServer).GetPriceForPlan(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func refreshPricingHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServiceServer).RefreshPricing(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod("RefreshPricing")}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PricingServiceServer).RefreshPricing(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
