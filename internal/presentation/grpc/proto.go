package grpc

// proto.go defines the gRPC server interface for affordability/v1/affordability.proto.
// It stands in for generated code; messages travel with the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "affordability.v1.AffordabilityService"

// AffordabilityServiceServer is the server API for AffordabilityService.
type AffordabilityServiceServer interface {
	EstimateQuick(context.Context, *EstimateQuickRequest) (*EstimateQuickResponse, error)
	SimulateDetailed(context.Context, *SimulateDetailedRequest) (*SimulateDetailedResponse, error)
	GetLatestSimulation(context.Context, *GetLatestSimulationRequest) (*GetLatestSimulationResponse, error)
	GetStressRate(context.Context, *GetStressRateRequest) (*GetStressRateResponse, error)
	mustEmbedUnimplementedAffordabilityServiceServer()
}

// UnimplementedAffordabilityServiceServer provides forward-compatible default implementations.
type UnimplementedAffordabilityServiceServer struct{}

func (UnimplementedAffordabilityServiceServer) EstimateQuick(context.Context, *EstimateQuickRequest) (*EstimateQuickResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EstimateQuick not implemented")
}
func (UnimplementedAffordabilityServiceServer) SimulateDetailed(context.Context, *SimulateDetailedRequest) (*SimulateDetailedResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SimulateDetailed not implemented")
}
func (UnimplementedAffordabilityServiceServer) GetLatestSimulation(context.Context, *GetLatestSimulationRequest) (*GetLatestSimulationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLatestSimulation not implemented")
}
func (UnimplementedAffordabilityServiceServer) GetStressRate(context.Context, *GetStressRateRequest) (*GetStressRateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetStressRate not implemented")
}
func (UnimplementedAffordabilityServiceServer) mustEmbedUnimplementedAffordabilityServiceServer() {}

// RegisterAffordabilityServiceServer registers the AffordabilityServiceServer with the gRPC server.
func RegisterAffordabilityServiceServer(s *grpclib.Server, srv AffordabilityServiceServer) {
	s.RegisterService(&affordabilityServiceDesc, srv)
}

var affordabilityServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AffordabilityServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "EstimateQuick", Handler: unaryHandler("EstimateQuick", AffordabilityServiceServer.EstimateQuick)},
		{MethodName: "SimulateDetailed", Handler: unaryHandler("SimulateDetailed", AffordabilityServiceServer.SimulateDetailed)},
		{MethodName: "GetLatestSimulation", Handler: unaryHandler("GetLatestSimulation", AffordabilityServiceServer.GetLatestSimulation)},
		{MethodName: "GetStressRate", Handler: unaryHandler("GetStressRate", AffordabilityServiceServer.GetStressRate)},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "affordability/v1/affordability.proto",
}

// unaryHandler adapts a typed service method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](
	method string,
	call func(AffordabilityServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodHandler {
	fullMethod := "/" + serviceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AffordabilityServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AffordabilityServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
