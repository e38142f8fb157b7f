package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// The service speaks well-known protobuf types only, so no generated code is
// needed:
//
//	service EnergyService {
//	  rpc IngestTelemetry(google.protobuf.Value) returns (google.protobuf.Struct);
//	  rpc GetDay(google.protobuf.Struct) returns (google.protobuf.Struct);
//	  rpc SetLimiter(google.protobuf.Struct) returns (google.protobuf.Struct);
//	}
const (
	EnergyService_ServiceName = "energy.v1.EnergyService"

	EnergyService_IngestTelemetry_FullMethodName = "/energy.v1.EnergyService/IngestTelemetry"
	EnergyService_GetDay_FullMethodName          = "/energy.v1.EnergyService/GetDay"
	EnergyService_SetLimiter_FullMethodName      = "/energy.v1.EnergyService/SetLimiter"
)

type EnergyServiceClient interface {
	IngestTelemetry(ctx context.Context, in *structpb.Value, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetDay(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SetLimiter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type energyServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEnergyServiceClient(cc grpc.ClientConnInterface) EnergyServiceClient {
	return &energyServiceClient{cc}
}

func (c *energyServiceClient) IngestTelemetry(ctx context.Context, in *structpb.Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, EnergyService_IngestTelemetry_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *energyServiceClient) GetDay(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, EnergyService_GetDay_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *energyServiceClient) SetLimiter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, EnergyService_SetLimiter_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type EnergyServiceServer interface {
	IngestTelemetry(context.Context, *structpb.Value) (*structpb.Struct, error)
	GetDay(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetLimiter(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedEnergyServiceServer can be embedded to stay forward compatible.
type UnimplementedEnergyServiceServer struct{}

func (UnimplementedEnergyServiceServer) IngestTelemetry(context.Context, *structpb.Value) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method IngestTelemetry not implemented")
}

func (UnimplementedEnergyServiceServer) GetDay(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetDay not implemented")
}

func (UnimplementedEnergyServiceServer) SetLimiter(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SetLimiter not implemented")
}

func RegisterEnergyServiceServer(s grpc.ServiceRegistrar, srv EnergyServiceServer) {
	s.RegisterService(&EnergyService_ServiceDesc, srv)
}

func _EnergyService_IngestTelemetry_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EnergyServiceServer).IngestTelemetry(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EnergyService_IngestTelemetry_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EnergyServiceServer).IngestTelemetry(ctx, req.(*structpb.Value))
	}
	return interceptor(ctx, in, info, handler)
}

func _EnergyService_GetDay_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EnergyServiceServer).GetDay(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EnergyService_GetDay_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EnergyServiceServer).GetDay(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _EnergyService_SetLimiter_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EnergyServiceServer).SetLimiter(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EnergyService_SetLimiter_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EnergyServiceServer).SetLimiter(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var EnergyService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: EnergyService_ServiceName,
	HandlerType: (*EnergyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "IngestTelemetry",
			Handler:    _EnergyService_IngestTelemetry_Handler,
		},
		{
			MethodName: "GetDay",
			Handler:    _EnergyService_GetDay_Handler,
		},
		{
			MethodName: "SetLimiter",
			Handler:    _EnergyService_SetLimiter_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "energy/v1/energy.proto",
}
