package trafficlight

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "trafficlight.v1.TrafficLight"

	// GetStatusMethod is the full name of the status query.
	GetStatusMethod = "/" + ServiceName + "/GetStatus"
	// SwitchModeMethod is the full name of the maintenance toggle.
	SwitchModeMethod = "/" + ServiceName + "/SwitchMode"
)

// TrafficLightServer is the server API of trafficlight.v1.TrafficLight.
type TrafficLightServer interface {
	GetStatus(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	SwitchMode(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

//nolint:gochecknoglobals // Service descriptors are package-level in grpc-go.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TrafficLightServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetStatus",
			Handler:    getStatusHandler,
		},
		{
			MethodName: "SwitchMode",
			Handler:    switchModeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "trafficlight/v1/trafficlight.proto",
}

// Register adds the traffic-light service to registrar.
func Register(registrar grpc.ServiceRegistrar, server TrafficLightServer) {
	registrar.RegisterService(&serviceDesc, server)
}

func getStatusHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	server, _ := srv.(TrafficLightServer)
	if interceptor == nil {
		return server.GetStatus(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetStatusMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		empty, _ := req.(*emptypb.Empty)
		return server.GetStatus(ctx, empty)
	}

	return interceptor(ctx, in, info, handler)
}

func switchModeHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	server, _ := srv.(TrafficLightServer)
	if interceptor == nil {
		return server.SwitchMode(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SwitchModeMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		empty, _ := req.(*emptypb.Empty)
		return server.SwitchMode(ctx, empty)
	}

	return interceptor(ctx, in, info, handler)
}

// Client is the client API of trafficlight.v1.TrafficLight.
type Client struct {
	// cc is the connection the calls are made on.
	cc grpc.ClientConnInterface
}

// NewClient creates a client on cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// GetStatus returns the controller snapshot.
func (c *Client) GetStatus(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetStatusMethod, new(emptypb.Empty), out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// SwitchMode toggles maintenance mode and returns the snapshot taken when
// the request was queued.
func (c *Client) SwitchMode(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SwitchModeMethod, new(emptypb.Empty), out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
