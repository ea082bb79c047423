package trafficlight

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/traffic-light/internal/domain/trafficlight"
	"github.com/oshokin/traffic-light/internal/logger"
)

// Service abstracts the controller operations the transport layer depends on.
type Service interface {
	Status(ctx context.Context) domain.Status
	SwitchMode(ctx context.Context) (domain.Status, error)
}

// Server implements the TrafficLight gRPC API.
type Server struct {
	// service provides the controller operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// GetStatus returns the current controller snapshot.
func (s *Server) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return EncodeStatus(s.service.Status(ctx)), nil
}

// SwitchMode requests a maintenance toggle.
func (s *Server) SwitchMode(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if actor, ok := ActorFromContext(ctx); ok {
		ctx = logger.WithKV(ctx, "hostname", actor.Hostname, "username", actor.Username)
	}

	logger.Info(ctx, "Mode switch requested")

	snapshot, err := s.service.SwitchMode(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Mode switch rejected", "error", err)
		return nil, status.Error(codes.Unavailable, "unable to switch mode")
	}

	return EncodeStatus(snapshot), nil
}
