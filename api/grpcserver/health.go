package grpcserver

import (
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GatewayService is the health-checked service name of the payments gateway.
const GatewayService = "payments.Gateway"

// Server is a gRPC server exposing the standard health service.
type Server struct {
	*grpc.Server
	health *health.Server
	logger *slog.Logger
}

// New returns a server whose services start as NOT_SERVING until SetServing is called.
func New(logger *slog.Logger, opts ...grpc.ServerOption) *Server {
	s := &Server{
		Server: grpc.NewServer(opts...),
		health: health.NewServer(),
		logger: logger,
	}
	healthpb.RegisterHealthServer(s.Server, s.health)
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// SetServing flips every service to SERVING or NOT_SERVING.
func (s *Server) SetServing(serving bool) {
	if serving {
		s.setStatus(healthpb.HealthCheckResponse_SERVING)
		return
	}
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(GatewayService, status)
	s.logger.Debug("health status changed", "status", status.String())
}

// Stop marks the services NOT_SERVING and drains in-flight RPCs.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.Server.GracefulStop()
}
