package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/jip-jung/jipjung-backend-sub000/pkg/auth"
	"github.com/jip-jung/jipjung-backend-sub000/pkg/tlsutil"
)

// ServerOptions configures transport security and reflection.
type ServerOptions struct {
	HealthService string
	CertFile      string
	KeyFile       string
	ClientCAFile  string
	Reflection    bool
}

// Server wraps a gRPC server with the affordability handler registered.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	name   string
	logger *slog.Logger
}

// NewServer creates and configures the gRPC server.
func NewServer(handler *AffordabilityHandler, logger *slog.Logger, jwtService *auth.JWTService, opts ServerOptions) (*Server, error) {
	authInterceptor := auth.UnaryAuthInterceptor(jwtService, []string{
		"/grpc.health.v1.Health/Check",
		"/grpc.health.v1.Health/Watch",
	})

	serverOpts := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(authInterceptor, serviceRoleInterceptor(auth.RoleUser, auth.RoleAdmin)),
	}

	if opts.CertFile != "" && opts.KeyFile != "" {
		creds, err := tlsutil.ServerTLSConfig(opts.CertFile, opts.KeyFile, opts.ClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("load grpc tls credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", opts.CertFile, "mtls", opts.ClientCAFile != "")
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	gs := grpc.NewServer(serverOpts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(opts.HealthService, healthpb.HealthCheckResponse_SERVING)

	if opts.Reflection {
		reflection.Register(gs)
	}

	RegisterAffordabilityServiceServer(gs, handler)

	return &Server{
		gs:     gs,
		health: healthSrv,
		name:   opts.HealthService,
		logger: logger,
	}, nil
}

// Serve starts the gRPC server on the specified address.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.gs.Serve(lis)
}

// GracefulStop marks the service not serving, then drains in-flight calls.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.health.SetServingStatus(s.name, healthpb.HealthCheckResponse_NOT_SERVING)
	s.gs.GracefulStop()
}

// serviceRoleInterceptor applies the role check to affordability methods
// only, leaving health checks open.
func serviceRoleInterceptor(roles ...string) grpc.UnaryServerInterceptor {
	check := auth.RequireRole(roles...)
	prefix := "/" + serviceName + "/"
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, prefix) {
			return handler(ctx, req)
		}
		return check(ctx, req, info, handler)
	}
}
