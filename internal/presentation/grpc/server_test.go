package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/jip-jung/jipjung-backend-sub000/internal/application/dto"
	"github.com/jip-jung/jipjung-backend-sub000/pkg/auth"
)

func startTestServer(t *testing.T, jwtSvc *auth.JWTService) *grpc.ClientConn {
	t.Helper()

	handler := NewAffordabilityHandler(nil, nil, nil, stressFunc(func(_ context.Context, req dto.StressRateRequest) (dto.StressRateResponse, error) {
		return dto.StressRateResponse{
			PolicyVersion: "2025H2",
			StressRate:    decimal.RequireFromString("3.0"),
			StressedRate:  req.NominalRate.Add(decimal.RequireFromString("3.0")),
		}, nil
	}), discardLogger())

	srv, err := NewServer(handler, discardLogger(), jwtSvc, ServerOptions{HealthService: "affordability-service"})
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.ServeListener(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_EndToEnd(t *testing.T) {
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "server-test", Issuer: "jipjung-test", Expiration: time.Minute})
	require.NoError(t, err)
	conn := startTestServer(t, jwtSvc)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	method := "/affordability.v1.AffordabilityService/GetStressRate"
	req := &GetStressRateRequest{Region: "METRO", TargetLoanRateType: "VARIABLE", TargetLoanNominalRate: "4.5"}

	t.Run("health check needs no token", func(t *testing.T) {
		resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: "affordability-service"})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	})

	t.Run("rejects calls without a token", func(t *testing.T) {
		var resp GetStressRateResponse
		err := conn.Invoke(ctx, method, req, &resp, grpc.CallContentSubtype("json"))
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("rejects tokens without a user role", func(t *testing.T) {
		token, err := jwtSvc.GenerateToken(uuid.New(), []string{"guest"})
		require.NoError(t, err)
		callCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

		var resp GetStressRateResponse
		err = conn.Invoke(callCtx, method, req, &resp, grpc.CallContentSubtype("json"))
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("serves authenticated calls over the json codec", func(t *testing.T) {
		token, err := jwtSvc.GenerateToken(uuid.New(), []string{auth.RoleUser})
		require.NoError(t, err)
		callCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

		var resp GetStressRateResponse
		require.NoError(t, conn.Invoke(callCtx, method, req, &resp, grpc.CallContentSubtype("json")))
		assert.Equal(t, "2025H2", resp.PolicyVersion)
		assert.Equal(t, "3", resp.StressRate)
		assert.Equal(t, "7.5", resp.StressedRate)
	})
}

func TestNewServer_BadTLSFiles(t *testing.T) {
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "x"})
	require.NoError(t, err)

	_, err = NewServer(NewAffordabilityHandler(nil, nil, nil, nil, discardLogger()), discardLogger(), jwtSvc, ServerOptions{
		CertFile: "/nonexistent/cert.pem",
		KeyFile:  "/nonexistent/key.pem",
	})

	assert.Error(t, err)
}
