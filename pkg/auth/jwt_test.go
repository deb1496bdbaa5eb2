package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T, secret string, exp time.Duration) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     secret,
		Issuer:     "jipjung-test",
		Expiration: exp,
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t, "test-secret-key-for-unit-tests", 15*time.Minute)
	userID := uuid.New()

	tokenString, err := svc.GenerateToken(userID, []string{RoleUser})
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, []string{RoleUser}, claims.Roles)
	assert.Equal(t, "jipjung-test", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateToken_RSA(t *testing.T) {
	privPEM, pubPEM, err := GenerateKeyPair()
	require.NoError(t, err)

	issuer, err := NewJWTService(JWTConfig{PrivateKeyPEM: string(privPEM), Issuer: "jipjung-test", Expiration: time.Minute})
	require.NoError(t, err)
	validator, err := NewJWTService(JWTConfig{PublicKeyPEM: string(pubPEM), Issuer: "jipjung-test"})
	require.NoError(t, err)

	userID := uuid.New()
	token, err := issuer.GenerateToken(userID, []string{RoleUser})
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	_, err = validator.GenerateToken(userID, nil)
	assert.Error(t, err)
}

func TestValidateToken_Rejections(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		svc := newTestJWTService(t, "secret", -time.Hour)
		token, err := svc.GenerateToken(uuid.New(), []string{RoleUser})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong signature", func(t *testing.T) {
		token, err := newTestJWTService(t, "secret-one", time.Minute).GenerateToken(uuid.New(), nil)
		require.NoError(t, err)

		_, err = newTestJWTService(t, "secret-two", time.Minute).ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewJWTService(JWTConfig{Secret: "secret", Issuer: "someone-else", Expiration: time.Minute})
		require.NoError(t, err)
		token, err := other.GenerateToken(uuid.New(), nil)
		require.NoError(t, err)

		_, err = newTestJWTService(t, "secret", time.Minute).ValidateToken(token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid issuer")
	})

	t.Run("no user id", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Issuer:    "jipjung-test",
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = newTestJWTService(t, "secret", time.Minute).ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestValidateToken_UserFromSubject(t *testing.T) {
	userID := uuid.New()
	claims := jwt.RegisteredClaims{
		Issuer:    "jipjung-test",
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, err := newTestJWTService(t, "secret", time.Minute).ValidateToken(token)

	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
}

func TestNewJWTService_RequiresKey(t *testing.T) {
	_, err := NewJWTService(JWTConfig{Issuer: "x"})
	assert.Error(t, err)
}

func TestHasRole(t *testing.T) {
	claims := Claims{Roles: []string{RoleUser}}

	assert.True(t, claims.HasRole(RoleUser))
	assert.False(t, claims.HasRole(RoleAdmin))
}

func TestUserIDFromContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	userID := uuid.New()
	got, ok := UserIDFromContext(ContextWithClaims(context.Background(), &Claims{UserID: userID}))
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t, "secret", time.Minute)
	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})
	userID := uuid.New()

	var seen uuid.UUID
	handler := func(ctx context.Context, _ any) (any, error) {
		seen, _ = UserIDFromContext(ctx)
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/affordability.v1.AffordabilityService/EstimateQuick"}

	t.Run("valid bearer token", func(t *testing.T) {
		token, err := svc.GenerateToken(userID, []string{RoleUser})
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))

		resp, err := interceptor(ctx, nil, info, handler)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		assert.Equal(t, userID, seen)
	})

	t.Run("missing header", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})

		_, err := interceptor(ctx, nil, info, handler)

		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("bad token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer nope"))

		_, err := interceptor(ctx, nil, info, handler)

		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("skipped method", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)

		assert.NoError(t, err)
	})
}

func TestRequireRole(t *testing.T) {
	interceptor := RequireRole(RoleUser)
	handler := func(context.Context, any) (any, error) { return "ok", nil }
	info := &grpc.UnaryServerInfo{}

	_, err := interceptor(ContextWithClaims(context.Background(), &Claims{Roles: []string{RoleAdmin}}), nil, info, handler)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = interceptor(context.Background(), nil, info, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	resp, err := interceptor(ContextWithClaims(context.Background(), &Claims{Roles: []string{RoleUser}}), nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}
