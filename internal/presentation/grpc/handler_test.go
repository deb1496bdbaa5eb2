package grpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jip-jung/jipjung-backend-sub000/internal/application/dto"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/port"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/service"
	"github.com/jip-jung/jipjung-backend-sub000/pkg/auth"
)

type quickFunc func(context.Context, dto.EstimateQuickRequest) (dto.QuickEstimateResponse, error)

func (f quickFunc) Execute(ctx context.Context, req dto.EstimateQuickRequest) (dto.QuickEstimateResponse, error) {
	return f(ctx, req)
}

type detailedFunc func(context.Context, dto.SimulateDetailedRequest) (dto.DetailedSimulationResponse, error)

func (f detailedFunc) Execute(ctx context.Context, req dto.SimulateDetailedRequest) (dto.DetailedSimulationResponse, error) {
	return f(ctx, req)
}

type latestFunc func(context.Context, dto.GetLatestSimulationRequest) (dto.LatestSimulationResponse, error)

func (f latestFunc) Execute(ctx context.Context, req dto.GetLatestSimulationRequest) (dto.LatestSimulationResponse, error) {
	return f(ctx, req)
}

type stressFunc func(context.Context, dto.StressRateRequest) (dto.StressRateResponse, error)

func (f stressFunc) Execute(ctx context.Context, req dto.StressRateRequest) (dto.StressRateResponse, error) {
	return f(ctx, req)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authed(userID uuid.UUID) context.Context {
	return auth.ContextWithClaims(context.Background(), &auth.Claims{UserID: userID, Roles: []string{auth.RoleUser}})
}

func sampleResult() dto.AffordabilityResultResponse {
	return dto.AffordabilityResultResponse{
		CurrentDSRPercent:      decimal.RequireFromString("7.5"),
		DSRAfterMaxLoanPercent: decimal.RequireFromString("40"),
		Grade:                  "WARNING",
		MaxLoanPrincipal:       412_000_000,
		IncomeRecognized:       true,
		CanBorrowMore:          true,
	}
}

func TestHandler_EstimateQuick(t *testing.T) {
	userID := uuid.New()
	var got dto.EstimateQuickRequest
	h := NewAffordabilityHandler(quickFunc(func(_ context.Context, req dto.EstimateQuickRequest) (dto.QuickEstimateResponse, error) {
		got = req
		return dto.QuickEstimateResponse{UserID: req.UserID, PolicyVersion: "2025H2", RecognizedIncome: 58_440_000, Result: sampleResult()}, nil
	}), nil, nil, nil, discardLogger())

	resp, err := h.EstimateQuick(authed(userID), &EstimateQuickRequest{})

	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "2025H2", resp.PolicyVersion)
	assert.Equal(t, "7.5", resp.Result.CurrentDSRPercent)
	assert.Equal(t, "40", resp.Result.DSRAfterMaxLoanPercent)
	assert.Equal(t, "WARNING", resp.Result.Grade)
	assert.Equal(t, int64(412_000_000), resp.Result.MaxLoanPrincipal)
}

func TestHandler_RequiresAuthenticatedUser(t *testing.T) {
	h := NewAffordabilityHandler(nil, nil, nil, nil, discardLogger())

	_, err := h.EstimateQuick(context.Background(), &EstimateQuickRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = h.GetStressRate(context.Background(), &GetStressRateRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestHandler_SimulateDetailed(t *testing.T) {
	userID := uuid.New()

	t.Run("maps request and response", func(t *testing.T) {
		var got dto.SimulateDetailedRequest
		h := NewAffordabilityHandler(nil, detailedFunc(func(_ context.Context, req dto.SimulateDetailedRequest) (dto.DetailedSimulationResponse, error) {
			got = req
			return dto.DetailedSimulationResponse{
				UserID:        req.UserID,
				PolicyVersion: "2025H2",
				StressRate:    decimal.RequireFromString("3.0"),
				StressedRate:  decimal.RequireFromString("7.0"),
				Result:        sampleResult(),
				GameUpdate:    &dto.GameUpdateResponse{OldMaxLoan: 100, NewMaxLoan: 200, ReducedGap: 100, ExpGained: 10},
				SimulationID:  "sim-1",
				HistorySaved:  true,
			}, nil
		}), nil, nil, discardLogger())

		resp, err := h.SimulateDetailed(authed(userID), &SimulateDetailedRequest{
			PolicyVersion: "2025H1",
			Input: &SimulationInputMsg{
				AnnualIncome:              80_000_000,
				Age:                       40,
				Region:                    "METRO",
				ExistingAnnualDebtService: 6_000_000,
				SecondaryLoan:             &SecondaryLoanMsg{Balance: 100_000_000, Rate: "3.5", Included: true},
				TargetLoanRateType:        "VARIABLE",
				TargetLoanNominalRate:     "4.0",
				TargetLoanMaturityYears:   30,
				LenderType:                "BANK",
			},
		})

		require.NoError(t, err)
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, "2025H1", got.PolicyVersion)
		assert.Equal(t, 40, got.Age)
		assert.Equal(t, 30, got.MaturityYears)
		assert.True(t, decimal.RequireFromString("4.0").Equal(got.NominalRate))
		require.NotNil(t, got.SecondaryLoan)
		assert.True(t, decimal.RequireFromString("3.5").Equal(got.SecondaryLoan.Rate))
		assert.Equal(t, "3", resp.StressRate)
		assert.Equal(t, "7", resp.StressedRate)
		require.NotNil(t, resp.GameUpdate)
		assert.Equal(t, int64(10), resp.GameUpdate.ExpGained)
		assert.Equal(t, "sim-1", resp.SimulationID)
		assert.True(t, resp.HistorySaved)
	})

	t.Run("rejects missing input", func(t *testing.T) {
		h := NewAffordabilityHandler(nil, nil, nil, nil, discardLogger())

		_, err := h.SimulateDetailed(authed(userID), &SimulateDetailedRequest{})

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("rejects malformed rate", func(t *testing.T) {
		h := NewAffordabilityHandler(nil, nil, nil, nil, discardLogger())

		_, err := h.SimulateDetailed(authed(userID), &SimulateDetailedRequest{
			Input: &SimulationInputMsg{TargetLoanNominalRate: "four"},
		})

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("requires the target nominal rate", func(t *testing.T) {
		called := false
		h := NewAffordabilityHandler(nil, detailedFunc(func(context.Context, dto.SimulateDetailedRequest) (dto.DetailedSimulationResponse, error) {
			called = true
			return dto.DetailedSimulationResponse{}, nil
		}), nil, nil, discardLogger())

		_, err := h.SimulateDetailed(authed(userID), &SimulateDetailedRequest{
			Input: &SimulationInputMsg{
				AnnualIncome:            60_000_000,
				Age:                     35,
				Region:                  "METRO",
				TargetLoanRateType:      "FIXED",
				TargetLoanMaturityYears: 30,
				LenderType:              "BANK",
			},
		})

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		assert.Contains(t, status.Convert(err).Message(), "target_loan_nominal_rate")
		assert.False(t, called)
	})

	t.Run("requires the secondary loan rate", func(t *testing.T) {
		h := NewAffordabilityHandler(nil, nil, nil, nil, discardLogger())

		_, err := h.SimulateDetailed(authed(userID), &SimulateDetailedRequest{
			Input: &SimulationInputMsg{
				TargetLoanNominalRate: "4.0",
				SecondaryLoan:         &SecondaryLoanMsg{Balance: 50_000_000},
			},
		})

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		assert.Contains(t, status.Convert(err).Message(), "secondary_loan.rate")
	})
}

func TestHandler_GetLatestSimulation(t *testing.T) {
	created := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	h := NewAffordabilityHandler(nil, nil, latestFunc(func(context.Context, dto.GetLatestSimulationRequest) (dto.LatestSimulationResponse, error) {
		return dto.LatestSimulationResponse{
			SimulationID:  "sim-9",
			Mode:          "PRO",
			PolicyVersion: "2025H2",
			Input: dto.SimulationInputResponse{
				AnnualIncome: 50_000_000,
				Age:          33,
				Region:       "OTHER",
				RateType:     "FIXED",
				NominalRate:  decimal.RequireFromString("3.9"),
				LenderType:   "BANK",
			},
			Result:        sampleResult(),
			MaxLoanAmount: 412_000_000,
			CreatedAt:     created,
		}, nil
	}), nil, discardLogger())

	resp, err := h.GetLatestSimulation(authed(uuid.New()), &GetLatestSimulationRequest{})

	require.NoError(t, err)
	assert.Equal(t, "sim-9", resp.SimulationID)
	assert.Equal(t, "PRO", resp.Mode)
	assert.Equal(t, "3.9", resp.Input.TargetLoanNominalRate)
	assert.Nil(t, resp.Input.SecondaryLoan)
	assert.Equal(t, "2025-09-01T10:00:00Z", resp.CreatedAt)
}

func TestHandler_GetStressRate(t *testing.T) {
	var got dto.StressRateRequest
	h := NewAffordabilityHandler(nil, nil, nil, stressFunc(func(_ context.Context, req dto.StressRateRequest) (dto.StressRateResponse, error) {
		got = req
		return dto.StressRateResponse{
			PolicyVersion: "2025H2",
			StressRate:    decimal.RequireFromString("1.2"),
			StressedRate:  decimal.RequireFromString("5.2"),
		}, nil
	}), discardLogger())

	resp, err := h.GetStressRate(authed(uuid.New()), &GetStressRateRequest{
		Region:                "METRO",
		TargetLoanRateType:    "PERIODIC",
		TargetLoanNominalRate: "4.0",
	})

	require.NoError(t, err)
	assert.Equal(t, "METRO", got.Region)
	assert.Equal(t, "PERIODIC", got.RateType)
	assert.Equal(t, "1.2", resp.StressRate)
	assert.Equal(t, "5.2", resp.StressedRate)

	_, err = h.GetStressRate(authed(uuid.New()), &GetStressRateRequest{
		Region:             "OTHER",
		TargetLoanRateType: "VARIABLE",
	})
	require.NoError(t, err)
	assert.True(t, got.NominalRate.IsZero())
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "invalid input", err: fmt.Errorf("%w: region is required", model.ErrInvalidInput), want: codes.InvalidArgument},
		{name: "unknown policy", err: fmt.Errorf("resolve policy: %w", service.ErrUnknownPolicyVersion), want: codes.InvalidArgument},
		{name: "profile missing", err: fmt.Errorf("load profile: %w", port.ErrProfileNotFound), want: codes.NotFound},
		{name: "no history", err: port.ErrSimulationNotFound, want: codes.NotFound},
		{name: "lock contended", err: fmt.Errorf("%w: busy", port.ErrLockNotAcquired), want: codes.Aborted},
		{name: "deadline", err: context.DeadlineExceeded, want: codes.DeadlineExceeded},
		{name: "anything else", err: errors.New("connection reset"), want: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAffordabilityHandler(quickFunc(func(context.Context, dto.EstimateQuickRequest) (dto.QuickEstimateResponse, error) {
				return dto.QuickEstimateResponse{}, tt.err
			}), nil, nil, nil, discardLogger())

			_, err := h.EstimateQuick(authed(uuid.New()), &EstimateQuickRequest{})

			assert.Equal(t, tt.want, status.Code(err))
		})
	}

	t.Run("internal errors are not leaked", func(t *testing.T) {
		h := NewAffordabilityHandler(quickFunc(func(context.Context, dto.EstimateQuickRequest) (dto.QuickEstimateResponse, error) {
			return dto.QuickEstimateResponse{}, errors.New("pq: password authentication failed")
		}), nil, nil, nil, discardLogger())

		_, err := h.EstimateQuick(authed(uuid.New()), &EstimateQuickRequest{})

		assert.NotContains(t, status.Convert(err).Message(), "password")
	})
}
