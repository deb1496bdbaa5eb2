package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jip-jung/jipjung-backend-sub000/internal/application/dto"
	"github.com/jip-jung/jipjung-backend-sub000/internal/application/usecase"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/port"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/service"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

func quickDefaults() usecase.QuickDefaults {
	return usecase.QuickDefaults{
		MedianAnnualIncome: 58_440_000,
		DefaultAge:         35,
		NominalRate:        decimal.RequireFromString("4.5"),
		MaturityYears:      30,
	}
}

func builtinCatalog(t *testing.T) *service.PolicyCatalog {
	t.Helper()
	catalog, err := service.NewBuiltinPolicyCatalog("2025H2")
	require.NoError(t, err)
	return catalog
}

func profileFixture(userID uuid.UUID, income *int64, age *int, monthlyDebt, assets, cachedMax int64) model.UserProfile {
	var birthYear *int
	if age != nil {
		y := time.Now().UTC().Year() - *age
		birthYear = &y
	}
	return model.ReconstructUserProfile(model.ProfileSnapshot{
		UserID:                     userID,
		AnnualIncome:               income,
		BirthYear:                  birthYear,
		ExistingLoanMonthlyPayment: monthlyDebt,
		CurrentAssets:              assets,
		CachedMaxLoanAmount:        cachedMax,
		DSRMode:                    valueobject.DSRModeLite,
		UpdatedAt:                  time.Now().UTC(),
	})
}

func ptr[T any](v T) *T { return &v }

func newQuickUseCase(t *testing.T, repo port.ProfileRepository, metrics *mockCalculationMetrics) *usecase.EstimateQuickUseCase {
	t.Helper()
	return usecase.NewEstimateQuickUseCase(
		repo,
		builtinCatalog(t),
		service.NewAffordabilityCalculator(),
		quickDefaults(),
		metrics,
		discardLogger(),
	)
}

func TestEstimateQuick_Execute(t *testing.T) {
	t.Run("sizes a loan for a debt-free median earner", func(t *testing.T) {
		userID := uuid.New()
		repo := newMockProfileRepository(profileFixture(userID, ptr(int64(58_440_000)), ptr(35), 0, 0, 0))
		metrics := &mockCalculationMetrics{}
		uc := newQuickUseCase(t, repo, metrics)

		resp, err := uc.Execute(context.Background(), dto.EstimateQuickRequest{UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, "2025H2", resp.PolicyVersion)
		assert.Equal(t, int64(58_440_000), resp.RecognizedIncome)
		assert.False(t, resp.IncomeDefaulted)
		assert.False(t, resp.AgeDefaulted)
		assert.True(t, resp.Result.CurrentDSRPercent.IsZero())
		assert.Positive(t, resp.Result.MaxLoanPrincipal)
		assert.True(t, resp.Result.CanBorrowMore)
		assert.True(t, resp.Result.IncomeRecognized)
		// The max loan consumes the whole headroom, so the stressed DSR
		// lands just under the 40% limit.
		assert.Equal(t, "WARNING", resp.Result.Grade)
		assert.True(t, decimal.NewFromInt(40).Equal(resp.Result.DSRAfterMaxLoanPercent))
		assert.Equal(t, []string{"LITE/WARNING"}, metrics.recorded)
	})

	t.Run("falls back to median income and default age", func(t *testing.T) {
		userID := uuid.New()
		repo := newMockProfileRepository(profileFixture(userID, nil, nil, 0, 0, 0))
		uc := newQuickUseCase(t, repo, &mockCalculationMetrics{})

		resp, err := uc.Execute(context.Background(), dto.EstimateQuickRequest{UserID: userID})

		require.NoError(t, err)
		assert.True(t, resp.IncomeDefaulted)
		assert.True(t, resp.AgeDefaulted)
		assert.Equal(t, int64(58_440_000), resp.RecognizedIncome)
	})

	t.Run("applies the youth multiplier", func(t *testing.T) {
		userID := uuid.New()
		repo := newMockProfileRepository(profileFixture(userID, ptr(int64(40_000_000)), ptr(22), 0, 0, 0))
		uc := newQuickUseCase(t, repo, &mockCalculationMetrics{})

		resp, err := uc.Execute(context.Background(), dto.EstimateQuickRequest{UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, int64(60_640_000), resp.RecognizedIncome)
	})

	t.Run("existing monthly payments shrink the max loan", func(t *testing.T) {
		free, indebted := uuid.New(), uuid.New()
		repo := newMockProfileRepository(
			profileFixture(free, ptr(int64(60_000_000)), ptr(40), 0, 0, 0),
			profileFixture(indebted, ptr(int64(60_000_000)), ptr(40), 500_000, 0, 0),
		)
		uc := newQuickUseCase(t, repo, &mockCalculationMetrics{})

		a, err := uc.Execute(context.Background(), dto.EstimateQuickRequest{UserID: free})
		require.NoError(t, err)
		b, err := uc.Execute(context.Background(), dto.EstimateQuickRequest{UserID: indebted})
		require.NoError(t, err)

		assert.Less(t, b.Result.MaxLoanPrincipal, a.Result.MaxLoanPrincipal)
		assert.True(t, decimal.NewFromInt(10).Equal(b.Result.CurrentDSRPercent))
	})

	t.Run("has no side effects", func(t *testing.T) {
		userID := uuid.New()
		repo := newMockProfileRepository(profileFixture(userID, ptr(int64(50_000_000)), ptr(45), 0, 0, 0))
		uc := newQuickUseCase(t, repo, &mockCalculationMetrics{})

		_, err := uc.Execute(context.Background(), dto.EstimateQuickRequest{UserID: userID})

		require.NoError(t, err)
		assert.Empty(t, repo.saved)
	})

	t.Run("fails when profile is missing", func(t *testing.T) {
		uc := newQuickUseCase(t, newMockProfileRepository(), &mockCalculationMetrics{})

		_, err := uc.Execute(context.Background(), dto.EstimateQuickRequest{UserID: uuid.New()})

		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrProfileNotFound)
	})
}
