package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jip-jung/jipjung-backend-sub000/internal/application/dto"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/port"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/service"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

// QuickDefaults are the product defaults a quick estimate falls back on.
// They are not regulatory and live outside the policy table.
type QuickDefaults struct {
	MedianAnnualIncome int64
	DefaultAge         int
	NominalRate        decimal.Decimal
	MaturityYears      int
}

// EstimateQuickUseCase sizes a loan from the stored profile using fixed
// product assumptions. It has no side effects.
type EstimateQuickUseCase struct {
	profiles   port.ProfileRepository
	catalog    *service.PolicyCatalog
	calculator *service.AffordabilityCalculator
	defaults   QuickDefaults
	metrics    port.CalculationMetrics
	logger     *slog.Logger
}

// NewEstimateQuickUseCase creates a new EstimateQuickUseCase.
func NewEstimateQuickUseCase(
	profiles port.ProfileRepository,
	catalog *service.PolicyCatalog,
	calculator *service.AffordabilityCalculator,
	defaults QuickDefaults,
	metrics port.CalculationMetrics,
	logger *slog.Logger,
) *EstimateQuickUseCase {
	return &EstimateQuickUseCase{
		profiles:   profiles,
		catalog:    catalog,
		calculator: calculator,
		defaults:   defaults,
		metrics:    metrics,
		logger:     logger,
	}
}

// Execute builds a LITE scenario from the user's profile and calculates it
// under the default policy.
func (uc *EstimateQuickUseCase) Execute(ctx context.Context, req dto.EstimateQuickRequest) (dto.QuickEstimateResponse, error) {
	profile, err := uc.profiles.FindByUserID(ctx, req.UserID)
	if err != nil {
		return dto.QuickEstimateResponse{}, fmt.Errorf("find profile: %w", err)
	}

	in, incomeDefaulted, ageDefaulted := uc.quickInput(profile, time.Now().UTC())
	if err := in.Validate(); err != nil {
		return dto.QuickEstimateResponse{}, fmt.Errorf("build quick input: %w", err)
	}

	policy := uc.catalog.Default()
	result := uc.calculator.CalculateMaxLoan(in, policy)
	recognized := uc.calculator.RecognizedIncome(in.AnnualIncome, in.Age, policy)

	uc.metrics.RecordCalculation(ctx, valueobject.DSRModeLite, result.Grade)
	uc.logger.Debug("quick estimate calculated",
		"user_id", req.UserID,
		"policy_version", policy.Version(),
		"grade", result.Grade.String(),
		"max_loan", result.MaxLoanPrincipal,
	)

	return dto.QuickEstimateResponse{
		UserID:           req.UserID,
		PolicyVersion:    policy.Version(),
		RecognizedIncome: recognized,
		IncomeDefaulted:  incomeDefaulted,
		AgeDefaulted:     ageDefaulted,
		Result:           toResultResponse(result),
	}, nil
}

// quickInput applies the fixed assumptions: metro region, variable rate,
// bank lender and no secondary loan.
func (uc *EstimateQuickUseCase) quickInput(profile model.UserProfile, now time.Time) (model.AffordabilityInput, bool, bool) {
	income, ok := profile.AnnualIncome()
	incomeDefaulted := !ok
	if incomeDefaulted {
		income = uc.defaults.MedianAnnualIncome
	}

	age, ok := profile.AgeAt(now)
	ageDefaulted := !ok || age <= 0
	if ageDefaulted {
		age = uc.defaults.DefaultAge
	}

	return model.AffordabilityInput{
		AnnualIncome:              income,
		Age:                       age,
		Region:                    valueobject.RegionMetro,
		ExistingAnnualDebtService: profile.ExistingLoanMonthlyPayment() * 12,
		SecondaryLoan:             valueobject.NoSecondaryLoan(),
		RateType:                  valueobject.LoanRateTypeVariable,
		NominalRate:               uc.defaults.NominalRate,
		MaturityYears:             uc.defaults.MaturityYears,
		LenderType:                valueobject.LenderTypeBank,
	}, incomeDefaulted, ageDefaulted
}
