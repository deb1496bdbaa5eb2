package usecase

import (
	"context"
	"fmt"

	"github.com/jip-jung/jipjung-backend-sub000/internal/application/dto"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/service"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

// GetStressRateUseCase reports the stress rate a loan product would carry.
type GetStressRateUseCase struct {
	catalog    *service.PolicyCatalog
	calculator *service.AffordabilityCalculator
}

// NewGetStressRateUseCase creates a new GetStressRateUseCase.
func NewGetStressRateUseCase(catalog *service.PolicyCatalog, calculator *service.AffordabilityCalculator) *GetStressRateUseCase {
	return &GetStressRateUseCase{catalog: catalog, calculator: calculator}
}

// Execute returns the stress rate and the resulting stressed rate, both
// rounded to one decimal place.
func (uc *GetStressRateUseCase) Execute(_ context.Context, req dto.StressRateRequest) (dto.StressRateResponse, error) {
	region, err := valueobject.NewRegion(req.Region)
	if err != nil {
		return dto.StressRateResponse{}, fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
	}
	rateType, err := valueobject.NewLoanRateType(req.RateType)
	if err != nil {
		return dto.StressRateResponse{}, fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
	}
	if req.NominalRate.IsNegative() {
		return dto.StressRateResponse{}, fmt.Errorf("%w: target loan nominal rate must not be negative", model.ErrInvalidInput)
	}

	policy, err := uc.catalog.Resolve(req.PolicyVersion)
	if err != nil {
		return dto.StressRateResponse{}, fmt.Errorf("resolve policy: %w", err)
	}

	stress := uc.calculator.StressRate(region, rateType, policy)
	return dto.StressRateResponse{
		PolicyVersion: policy.Version(),
		StressRate:    model.RoundPercent(stress),
		StressedRate:  model.RoundPercent(req.NominalRate.Add(stress)),
	}, nil
}
