package usecase

import (
	"fmt"

	"github.com/jip-jung/jipjung-backend-sub000/internal/application/dto"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/service"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

func toResultResponse(r model.AffordabilityResult) dto.AffordabilityResultResponse {
	return dto.AffordabilityResultResponse{
		CurrentDSRPercent:      r.CurrentDSRPercent,
		DSRAfterMaxLoanPercent: r.DSRAfterMaxLoanPercent,
		Grade:                  r.Grade.String(),
		MaxLoanPrincipal:       r.MaxLoanPrincipal,
		IncomeRecognized:       r.IncomeRecognized,
		CanBorrowMore:          r.CanBorrowMore(),
		IsSafe:                 r.IsSafe(),
	}
}

func toGameUpdateResponse(g service.GameUpdate) *dto.GameUpdateResponse {
	return &dto.GameUpdateResponse{
		OldMaxLoan:     g.OldMaxLoan,
		NewMaxLoan:     g.NewMaxLoan,
		RequiredBefore: g.RequiredBefore,
		RequiredAfter:  g.RequiredAfter,
		ReducedGap:     g.ReducedGap,
		ExpGained:      g.ExpGained,
	}
}

func toInputResponse(in model.AffordabilityInput) dto.SimulationInputResponse {
	resp := dto.SimulationInputResponse{
		AnnualIncome:              in.AnnualIncome,
		Age:                       in.Age,
		Region:                    in.Region.String(),
		ExistingAnnualDebtService: in.ExistingAnnualDebtService,
		RateType:                  in.RateType.String(),
		NominalRate:               in.NominalRate,
		MaturityYears:             in.MaturityYears,
		LenderType:                in.LenderType.String(),
	}
	if in.SecondaryLoan.Present() {
		resp.SecondaryLoan = &dto.SecondaryLoanRequest{
			Balance:  in.SecondaryLoan.Balance(),
			Rate:     in.SecondaryLoan.Rate(),
			Included: in.SecondaryLoan.Included(),
		}
	}
	return resp
}

// inputFromRequest parses and validates a detailed-mode scenario. Every
// failure wraps model.ErrInvalidInput.
func inputFromRequest(req dto.SimulateDetailedRequest) (model.AffordabilityInput, error) {
	region, err := valueobject.NewRegion(req.Region)
	if err != nil {
		return model.AffordabilityInput{}, fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
	}
	rateType, err := valueobject.NewLoanRateType(req.RateType)
	if err != nil {
		return model.AffordabilityInput{}, fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
	}
	lender, err := valueobject.NewLenderType(req.LenderType)
	if err != nil {
		return model.AffordabilityInput{}, fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
	}

	secondary := valueobject.NoSecondaryLoan()
	if req.SecondaryLoan != nil {
		secondary, err = valueobject.NewSecondaryLoan(req.SecondaryLoan.Balance, req.SecondaryLoan.Rate, req.SecondaryLoan.Included)
		if err != nil {
			return model.AffordabilityInput{}, fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
		}
	}

	return model.NewAffordabilityInput(model.AffordabilityInput{
		AnnualIncome:              req.AnnualIncome,
		Age:                       req.Age,
		Region:                    region,
		ExistingAnnualDebtService: req.ExistingAnnualDebtService,
		SecondaryLoan:             secondary,
		RateType:                  rateType,
		NominalRate:               req.NominalRate,
		MaturityYears:             req.MaturityYears,
		LenderType:                lender,
	})
}
