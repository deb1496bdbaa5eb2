package service

import (
	"github.com/shopspring/decimal"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// AffordabilityCalculator – DSR loan-sizing engine
// ---------------------------------------------------------------------------

// warningBand is how close (in percentage points) the stressed DSR may come
// to the limit before the grade drops from SAFE to WARNING.
var warningBand = decimal.NewFromInt(5)

var hundred = decimal.NewFromInt(100)

// AffordabilityCalculator sizes the largest loan a borrower may take under a
// policy. It holds no state and is safe for concurrent use.
type AffordabilityCalculator struct{}

// NewAffordabilityCalculator returns a new calculator.
func NewAffordabilityCalculator() *AffordabilityCalculator {
	return &AffordabilityCalculator{}
}

// RecognizedIncome is round(annualIncome * futureIncomeMultiplier(age)).
func (c *AffordabilityCalculator) RecognizedIncome(annualIncome int64, age int, policy model.PolicyTable) int64 {
	return decimal.NewFromInt(annualIncome).
		Mul(policy.FutureIncomeMultiplier(age)).
		Round(0).
		IntPart()
}

// StressRate is the stress base for region scaled by the rate type's factor,
// in percentage points at full precision.
func (c *AffordabilityCalculator) StressRate(
	region valueobject.Region,
	rateType valueobject.LoanRateType,
	policy model.PolicyTable,
) decimal.Decimal {
	return policy.BaseStressRate(region).Mul(rateType.StressFactor())
}

// CalculateMaxLoan runs the full affordability algorithm. It never fails:
// scenarios without income or headroom yield a RESTRICTED result.
//
// Currency steps use round (recognized income, secondary-loan interest) or
// floor (DSR ceiling, principal) exactly as regulators size the loan; the
// floors make the engine conservative at the boundary.
func (c *AffordabilityCalculator) CalculateMaxLoan(
	in model.AffordabilityInput,
	policy model.PolicyTable,
) model.AffordabilityResult {
	// 1. Recognized income.
	recognized := c.RecognizedIncome(in.AnnualIncome, in.Age, policy)
	if recognized <= 0 {
		return model.NoRecognizedIncome()
	}
	income := decimal.NewFromInt(recognized)

	// 2. Existing debt service, including an opted-in secondary loan's interest.
	existing := in.ExistingAnnualDebtService + in.SecondaryLoan.AnnualInterest()
	existingDec := decimal.NewFromInt(existing)

	// 3. DSR ceiling in currency units.
	limitRatio := policy.DSRLimitRatio(in.LenderType)
	ceiling := income.Mul(limitRatio).Floor().IntPart()

	// 4. Headroom for new debt service.
	headroom := ceiling - existing
	if headroom <= 0 {
		return model.FullyRestricted(currentDSR(existingDec, income))
	}

	// 5. Stressed rate.
	stressed := in.NominalRate.Add(c.StressRate(in.Region, in.RateType, policy))
	monthlyRate := model.MonthlyRateFromPercent(stressed.InexactFloat64())
	months := in.MaturityMonths()

	// 6. Invert the annuity at the stressed rate.
	principal := model.MaxPrincipalForAnnualPayment(headroom, monthlyRate, months)
	if principal <= 0 {
		return model.FullyRestricted(currentDSR(existingDec, income))
	}

	// 7. Current DSR, unrounded.
	current := existingDec.Mul(hundred).Div(income)

	// 8. Post-loan stressed annual debt service.
	annualService := model.MonthlyPayment(float64(principal), monthlyRate, months) * 12

	// 9. DSR after the max loan.
	after := (float64(existing) + annualService) * 100 / float64(recognized)

	// 10. Grade against the limit.
	limitPercent := limitRatio.Mul(hundred).InexactFloat64()
	grade := gradeFor(after, limitPercent)

	// 11.
	return model.AffordabilityResult{
		CurrentDSRPercent:      model.RoundPercent(current),
		DSRAfterMaxLoanPercent: model.RoundPercent(decimal.NewFromFloat(after)),
		Grade:                  grade,
		MaxLoanPrincipal:       principal,
		IncomeRecognized:       true,
	}
}

func currentDSR(existing, income decimal.Decimal) decimal.Decimal {
	return model.RoundPercent(existing.Mul(hundred).Div(income))
}

func gradeFor(dsrAfter, limitPercent float64) valueobject.Grade {
	switch {
	case dsrAfter >= limitPercent:
		return valueobject.GradeRestricted
	case dsrAfter >= limitPercent-warningBand.InexactFloat64():
		return valueobject.GradeWarning
	default:
		return valueobject.GradeSafe
	}
}
