package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

// ErrInvalidInput marks an affordability scenario that violates the
// calculator's input contract.
var ErrInvalidInput = errors.New("invalid affordability input")

// AffordabilityInput is an immutable description of one borrower scenario.
// Build it with NewAffordabilityInput so the contract below holds.
type AffordabilityInput struct {
	AnnualIncome              int64                     `json:"annual_income"`
	Age                       int                       `json:"age"`
	Region                    valueobject.Region        `json:"region"`
	ExistingAnnualDebtService int64                     `json:"existing_annual_debt_service"`
	SecondaryLoan             valueobject.SecondaryLoan `json:"secondary_loan"`
	RateType                  valueobject.LoanRateType  `json:"target_loan_rate_type"`
	NominalRate               decimal.Decimal           `json:"target_loan_nominal_rate"`
	MaturityYears             int                       `json:"target_loan_maturity_years"`
	LenderType                valueobject.LenderType    `json:"lender_type"`
}

// NewAffordabilityInput validates in and returns it unchanged.
// Incomes and debt service are non-negative, the nominal rate is
// non-negative, maturity is at least one year and all enums are set. Age is
// not bounded; implausible ages simply miss every future-income band.
func NewAffordabilityInput(in AffordabilityInput) (AffordabilityInput, error) {
	if err := in.Validate(); err != nil {
		return AffordabilityInput{}, err
	}
	return in, nil
}

// Validate checks the input contract.
func (in AffordabilityInput) Validate() error {
	var errs []error
	if in.AnnualIncome < 0 {
		errs = append(errs, errors.New("annual income must not be negative"))
	}
	if in.ExistingAnnualDebtService < 0 {
		errs = append(errs, errors.New("existing annual debt service must not be negative"))
	}
	if in.NominalRate.IsNegative() {
		errs = append(errs, errors.New("target loan nominal rate must not be negative"))
	}
	if in.MaturityYears < 1 {
		errs = append(errs, errors.New("target loan maturity must be at least one year"))
	}
	if in.Region.IsZero() {
		errs = append(errs, errors.New("region is required"))
	}
	if in.RateType.IsZero() {
		errs = append(errs, errors.New("target loan rate type is required"))
	}
	if in.LenderType.IsZero() {
		errs = append(errs, errors.New("lender type is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// MaturityMonths is the amortization term in months.
func (in AffordabilityInput) MaturityMonths() int {
	return in.MaturityYears * 12
}
