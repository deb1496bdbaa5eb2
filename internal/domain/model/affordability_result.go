package model

import (
	"github.com/shopspring/decimal"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

// AffordabilityResult is the immutable outcome of one calculation.
//
// DSRAfterMaxLoanPercent is evaluated at the stressed rate, which is the
// figure compared against the regulatory limit. IncomeRecognized is false
// only when recognized income was zero; the percentages are then 0.0 and
// carry no meaning.
type AffordabilityResult struct {
	CurrentDSRPercent      decimal.Decimal   `json:"current_dsr_percent"`
	DSRAfterMaxLoanPercent decimal.Decimal   `json:"dsr_after_max_loan_percent"`
	Grade                  valueobject.Grade `json:"grade"`
	MaxLoanPrincipal       int64             `json:"max_loan_principal"`
	IncomeRecognized       bool              `json:"income_recognized"`
}

// FullyRestricted builds the result for a scenario with no headroom: both
// percentages set to the limiting current DSR, principal 0, RESTRICTED.
func FullyRestricted(currentDSRPercent decimal.Decimal) AffordabilityResult {
	return AffordabilityResult{
		CurrentDSRPercent:      currentDSRPercent,
		DSRAfterMaxLoanPercent: currentDSRPercent,
		Grade:                  valueobject.GradeRestricted,
		MaxLoanPrincipal:       0,
		IncomeRecognized:       true,
	}
}

// NoRecognizedIncome is the fully restricted result used when recognized
// income is zero and no ratio can be computed.
func NoRecognizedIncome() AffordabilityResult {
	r := FullyRestricted(decimal.Zero.Round(1))
	r.IncomeRecognized = false
	return r
}

// CanBorrowMore reports whether a positive principal is available and the
// grade does not forbid it.
func (r AffordabilityResult) CanBorrowMore() bool {
	return r.MaxLoanPrincipal > 0 && r.Grade != valueobject.GradeRestricted
}

// IsSafe reports whether the grade is SAFE.
func (r AffordabilityResult) IsSafe() bool {
	return r.Grade == valueobject.GradeSafe
}

// RoundPercent rounds a percentage to one decimal place, half-up.
func RoundPercent(v decimal.Decimal) decimal.Decimal {
	return v.Round(1)
}
