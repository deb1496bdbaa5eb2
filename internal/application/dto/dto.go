package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// EstimateQuickRequest asks for a quick estimate from the stored profile.
type EstimateQuickRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// SecondaryLoanRequest describes an existing interest-only loan.
type SecondaryLoanRequest struct {
	Balance  int64           `json:"balance"`
	Rate     decimal.Decimal `json:"rate"`
	Included bool            `json:"included"`
}

// SimulateDetailedRequest carries a full borrower scenario.
type SimulateDetailedRequest struct {
	UserID                    uuid.UUID             `json:"user_id"`
	PolicyVersion             string                `json:"policy_version,omitempty"`
	AnnualIncome              int64                 `json:"annual_income"`
	Age                       int                   `json:"age"`
	Region                    string                `json:"region"`
	ExistingAnnualDebtService int64                 `json:"existing_annual_debt_service"`
	SecondaryLoan             *SecondaryLoanRequest `json:"secondary_loan,omitempty"`
	RateType                  string                `json:"target_loan_rate_type"`
	NominalRate               decimal.Decimal       `json:"target_loan_nominal_rate"`
	MaturityYears             int                   `json:"target_loan_maturity_years"`
	LenderType                string                `json:"lender_type"`
}

// GetLatestSimulationRequest identifies whose last detailed simulation to restore.
type GetLatestSimulationRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// StressRateRequest asks which stress rate applies to a loan product.
type StressRateRequest struct {
	PolicyVersion string          `json:"policy_version,omitempty"`
	Region        string          `json:"region"`
	RateType      string          `json:"target_loan_rate_type"`
	NominalRate   decimal.Decimal `json:"target_loan_nominal_rate"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// AffordabilityResultResponse is the external representation of a result.
type AffordabilityResultResponse struct {
	CurrentDSRPercent      decimal.Decimal `json:"current_dsr_percent"`
	DSRAfterMaxLoanPercent decimal.Decimal `json:"dsr_after_max_loan_percent"`
	Grade                  string          `json:"grade"`
	MaxLoanPrincipal       int64           `json:"max_loan_principal"`
	IncomeRecognized       bool            `json:"income_recognized"`
	CanBorrowMore          bool            `json:"can_borrow_more"`
	IsSafe                 bool            `json:"is_safe"`
}

// QuickEstimateResponse is returned by the quick estimate.
type QuickEstimateResponse struct {
	UserID           uuid.UUID                   `json:"user_id"`
	PolicyVersion    string                      `json:"policy_version"`
	RecognizedIncome int64                       `json:"recognized_income"`
	IncomeDefaulted  bool                        `json:"income_defaulted"`
	AgeDefaulted     bool                        `json:"age_defaulted"`
	Result           AffordabilityResultResponse `json:"result"`
}

// GameUpdateResponse reports how the new max loan moved the savings gap.
type GameUpdateResponse struct {
	OldMaxLoan     int64 `json:"old_max_loan"`
	NewMaxLoan     int64 `json:"new_max_loan"`
	RequiredBefore int64 `json:"required_before"`
	RequiredAfter  int64 `json:"required_after"`
	ReducedGap     int64 `json:"reduced_gap"`
	ExpGained      int64 `json:"exp_gained"`
}

// DetailedSimulationResponse is returned by the detailed simulation.
type DetailedSimulationResponse struct {
	UserID           uuid.UUID                   `json:"user_id"`
	PolicyVersion    string                      `json:"policy_version"`
	RecognizedIncome int64                       `json:"recognized_income"`
	StressRate       decimal.Decimal             `json:"stress_rate"`
	StressedRate     decimal.Decimal             `json:"stressed_rate"`
	Result           AffordabilityResultResponse `json:"result"`
	GameUpdate       *GameUpdateResponse         `json:"game_update,omitempty"`
	SimulationID     string                      `json:"simulation_id,omitempty"`
	HistorySaved     bool                        `json:"history_saved"`
}

// LatestSimulationResponse restores the last detailed simulation.
type LatestSimulationResponse struct {
	SimulationID  string                      `json:"simulation_id"`
	Mode          string                      `json:"mode"`
	PolicyVersion string                      `json:"policy_version"`
	Input         SimulationInputResponse     `json:"input"`
	Result        AffordabilityResultResponse `json:"result"`
	MaxLoanAmount int64                       `json:"max_loan_amount"`
	CreatedAt     time.Time                   `json:"created_at"`
}

// SimulationInputResponse echoes a stored scenario.
type SimulationInputResponse struct {
	AnnualIncome              int64                 `json:"annual_income"`
	Age                       int                   `json:"age"`
	Region                    string                `json:"region"`
	ExistingAnnualDebtService int64                 `json:"existing_annual_debt_service"`
	SecondaryLoan             *SecondaryLoanRequest `json:"secondary_loan,omitempty"`
	RateType                  string                `json:"target_loan_rate_type"`
	NominalRate               decimal.Decimal       `json:"target_loan_nominal_rate"`
	MaturityYears             int                   `json:"target_loan_maturity_years"`
	LenderType                string                `json:"lender_type"`
}

// StressRateResponse reports the applied stress rate, rounded to one decimal.
type StressRateResponse struct {
	PolicyVersion string          `json:"policy_version"`
	StressRate    decimal.Decimal `json:"stress_rate"`
	StressedRate  decimal.Decimal `json:"stressed_rate"`
}
