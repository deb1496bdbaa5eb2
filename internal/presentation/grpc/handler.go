package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jip-jung/jipjung-backend-sub000/internal/application/dto"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/port"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/service"
	"github.com/jip-jung/jipjung-backend-sub000/pkg/auth"
)

// Use-case contracts the handler calls. The application use cases satisfy
// them.
type (
	QuickEstimator interface {
		Execute(ctx context.Context, req dto.EstimateQuickRequest) (dto.QuickEstimateResponse, error)
	}
	DetailedSimulator interface {
		Execute(ctx context.Context, req dto.SimulateDetailedRequest) (dto.DetailedSimulationResponse, error)
	}
	LatestSimulationReader interface {
		Execute(ctx context.Context, req dto.GetLatestSimulationRequest) (dto.LatestSimulationResponse, error)
	}
	StressRateReader interface {
		Execute(ctx context.Context, req dto.StressRateRequest) (dto.StressRateResponse, error)
	}
)

// userIDFromContext extracts the acting user from JWT claims in the context.
func userIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	return userID, nil
}

// Compile-time assertion that AffordabilityHandler implements AffordabilityServiceServer.
var _ AffordabilityServiceServer = (*AffordabilityHandler)(nil)

// AffordabilityHandler implements the gRPC AffordabilityServiceServer interface.
type AffordabilityHandler struct {
	UnimplementedAffordabilityServiceServer
	estimateQuick    QuickEstimator
	simulateDetailed DetailedSimulator
	getLatest        LatestSimulationReader
	getStressRate    StressRateReader
	logger           *slog.Logger
}

func NewAffordabilityHandler(
	estimateQuick QuickEstimator,
	simulateDetailed DetailedSimulator,
	getLatest LatestSimulationReader,
	getStressRate StressRateReader,
	logger *slog.Logger,
) *AffordabilityHandler {
	return &AffordabilityHandler{
		estimateQuick:    estimateQuick,
		simulateDetailed: simulateDetailed,
		getLatest:        getLatest,
		getStressRate:    getStressRate,
		logger:           logger,
	}
}

// Proto-aligned request/response message types. Rates and percentages are
// decimal strings.

type AffordabilityResultMsg struct {
	CurrentDSRPercent      string `json:"current_dsr_percent"`
	DSRAfterMaxLoanPercent string `json:"dsr_after_max_loan_percent"`
	Grade                  string `json:"grade"`
	MaxLoanPrincipal       int64  `json:"max_loan_principal"`
	IncomeRecognized       bool   `json:"income_recognized"`
	CanBorrowMore          bool   `json:"can_borrow_more"`
	IsSafe                 bool   `json:"is_safe"`
}

type GameUpdateMsg struct {
	OldMaxLoan     int64 `json:"old_max_loan"`
	NewMaxLoan     int64 `json:"new_max_loan"`
	RequiredBefore int64 `json:"required_before"`
	RequiredAfter  int64 `json:"required_after"`
	ReducedGap     int64 `json:"reduced_gap"`
	ExpGained      int64 `json:"exp_gained"`
}

type SecondaryLoanMsg struct {
	Balance  int64  `json:"balance"`
	Rate     string `json:"rate"`
	Included bool   `json:"included"`
}

type SimulationInputMsg struct {
	AnnualIncome              int64             `json:"annual_income"`
	Age                       int32             `json:"age"`
	Region                    string            `json:"region"`
	ExistingAnnualDebtService int64             `json:"existing_annual_debt_service"`
	SecondaryLoan             *SecondaryLoanMsg `json:"secondary_loan,omitempty"`
	TargetLoanRateType        string            `json:"target_loan_rate_type"`
	TargetLoanNominalRate     string            `json:"target_loan_nominal_rate"`
	TargetLoanMaturityYears   int32             `json:"target_loan_maturity_years"`
	LenderType                string            `json:"lender_type"`
}

type EstimateQuickRequest struct{}

type EstimateQuickResponse struct {
	PolicyVersion    string                  `json:"policy_version"`
	RecognizedIncome int64                   `json:"recognized_income"`
	IncomeDefaulted  bool                    `json:"income_defaulted"`
	AgeDefaulted     bool                    `json:"age_defaulted"`
	Result           *AffordabilityResultMsg `json:"result"`
}

type SimulateDetailedRequest struct {
	PolicyVersion string              `json:"policy_version,omitempty"`
	Input         *SimulationInputMsg `json:"input"`
}

type SimulateDetailedResponse struct {
	PolicyVersion    string                  `json:"policy_version"`
	RecognizedIncome int64                   `json:"recognized_income"`
	StressRate       string                  `json:"stress_rate"`
	StressedRate     string                  `json:"stressed_rate"`
	Result           *AffordabilityResultMsg `json:"result"`
	GameUpdate       *GameUpdateMsg          `json:"game_update,omitempty"`
	SimulationID     string                  `json:"simulation_id,omitempty"`
	HistorySaved     bool                    `json:"history_saved"`
}

type GetLatestSimulationRequest struct{}

type GetLatestSimulationResponse struct {
	SimulationID  string                  `json:"simulation_id"`
	Mode          string                  `json:"mode"`
	PolicyVersion string                  `json:"policy_version"`
	Input         *SimulationInputMsg     `json:"input"`
	Result        *AffordabilityResultMsg `json:"result"`
	MaxLoanAmount int64                   `json:"max_loan_amount"`
	CreatedAt     string                  `json:"created_at"`
}

type GetStressRateRequest struct {
	PolicyVersion         string `json:"policy_version,omitempty"`
	Region                string `json:"region"`
	TargetLoanRateType    string `json:"target_loan_rate_type"`
	TargetLoanNominalRate string `json:"target_loan_nominal_rate"`
}

type GetStressRateResponse struct {
	PolicyVersion string `json:"policy_version"`
	StressRate    string `json:"stress_rate"`
	StressedRate  string `json:"stressed_rate"`
}

// EstimateQuick sizes a loan from the caller's stored profile.
func (h *AffordabilityHandler) EstimateQuick(ctx context.Context, _ *EstimateQuickRequest) (*EstimateQuickResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.estimateQuick.Execute(ctx, dto.EstimateQuickRequest{UserID: userID})
	if err != nil {
		return nil, h.toStatus(ctx, "EstimateQuick", err)
	}

	return &EstimateQuickResponse{
		PolicyVersion:    result.PolicyVersion,
		RecognizedIncome: result.RecognizedIncome,
		IncomeDefaulted:  result.IncomeDefaulted,
		AgeDefaulted:     result.AgeDefaulted,
		Result:           toResultMsg(result.Result),
	}, nil
}

// SimulateDetailed runs a full scenario and records it for the caller.
func (h *AffordabilityHandler) SimulateDetailed(ctx context.Context, req *SimulateDetailedRequest) (*SimulateDetailedResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil || req.Input == nil {
		return nil, status.Error(codes.InvalidArgument, "input is required")
	}

	in := req.Input
	nominalRate, err := requireRate("target_loan_nominal_rate", in.TargetLoanNominalRate)
	if err != nil {
		return nil, err
	}

	request := dto.SimulateDetailedRequest{
		UserID:                    userID,
		PolicyVersion:             req.PolicyVersion,
		AnnualIncome:              in.AnnualIncome,
		Age:                       int(in.Age),
		Region:                    in.Region,
		ExistingAnnualDebtService: in.ExistingAnnualDebtService,
		RateType:                  in.TargetLoanRateType,
		NominalRate:               nominalRate,
		MaturityYears:             int(in.TargetLoanMaturityYears),
		LenderType:                in.LenderType,
	}
	if sl := in.SecondaryLoan; sl != nil {
		rate, err := requireRate("secondary_loan.rate", sl.Rate)
		if err != nil {
			return nil, err
		}
		request.SecondaryLoan = &dto.SecondaryLoanRequest{Balance: sl.Balance, Rate: rate, Included: sl.Included}
	}

	result, err := h.simulateDetailed.Execute(ctx, request)
	if err != nil {
		return nil, h.toStatus(ctx, "SimulateDetailed", err)
	}

	resp := &SimulateDetailedResponse{
		PolicyVersion:    result.PolicyVersion,
		RecognizedIncome: result.RecognizedIncome,
		StressRate:       result.StressRate.String(),
		StressedRate:     result.StressedRate.String(),
		Result:           toResultMsg(result.Result),
		SimulationID:     result.SimulationID,
		HistorySaved:     result.HistorySaved,
	}
	if g := result.GameUpdate; g != nil {
		resp.GameUpdate = &GameUpdateMsg{
			OldMaxLoan:     g.OldMaxLoan,
			NewMaxLoan:     g.NewMaxLoan,
			RequiredBefore: g.RequiredBefore,
			RequiredAfter:  g.RequiredAfter,
			ReducedGap:     g.ReducedGap,
			ExpGained:      g.ExpGained,
		}
	}
	return resp, nil
}

// GetLatestSimulation restores the caller's last detailed simulation.
func (h *AffordabilityHandler) GetLatestSimulation(ctx context.Context, _ *GetLatestSimulationRequest) (*GetLatestSimulationResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.getLatest.Execute(ctx, dto.GetLatestSimulationRequest{UserID: userID})
	if err != nil {
		return nil, h.toStatus(ctx, "GetLatestSimulation", err)
	}

	return &GetLatestSimulationResponse{
		SimulationID:  result.SimulationID,
		Mode:          result.Mode,
		PolicyVersion: result.PolicyVersion,
		Input:         toInputMsg(result.Input),
		Result:        toResultMsg(result.Result),
		MaxLoanAmount: result.MaxLoanAmount,
		CreatedAt:     result.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

// GetStressRate reports the stress rate for a loan product.
func (h *AffordabilityHandler) GetStressRate(ctx context.Context, req *GetStressRateRequest) (*GetStressRateResponse, error) {
	if _, err := userIDFromContext(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	nominalRate, err := parseRate("target_loan_nominal_rate", req.TargetLoanNominalRate)
	if err != nil {
		return nil, err
	}

	result, err := h.getStressRate.Execute(ctx, dto.StressRateRequest{
		PolicyVersion: req.PolicyVersion,
		Region:        req.Region,
		RateType:      req.TargetLoanRateType,
		NominalRate:   nominalRate,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "GetStressRate", err)
	}

	return &GetStressRateResponse{
		PolicyVersion: result.PolicyVersion,
		StressRate:    result.StressRate.String(),
		StressedRate:  result.StressedRate.String(),
	}, nil
}

// toStatus maps application errors to gRPC status codes. Internal errors
// are logged and hidden from the caller.
func (h *AffordabilityHandler) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, service.ErrUnknownPolicyVersion):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrProfileNotFound), errors.Is(err, port.ErrSimulationNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, port.ErrLockNotAcquired):
		return status.Error(codes.Aborted, "another simulation for this user is in progress")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		h.logger.ErrorContext(ctx, "request failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

// requireRate is parseRate with an empty value rejected.
func requireRate(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	return parseRate(field, value)
}

// parseRate treats an empty value as 0%.
func parseRate(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "invalid %s: %v", field, err)
	}
	return d, nil
}

func toResultMsg(r dto.AffordabilityResultResponse) *AffordabilityResultMsg {
	return &AffordabilityResultMsg{
		CurrentDSRPercent:      r.CurrentDSRPercent.String(),
		DSRAfterMaxLoanPercent: r.DSRAfterMaxLoanPercent.String(),
		Grade:                  r.Grade,
		MaxLoanPrincipal:       r.MaxLoanPrincipal,
		IncomeRecognized:       r.IncomeRecognized,
		CanBorrowMore:          r.CanBorrowMore,
		IsSafe:                 r.IsSafe,
	}
}

func toInputMsg(in dto.SimulationInputResponse) *SimulationInputMsg {
	msg := &SimulationInputMsg{
		AnnualIncome:              in.AnnualIncome,
		Age:                       int32(in.Age), //nolint:gosec
		Region:                    in.Region,
		ExistingAnnualDebtService: in.ExistingAnnualDebtService,
		TargetLoanRateType:        in.RateType,
		TargetLoanNominalRate:     in.NominalRate.String(),
		TargetLoanMaturityYears:   int32(in.MaturityYears), //nolint:gosec
		LenderType:                in.LenderType,
	}
	if sl := in.SecondaryLoan; sl != nil {
		msg.SecondaryLoan = &SecondaryLoanMsg{Balance: sl.Balance, Rate: sl.Rate.String(), Included: sl.Included}
	}
	return msg
}
