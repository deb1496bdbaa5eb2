package usecase

import (
	"context"
	"fmt"

	"github.com/jip-jung/jipjung-backend-sub000/internal/application/dto"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/port"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

// GetLatestSimulationUseCase restores the user's most recent detailed
// simulation for the dashboard.
type GetLatestSimulationUseCase struct {
	history port.SimulationHistoryRepository
	codec   port.SnapshotCodec
}

// NewGetLatestSimulationUseCase creates a new GetLatestSimulationUseCase.
func NewGetLatestSimulationUseCase(
	history port.SimulationHistoryRepository,
	codec port.SnapshotCodec,
) *GetLatestSimulationUseCase {
	return &GetLatestSimulationUseCase{
		history: history,
		codec:   codec,
	}
}

// Execute loads and decodes the latest PRO record.
func (uc *GetLatestSimulationUseCase) Execute(ctx context.Context, req dto.GetLatestSimulationRequest) (dto.LatestSimulationResponse, error) {
	record, err := uc.history.FindLatestByUserAndMode(ctx, req.UserID, valueobject.DSRModePro)
	if err != nil {
		return dto.LatestSimulationResponse{}, fmt.Errorf("find latest simulation: %w", err)
	}

	var in model.AffordabilityInput
	if err := uc.codec.Unmarshal(record.InputJSON, &in); err != nil {
		return dto.LatestSimulationResponse{}, fmt.Errorf("decode input snapshot: %w", err)
	}
	var result model.AffordabilityResult
	if err := uc.codec.Unmarshal(record.ResultJSON, &result); err != nil {
		return dto.LatestSimulationResponse{}, fmt.Errorf("decode result snapshot: %w", err)
	}

	return dto.LatestSimulationResponse{
		SimulationID:  record.ID.String(),
		Mode:          record.Mode.String(),
		PolicyVersion: record.PolicyVersion,
		Input:         toInputResponse(in),
		Result:        toResultResponse(result),
		MaxLoanAmount: record.MaxLoanAmount,
		CreatedAt:     record.CreatedAt,
	}, nil
}
