package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jip-jung/jipjung-backend-sub000/internal/application/dto"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/event"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/port"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/service"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

var twelve = decimal.NewFromInt(12)

// SimulateDetailedUseCase calculates a caller-supplied scenario and applies
// the outcome to the user's profile, savings game and history.
type SimulateDetailedUseCase struct {
	uow        port.UnitOfWork
	locker     port.UserLocker
	publisher  port.EventPublisher
	codec      port.SnapshotCodec
	catalog    *service.PolicyCatalog
	calculator *service.AffordabilityCalculator
	rewards    *service.GameRewardCalculator
	metrics    port.CalculationMetrics
	logger     *slog.Logger
}

// NewSimulateDetailedUseCase creates a new SimulateDetailedUseCase.
func NewSimulateDetailedUseCase(
	uow port.UnitOfWork,
	locker port.UserLocker,
	publisher port.EventPublisher,
	codec port.SnapshotCodec,
	catalog *service.PolicyCatalog,
	calculator *service.AffordabilityCalculator,
	rewards *service.GameRewardCalculator,
	metrics port.CalculationMetrics,
	logger *slog.Logger,
) *SimulateDetailedUseCase {
	return &SimulateDetailedUseCase{
		uow:        uow,
		locker:     locker,
		publisher:  publisher,
		codec:      codec,
		catalog:    catalog,
		calculator: calculator,
		rewards:    rewards,
		metrics:    metrics,
		logger:     logger,
	}
}

// simulationOutcome collects what happened inside the transaction.
type simulationOutcome struct {
	previousMaxLoan int64
	gameUpdate      *service.GameUpdate
	record          *model.SimulationRecord
	events          []event.DomainEvent
}

// Execute validates and calculates the scenario, then under the user's lock
// and inside one transaction: recomputes the savings-gap game update,
// grants experience, writes the profile back and appends a history record.
func (uc *SimulateDetailedUseCase) Execute(ctx context.Context, req dto.SimulateDetailedRequest) (dto.DetailedSimulationResponse, error) {
	in, err := inputFromRequest(req)
	if err != nil {
		return dto.DetailedSimulationResponse{}, fmt.Errorf("build input: %w", err)
	}

	policy, err := uc.catalog.Resolve(req.PolicyVersion)
	if err != nil {
		return dto.DetailedSimulationResponse{}, fmt.Errorf("resolve policy: %w", err)
	}

	result := uc.calculator.CalculateMaxLoan(in, policy)
	recognized := uc.calculator.RecognizedIncome(in.AnnualIncome, in.Age, policy)
	stress := uc.calculator.StressRate(in.Region, in.RateType, policy)

	// History is best-effort: an unencodable snapshot skips the append and
	// never fails the simulation.
	inputJSON, resultJSON, encodeErr := uc.encodeSnapshots(in, result)
	if encodeErr != nil {
		uc.logger.Warn("failed to encode simulation snapshot",
			"error", encodeErr,
			"user_id", req.UserID,
		)
	}

	unlock, err := uc.locker.Lock(ctx, req.UserID)
	if err != nil {
		return dto.DetailedSimulationResponse{}, fmt.Errorf("lock user: %w", err)
	}
	defer unlock()

	now := time.Now().UTC()
	var outcome simulationOutcome

	err = uc.uow.Do(ctx, func(ctx context.Context, repos port.TxRepositories) error {
		outcome = simulationOutcome{}

		profile, err := repos.Profiles.FindByUserIDForUpdate(ctx, req.UserID)
		if err != nil {
			return fmt.Errorf("find profile: %w", err)
		}
		outcome.previousMaxLoan = profile.CachedMaxLoanAmount()

		// (a) Savings-gap game update.
		goal, found, err := repos.Goals.FindActiveByUserID(ctx, req.UserID)
		if err != nil {
			return fmt.Errorf("find savings goal: %w", err)
		}
		if found {
			update := uc.rewards.Compute(service.GapInputs{
				TargetAmount:  goal.TargetAmount,
				CurrentAssets: profile.CurrentAssets(),
				AlreadySaved:  goal.CurrentSavedAmount,
			}, outcome.previousMaxLoan, result.MaxLoanPrincipal)
			outcome.gameUpdate = &update

			if update.ExpGained > 0 {
				if err := repos.Experience.AddPoints(ctx, req.UserID, update.ExpGained); err != nil {
					return fmt.Errorf("add experience: %w", err)
				}
			}
		}

		// (d) History record, built first so the profile's events can name it.
		if encodeErr == nil {
			record := model.NewSimulationRecord(
				req.UserID, valueobject.DSRModePro,
				inputJSON, resultJSON,
				policy.Version(), result.MaxLoanPrincipal, now,
			)
			outcome.record = &record
		}

		// (b)(c) Write income, debt and cached max loan back; switch to PRO.
		sim := model.DetailedSimulation{
			AnnualIncome:       in.AnnualIncome,
			MonthlyDebtPayment: monthlyFromAnnual(in.ExistingAnnualDebtService),
			Result:             result,
			PolicyVersion:      policy.Version(),
		}
		if outcome.record != nil {
			sim.SimulationID = outcome.record.ID.String()
		}
		if outcome.gameUpdate != nil {
			sim.ExpGained = outcome.gameUpdate.ExpGained
			sim.ReducedGap = outcome.gameUpdate.ReducedGap
		}
		profile = profile.ApplyDetailedSimulation(sim, now)
		if err := repos.Profiles.Save(ctx, profile); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}

		if outcome.record != nil {
			if err := repos.History.Append(ctx, *outcome.record); err != nil {
				return fmt.Errorf("append history: %w", err)
			}
		}
		outcome.events = profile.DomainEvents()
		return nil
	})
	if err != nil {
		return dto.DetailedSimulationResponse{}, fmt.Errorf("apply simulation: %w", err)
	}

	uc.metrics.RecordCalculation(ctx, valueobject.DSRModePro, result.Grade)
	uc.publishEvents(ctx, req.UserID, outcome.events)

	uc.logger.Info("detailed simulation applied",
		"user_id", req.UserID,
		"policy_version", policy.Version(),
		"grade", result.Grade.String(),
		"max_loan", result.MaxLoanPrincipal,
		"history_saved", outcome.record != nil,
	)

	resp := dto.DetailedSimulationResponse{
		UserID:           req.UserID,
		PolicyVersion:    policy.Version(),
		RecognizedIncome: recognized,
		StressRate:       model.RoundPercent(stress),
		StressedRate:     model.RoundPercent(in.NominalRate.Add(stress)),
		Result:           toResultResponse(result),
		HistorySaved:     outcome.record != nil,
	}
	if outcome.gameUpdate != nil {
		resp.GameUpdate = toGameUpdateResponse(*outcome.gameUpdate)
	}
	if outcome.record != nil {
		resp.SimulationID = outcome.record.ID.String()
	}
	return resp, nil
}

func (uc *SimulateDetailedUseCase) encodeSnapshots(in model.AffordabilityInput, result model.AffordabilityResult) ([]byte, []byte, error) {
	inputJSON, err := uc.codec.Marshal(in)
	if err != nil {
		return nil, nil, fmt.Errorf("encode input: %w", err)
	}
	resultJSON, err := uc.codec.Marshal(result)
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return inputJSON, resultJSON, nil
}

// publishEvents runs after commit; a broker failure is logged and the
// committed simulation still stands.
func (uc *SimulateDetailedUseCase) publishEvents(ctx context.Context, userID uuid.UUID, evts []event.DomainEvent) {
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		uc.logger.Error("failed to publish domain events",
			"error", err,
			"user_id", userID,
			"event_count", len(evts),
		)
	}
}

// monthlyFromAnnual is round(annual / 12).
func monthlyFromAnnual(annual int64) int64 {
	return decimal.NewFromInt(annual).Div(twelve).Round(0).IntPart()
}
