package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/port"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
	pkgpostgres "github.com/jip-jung/jipjung-backend-sub000/pkg/postgres"
)

// SimulationHistoryRepo implements port.SimulationHistoryRepository. Rows
// are only ever inserted.
type SimulationHistoryRepo struct {
	db pkgpostgres.Querier
}

func NewSimulationHistoryRepo(db pkgpostgres.Querier) *SimulationHistoryRepo {
	return &SimulationHistoryRepo{db: db}
}

// Append inserts a record.
func (r *SimulationHistoryRepo) Append(ctx context.Context, rec model.SimulationRecord) error {
	query := `
		INSERT INTO dsr_simulation_history
			(id, user_id, mode, input_json, result_json, policy_version, max_loan_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.UserID, rec.Mode.String(),
		rec.InputJSON, rec.ResultJSON,
		rec.PolicyVersion, rec.MaxLoanAmount, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append simulation history: %w", err)
	}
	return nil
}

// FindLatestByUserAndMode returns the newest record for user in mode.
func (r *SimulationHistoryRepo) FindLatestByUserAndMode(
	ctx context.Context,
	userID uuid.UUID,
	mode valueobject.DSRMode,
) (model.SimulationRecord, error) {
	query := `
		SELECT id, user_id, mode, input_json, result_json, policy_version, max_loan_amount, created_at
		FROM dsr_simulation_history
		WHERE user_id = $1 AND mode = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var (
		rec     model.SimulationRecord
		modeStr string
	)
	err := r.db.QueryRow(ctx, query, userID, mode.String()).Scan(
		&rec.ID, &rec.UserID, &modeStr,
		&rec.InputJSON, &rec.ResultJSON,
		&rec.PolicyVersion, &rec.MaxLoanAmount, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SimulationRecord{}, port.ErrSimulationNotFound
		}
		return model.SimulationRecord{}, fmt.Errorf("find latest simulation: %w", err)
	}

	rec.Mode, err = valueobject.NewDSRMode(modeStr)
	if err != nil {
		return model.SimulationRecord{}, fmt.Errorf("parse dsr mode: %w", err)
	}
	return rec, nil
}
