package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	pkgpostgres "github.com/jip-jung/jipjung-backend-sub000/pkg/postgres"
)

// SavingsGoalRepo implements port.SavingsGoalRepository.
type SavingsGoalRepo struct {
	db pkgpostgres.Querier
}

func NewSavingsGoalRepo(db pkgpostgres.Querier) *SavingsGoalRepo {
	return &SavingsGoalRepo{db: db}
}

// FindActiveByUserID returns the user's active goal, if any.
func (r *SavingsGoalRepo) FindActiveByUserID(ctx context.Context, userID uuid.UUID) (model.SavingsGoal, bool, error) {
	query := `
		SELECT user_id, target_amount, current_saved_amount
		FROM savings_goals
		WHERE user_id = $1 AND active
	`
	var g model.SavingsGoal
	err := r.db.QueryRow(ctx, query, userID).Scan(&g.UserID, &g.TargetAmount, &g.CurrentSavedAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SavingsGoal{}, false, nil
		}
		return model.SavingsGoal{}, false, fmt.Errorf("find active savings goal: %w", err)
	}
	return g, true, nil
}
