package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgpostgres "github.com/jip-jung/jipjung-backend-sub000/pkg/postgres"
)

// ExperienceRepo implements port.ExperienceRepository.
type ExperienceRepo struct {
	db pkgpostgres.Querier
}

func NewExperienceRepo(db pkgpostgres.Querier) *ExperienceRepo {
	return &ExperienceRepo{db: db}
}

// AddPoints increments the user's experience, creating the row on first use.
func (r *ExperienceRepo) AddPoints(ctx context.Context, userID uuid.UUID, points int64) error {
	query := `
		INSERT INTO user_experience (user_id, points, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET
			points     = user_experience.points + EXCLUDED.points,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, query, userID, points); err != nil {
		return fmt.Errorf("add experience points: %w", err)
	}
	return nil
}

// Points returns the user's current total, or 0 when none was ever granted.
func (r *ExperienceRepo) Points(ctx context.Context, userID uuid.UUID) (int64, error) {
	var points int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE((SELECT points FROM user_experience WHERE user_id = $1), 0)`, userID,
	).Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("read experience points: %w", err)
	}
	return points, nil
}
