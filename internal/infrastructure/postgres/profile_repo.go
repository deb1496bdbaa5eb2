package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/port"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
	pkgpostgres "github.com/jip-jung/jipjung-backend-sub000/pkg/postgres"
)

// scannable is satisfied by pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

const profileColumns = `user_id, annual_income, birth_year, existing_loan_monthly_payment,
	current_assets, cached_max_loan_amount, dsr_mode, updated_at`

// ProfileRepo implements port.ProfileRepository.
type ProfileRepo struct {
	db pkgpostgres.Querier
}

// NewProfileRepo creates a profile repository on a pool or a transaction.
func NewProfileRepo(db pkgpostgres.Querier) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// FindByUserID loads a profile.
func (r *ProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (model.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1`
	return scanProfile(r.db.QueryRow(ctx, query, userID))
}

// FindByUserIDForUpdate loads a profile and locks its row. It only has an
// effect inside a transaction.
func (r *ProfileRepo) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (model.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1 FOR UPDATE`
	return scanProfile(r.db.QueryRow(ctx, query, userID))
}

// Save upserts a profile.
func (r *ProfileRepo) Save(ctx context.Context, p model.UserProfile) error {
	s := p.Snapshot()
	query := `
		INSERT INTO user_profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			annual_income                 = EXCLUDED.annual_income,
			birth_year                    = EXCLUDED.birth_year,
			existing_loan_monthly_payment = EXCLUDED.existing_loan_monthly_payment,
			current_assets                = EXCLUDED.current_assets,
			cached_max_loan_amount        = EXCLUDED.cached_max_loan_amount,
			dsr_mode                      = EXCLUDED.dsr_mode,
			updated_at                    = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		s.UserID, s.AnnualIncome, s.BirthYear, s.ExistingLoanMonthlyPayment,
		s.CurrentAssets, s.CachedMaxLoanAmount, s.DSRMode.String(), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func scanProfile(row scannable) (model.UserProfile, error) {
	var (
		userID                 uuid.UUID
		annualIncome           *int64
		birthYear              *int
		monthlyPayment, assets int64
		cachedMax              int64
		modeStr                string
		updatedAt              time.Time
	)
	err := row.Scan(&userID, &annualIncome, &birthYear, &monthlyPayment, &assets, &cachedMax, &modeStr, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserProfile{}, port.ErrProfileNotFound
		}
		return model.UserProfile{}, fmt.Errorf("scan profile: %w", err)
	}

	mode, err := valueobject.NewDSRMode(modeStr)
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("parse dsr mode: %w", err)
	}

	return model.ReconstructUserProfile(model.ProfileSnapshot{
		UserID:                     userID,
		AnnualIncome:               annualIncome,
		BirthYear:                  birthYear,
		ExistingLoanMonthlyPayment: monthlyPayment,
		CurrentAssets:              assets,
		CachedMaxLoanAmount:        cachedMax,
		DSRMode:                    mode,
		UpdatedAt:                  updatedAt,
	}), nil
}
