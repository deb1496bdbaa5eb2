package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/port"
	pkgpostgres "github.com/jip-jung/jipjung-backend-sub000/pkg/postgres"
)

// UnitOfWork implements port.UnitOfWork with one pgx transaction per call.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// Do runs fn with repositories bound to a fresh transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos port.TxRepositories) error) error {
	return pkgpostgres.WithTransaction(ctx, u.pool, func(tx pgx.Tx) error {
		return fn(ctx, port.TxRepositories{
			Profiles:   NewProfileRepo(tx),
			Goals:      NewSavingsGoalRepo(tx),
			Experience: NewExperienceRepo(tx),
			History:    NewSimulationHistoryRepo(tx),
		})
	})
}
