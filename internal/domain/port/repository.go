package port

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/event"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

var (
	// ErrProfileNotFound is returned when the acting user has no stored profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrSimulationNotFound is returned when no history record matches.
	ErrSimulationNotFound = errors.New("simulation not found")
	// ErrLockNotAcquired is returned when a per-user lock stays contended.
	ErrLockNotAcquired = errors.New("user lock not acquired")
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// ProfileRepository reads and writes user profiles.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (model.UserProfile, error)
	// FindByUserIDForUpdate also locks the row until the surrounding
	// transaction ends.
	FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (model.UserProfile, error)
	Save(ctx context.Context, profile model.UserProfile) error
}

// SavingsGoalRepository exposes the user's active savings goal.
type SavingsGoalRepository interface {
	// FindActiveByUserID returns false when the user has no active goal.
	FindActiveByUserID(ctx context.Context, userID uuid.UUID) (model.SavingsGoal, bool, error)
}

// ExperienceRepository grants experience points.
type ExperienceRepository interface {
	AddPoints(ctx context.Context, userID uuid.UUID, points int64) error
}

// SimulationHistoryRepository is the append-only history store.
type SimulationHistoryRepository interface {
	Append(ctx context.Context, record model.SimulationRecord) error
	FindLatestByUserAndMode(ctx context.Context, userID uuid.UUID, mode valueobject.DSRMode) (model.SimulationRecord, error)
}

// TxRepositories are the repositories bound to one unit of work.
type TxRepositories struct {
	Profiles   ProfileRepository
	Goals      SavingsGoalRepository
	Experience ExperienceRepository
	History    SimulationHistoryRepository
}

// UnitOfWork runs fn atomically: every write made through the supplied
// repositories commits together or not at all.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

// UserLocker serialises work for one user across requests and instances.
type UserLocker interface {
	// Lock blocks until the user's lock is held or ctx ends. The returned
	// func releases it.
	Lock(ctx context.Context, userID uuid.UUID) (unlock func(), err error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Support ports
// ---------------------------------------------------------------------------

// SnapshotCodec encodes and decodes history snapshots.
type SnapshotCodec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// CalculationMetrics records calculation outcomes.
type CalculationMetrics interface {
	RecordCalculation(ctx context.Context, mode valueobject.DSRMode, grade valueobject.Grade)
}
