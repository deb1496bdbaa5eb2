package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/event"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/port"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
	"github.com/jip-jung/jipjung-backend-sub000/internal/infrastructure/codec"
)

// --- Mock implementations ---

type mockProfileRepository struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]model.UserProfile
	saved    []model.UserProfile
	saveErr  error
}

func newMockProfileRepository(profiles ...model.UserProfile) *mockProfileRepository {
	m := &mockProfileRepository{profiles: make(map[uuid.UUID]model.UserProfile)}
	for _, p := range profiles {
		m.profiles[p.UserID()] = p
	}
	return m
}

func (m *mockProfileRepository) FindByUserID(_ context.Context, userID uuid.UUID) (model.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return model.UserProfile{}, port.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockProfileRepository) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (model.UserProfile, error) {
	return m.FindByUserID(ctx, userID)
}

func (m *mockProfileRepository) Save(_ context.Context, profile model.UserProfile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Stored as a real repository would reload it: state only, no pending events.
	m.profiles[profile.UserID()] = model.ReconstructUserProfile(profile.Snapshot())
	m.saved = append(m.saved, profile)
	return nil
}

type mockSavingsGoalRepository struct {
	goal *model.SavingsGoal
	err  error
}

func (m *mockSavingsGoalRepository) FindActiveByUserID(_ context.Context, _ uuid.UUID) (model.SavingsGoal, bool, error) {
	if m.err != nil {
		return model.SavingsGoal{}, false, m.err
	}
	if m.goal == nil {
		return model.SavingsGoal{}, false, nil
	}
	return *m.goal, true, nil
}

type mockExperienceRepository struct {
	mu     sync.Mutex
	points map[uuid.UUID]int64
	calls  int
	err    error
}

func (m *mockExperienceRepository) AddPoints(_ context.Context, userID uuid.UUID, points int64) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.points == nil {
		m.points = make(map[uuid.UUID]int64)
	}
	m.points[userID] += points
	m.calls++
	return nil
}

type mockHistoryRepository struct {
	mu        sync.Mutex
	records   []model.SimulationRecord
	appendErr error
	findFunc  func(ctx context.Context, userID uuid.UUID, mode valueobject.DSRMode) (model.SimulationRecord, error)
}

func (m *mockHistoryRepository) Append(_ context.Context, record model.SimulationRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *mockHistoryRepository) FindLatestByUserAndMode(ctx context.Context, userID uuid.UUID, mode valueobject.DSRMode) (model.SimulationRecord, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, userID, mode)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.UserID == userID && r.Mode == mode {
			return r, nil
		}
	}
	return model.SimulationRecord{}, port.ErrSimulationNotFound
}

// mockUnitOfWork runs fn directly against the shared repositories. It
// holds a mutex for the duration so concurrent callers see serial
// execution, and it does not roll back.
type mockUnitOfWork struct {
	mu    sync.Mutex
	repos port.TxRepositories
	calls int
}

func (m *mockUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos port.TxRepositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return fn(ctx, m.repos)
}

type mockUserLocker struct {
	mu      sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
	lockErr error
	held    int
}

func (m *mockUserLocker) Lock(_ context.Context, userID uuid.UUID) (func(), error) {
	if m.lockErr != nil {
		return nil, m.lockErr
	}
	m.mu.Lock()
	if m.locks == nil {
		m.locks = make(map[uuid.UUID]*sync.Mutex)
	}
	l, ok := m.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[userID] = l
	}
	m.mu.Unlock()

	l.Lock()
	m.mu.Lock()
	m.held++
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.held--
		m.mu.Unlock()
		l.Unlock()
	}, nil
}

type mockEventPublisher struct {
	mu              sync.Mutex
	publishedEvents []event.DomainEvent
	publishErr      error
}

func (m *mockEventPublisher) Publish(_ context.Context, events ...event.DomainEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedEvents = append(m.publishedEvents, events...)
	return nil
}

type mockCalculationMetrics struct {
	mu       sync.Mutex
	recorded []string
}

func (m *mockCalculationMetrics) RecordCalculation(_ context.Context, mode valueobject.DSRMode, grade valueobject.Grade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, fmt.Sprintf("%s/%s", mode, grade))
}

// failingCodec fails every Marshal and delegates Unmarshal.
type failingCodec struct{}

var errEncode = errors.New("encoder unavailable")

func (failingCodec) Marshal(any) ([]byte, error) { return nil, errEncode }
func (failingCodec) Unmarshal(data []byte, v any) error {
	return codec.NewJSONCodec().Unmarshal(data, v)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
