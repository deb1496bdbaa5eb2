package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/port"
)

// MemoryLocker implements port.UserLocker within one process. It is used
// when no Redis address is configured.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*userLock
}

type userLock struct {
	ch      chan struct{}
	waiters int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[uuid.UUID]*userLock)}
}

func (l *MemoryLocker) Lock(ctx context.Context, userID uuid.UUID) (func(), error) {
	ul := l.acquireRef(userID)

	select {
	case ul.ch <- struct{}{}:
	case <-ctx.Done():
		l.releaseRef(userID, ul)
		return nil, fmt.Errorf("%w: %w", port.ErrLockNotAcquired, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-ul.ch
			l.releaseRef(userID, ul)
		})
	}, nil
}

func (l *MemoryLocker) acquireRef(userID uuid.UUID) *userLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{ch: make(chan struct{}, 1)}
		l.locks[userID] = ul
	}
	ul.waiters++
	return ul
}

func (l *MemoryLocker) releaseRef(userID uuid.UUID, ul *userLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ul.waiters--
	if ul.waiters == 0 {
		delete(l.locks, userID)
	}
}
