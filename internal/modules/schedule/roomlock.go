package schedule

import (
	"context"
	"sync"
	"time"
)

// roomLocks serializes schedule writes per room. Requests against
// different rooms never contend; overlapping requests on one room are
// decided by whoever acquires the room's slot first.
type roomLocks struct {
	mu    sync.Mutex
	slots map[int64]chan struct{}
}

func newRoomLocks() *roomLocks {
	return &roomLocks{slots: make(map[int64]chan struct{})}
}

func (l *roomLocks) slot(roomID int64) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[roomID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[roomID] = ch
	}
	return ch
}

// acquire obtains the room's scheduling lock, waiting at most timeout.
// The returned release function must be called on every exit path; the
// caller defers it immediately so a room's schedule can never stay locked
// after a failed or abandoned request.
func (l *roomLocks) acquire(ctx context.Context, roomID int64, timeout time.Duration) (func(), error) {
	ch := l.slot(roomID)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrLockTimeout
	}
}
