package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomLocks_AcquireRelease(t *testing.T) {
	locks := newRoomLocks()

	release, err := locks.acquire(context.Background(), 1, time.Second)
	require.NoError(t, err)
	release()

	release, err = locks.acquire(context.Background(), 1, time.Second)
	require.NoError(t, err)
	release()
}

func TestRoomLocks_TimeoutWhileHeld(t *testing.T) {
	locks := newRoomLocks()

	release, err := locks.acquire(context.Background(), 1, time.Second)
	require.NoError(t, err)
	defer release()

	_, err = locks.acquire(context.Background(), 1, 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestRoomLocks_DifferentRoomsIndependent(t *testing.T) {
	locks := newRoomLocks()

	r1, err := locks.acquire(context.Background(), 1, 20*time.Millisecond)
	require.NoError(t, err)
	defer r1()

	r2, err := locks.acquire(context.Background(), 2, 20*time.Millisecond)
	require.NoError(t, err)
	defer r2()
}

func TestRoomLocks_ContextCancelled(t *testing.T) {
	locks := newRoomLocks()

	release, err := locks.acquire(context.Background(), 1, time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locks.acquire(ctx, 1, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRoomLocks_WaiterProceedsAfterRelease(t *testing.T) {
	locks := newRoomLocks()

	release, err := locks.acquire(context.Background(), 1, time.Second)
	require.NoError(t, err)

	acquired := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r, err := locks.acquire(context.Background(), 1, time.Second)
		assert.NoError(t, err)
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while still held")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	wg.Wait()

	select {
	case <-acquired:
	default:
		t.Fatal("waiter never acquired the lock")
	}
}
