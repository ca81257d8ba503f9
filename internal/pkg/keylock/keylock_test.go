package keylock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"coffeeshop/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_SameKeyIsExclusive(t *testing.T) {
	l := keylock.New()
	ctx := t.Context()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "order:1")
			if !assert.NoError(t, err) {
				return
			}

			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			_ = unlock(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, l.Len())
}

func TestLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := keylock.New()
	ctx := t.Context()

	unlockA, err := l.Lock(ctx, "cart:a")
	require.NoError(t, err)
	defer func() { _ = unlockA(ctx) }()

	timeoutCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	unlockB, err := l.Lock(timeoutCtx, "cart:b")
	require.NoError(t, err)
	require.NoError(t, unlockB(ctx))
}

func TestLocker_LockHonoursContext(t *testing.T) {
	l := keylock.New()
	ctx := t.Context()

	unlock, err := l.Lock(ctx, "order:1")
	require.NoError(t, err)

	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	_, err = l.Lock(timeoutCtx, "order:1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))
	assert.Equal(t, 0, l.Len())
}

func TestLocker_UnlockIsIdempotent(t *testing.T) {
	l := keylock.New()
	ctx := t.Context()

	unlock, err := l.Lock(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx))

	again, err := l.Lock(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}
