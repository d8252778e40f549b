package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_SequentialLowerBound(t *testing.T) {
	const n = 5
	minDelay := 20 * time.Millisecond
	p := NewPacer(minDelay)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < n; i++ {
		release, err := p.Acquire(ctx)
		require.NoError(t, err)
		release()
	}

	assert.GreaterOrEqual(t, time.Since(start), time.Duration(n-1)*minDelay)
}

func TestPacer_SerializesConcurrentCallers(t *testing.T) {
	p := NewPacer(5 * time.Millisecond)
	ctx := context.Background()

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := p.Acquire(ctx)
			if err != nil {
				return
			}
			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight)
}

func TestPacer_ContextCancelledWhileWaiting(t *testing.T) {
	p := NewPacer(time.Hour)
	release, err := p.Acquire(context.Background())
	require.NoError(t, err)
	release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = p.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The slot must have been returned after cancellation.
	select {
	case p.sem <- struct{}{}:
		<-p.sem
	default:
		t.Fatal("pacer slot leaked after cancellation")
	}
}

func TestPacer_ReleaseIsIdempotent(t *testing.T) {
	p := NewPacer(0)
	release, err := p.Acquire(context.Background())
	require.NoError(t, err)
	release()
	release()

	release, err = p.Acquire(context.Background())
	require.NoError(t, err)
	release()
}
