package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum delay between the completion of one call and the start of the next.
// Calls are serialized: at most one holder at a time.
type Pacer struct {
	minInterval time.Duration
	sem         chan struct{}
	// last is only touched while sem is held.
	last time.Time
}

// NewPacer creates a pacer with the given minimum inter-call delay.
func NewPacer(minInterval time.Duration) *Pacer {
	return &Pacer{
		minInterval: minInterval,
		sem:         make(chan struct{}, 1),
	}
}

// Acquire blocks until no call is in flight and the minimum delay has elapsed since the
// previous call was released. The returned release func must be called once the call completes.
func (p *Pacer) Acquire(ctx context.Context) (func(), error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if wait := time.Until(p.last.Add(p.minInterval)); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			<-p.sem
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.last = time.Now()
			<-p.sem
		})
	}, nil
}
