package engine

import (
	"context"
	"sync"
	"time"
)

// Animator drives a Ticker at a fixed frame rate on its own goroutine.
type Animator struct {
	ticker   Ticker
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewAnimator(t Ticker, fps int) *Animator {
	if fps <= 0 {
		fps = 60
	}
	return &Animator{ticker: t, interval: time.Second / time.Duration(fps)}
}

// Start begins scheduling frames until ctx is cancelled or Stop is called.
func (a *Animator) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return ErrRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel, a.done = cancel, done
	go a.loop(ctx, done)
	return nil
}

func (a *Animator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	timer := time.NewTimer(a.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		// a cancel racing the timer must win
		if ctx.Err() != nil {
			return
		}
		a.ticker.Tick()
		timer.Reset(a.interval)
	}
}

// Stop cancels the pending frame and waits for the loop to exit. No Tick
// runs after Stop returns.
func (a *Animator) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}
