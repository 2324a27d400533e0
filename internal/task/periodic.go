package task

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Periodic runs a function once at start and then on a fixed interval until
// stopped. The interval is established once; it is not reset by anything the
// function does.
type Periodic struct {
	interval time.Duration
	fn       func(context.Context)

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stop      chan struct{}
	done      chan struct{}
}

// NewPeriodic creates a periodic runner. Start must be called to begin.
func NewPeriodic(interval time.Duration, fn func(context.Context)) *Periodic {
	return &Periodic{
		interval: interval,
		fn:       fn,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the runner goroutine. Subsequent calls are no-ops.
func (p *Periodic) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.started.Store(true)
		go p.run(ctx)
	})
}

func (p *Periodic) run(ctx context.Context) {
	defer close(p.done)

	p.fn(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			p.fn(ctx)
		}
	}
}

// Stop halts the runner and waits for the current iteration to finish.
// Safe to call multiple times; a no-op if Start was never called.
func (p *Periodic) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})

	if p.started.Load() {
		<-p.done
	}
}
