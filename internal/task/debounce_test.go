package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock collects scheduled callbacks and fires them on demand.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{fn: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every pending timer that has not been stopped.
func (c *fakeClock) fire() {
	c.mu.Lock()
	pending := make([]*fakeTimer, 0, len(c.timers))
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			pending = append(pending, t)
		}
	}
	c.mu.Unlock()

	for _, t := range pending {
		t.fn()
	}
}

func TestDebouncer_RapidSchedulesCollapse(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(400*time.Millisecond, clock)

	calls := 0
	d.Schedule("sess-1|p1|M|Black", func() { calls++ })
	d.Schedule("sess-1|p1|M|Black", func() { calls++ })
	d.Schedule("sess-1|p1|M|Black", func() { calls++ })

	clock.fire()

	assert.Equal(t, 1, calls)
}

func TestDebouncer_DistinctKeysFireIndependently(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(400*time.Millisecond, clock)

	var fired []string
	d.Schedule("a", func() { fired = append(fired, "a") })
	d.Schedule("b", func() { fired = append(fired, "b") })

	clock.fire()

	assert.ElementsMatch(t, []string{"a", "b"}, fired)
}

func TestDebouncer_LastScheduledWins(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(400*time.Millisecond, clock)

	var got int
	d.Schedule("k", func() { got = 1 })
	d.Schedule("k", func() { got = 2 })

	clock.fire()

	assert.Equal(t, 2, got)
}

func TestDebouncer_Cancel(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(400*time.Millisecond, clock)

	called := false
	d.Schedule("k", func() { called = true })
	d.Cancel("k")

	clock.fire()

	assert.False(t, called)
}

func TestDebouncer_CloseDropsPendingAndFutureWork(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(400*time.Millisecond, clock)

	called := false
	d.Schedule("k", func() { called = true })
	d.Close()
	d.Schedule("k2", func() { called = true })

	clock.fire()

	assert.False(t, called)
}

func TestDebouncer_RealClockFires(t *testing.T) {
	d := NewDebouncer(5*time.Millisecond, nil)
	defer d.Close()

	done := make(chan struct{})
	d.Schedule("k", func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced callback never fired")
	}
}

func TestPeriodic_RunsImmediatelyThenOnInterval(t *testing.T) {
	ticks := make(chan struct{}, 10)
	p := NewPeriodic(5*time.Millisecond, func(ctx context.Context) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	p.Start(context.Background())
	defer p.Stop()

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatalf("missed tick %d", i)
		}
	}
}

func TestPeriodic_StopHaltsRunner(t *testing.T) {
	var mu sync.Mutex
	count := 0
	p := NewPeriodic(time.Millisecond, func(ctx context.Context) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	p.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	p.Stop()

	mu.Lock()
	after := count
	mu.Unlock()
	require.Greater(t, after, 0)

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, after, count)
	mu.Unlock()
}

func TestPeriodic_StopWithoutStart(t *testing.T) {
	p := NewPeriodic(time.Minute, func(ctx context.Context) {})
	p.Stop()
}

func TestPeriodic_ContextCancelHaltsRunner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	var once sync.Once
	p := NewPeriodic(time.Millisecond, func(ctx context.Context) {
		once.Do(func() { close(started) })
	})

	p.Start(ctx)
	<-started
	cancel()
	p.Stop()
}
