// Package timer provides the round stopwatch.
package timer

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Interval is the duration of one tick.
const Interval = 100 * time.Millisecond

// TicksPerSecond is the number of ticks in one displayed second.
const TicksPerSecond = int64(time.Second / Interval)

// Unavailable is the display string for a negative tick count.
const Unavailable = "--.--"

// TickSource starts a periodic tick stream and returns it with a stop func.
type TickSource func() (<-chan time.Time, func())

// Timer counts elapsed ticks while running.
type Timer struct {
	elapsed atomic.Int64
	source  TickSource

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// Option customizes a Timer.
type Option func(*Timer)

// WithTickSource replaces the wall-clock ticker.
func WithTickSource(src TickSource) Option {
	return func(t *Timer) {
		t.source = src
	}
}

// New returns a stopped timer at zero.
func New(opts ...Option) *Timer {
	t := &Timer{source: wallClock}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func wallClock() (<-chan time.Time, func()) {
	ticker := time.NewTicker(Interval)
	return ticker.C, ticker.Stop
}

// Start begins counting. Calling Start on a running timer does nothing.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	ticks, stopTicks := t.source()
	stop := make(chan struct{})
	done := make(chan struct{})
	t.running = true
	t.stop = stop
	t.done = done
	go func() {
		defer close(done)
		defer stopTicks()
		for {
			select {
			case <-stop:
				return
			case <-ticks:
				t.elapsed.Add(1)
			}
		}
	}()
}

// Stop freezes the counter and waits for the tick goroutine to exit.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Timer) stopLocked() {
	if !t.running {
		return
	}
	close(t.stop)
	<-t.done
	t.running = false
	t.stop = nil
	t.done = nil
}

// Reset stops the timer and sets the counter to zero.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.elapsed.Store(0)
}

// Close stops the timer. It is safe to call more than once.
func (t *Timer) Close() {
	t.Stop()
}

// Running reports whether ticks are being counted.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Elapsed returns the number of ticks counted so far.
func (t *Timer) Elapsed() int64 {
	return t.elapsed.Load()
}

// Format renders ticks as seconds with one decimal, or Unavailable when negative.
func Format(ticks int64) string {
	if ticks < 0 {
		return Unavailable
	}
	return fmt.Sprintf("%d.%d", ticks/TicksPerSecond, ticks%TicksPerSecond)
}
