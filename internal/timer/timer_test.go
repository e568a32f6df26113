package timer

import (
	"testing"
	"time"
)

type manualTicks struct {
	ch      chan time.Time
	starts  int
	stopped int
}

func newManualTicks() *manualTicks {
	return &manualTicks{ch: make(chan time.Time)}
}

func (m *manualTicks) source() (<-chan time.Time, func()) {
	m.starts++
	return m.ch, func() { m.stopped++ }
}

func (m *manualTicks) tick(n int) {
	for i := 0; i < n; i++ {
		m.ch <- time.Time{}
	}
}

func TestTimerCountsTicksUntilStopped(t *testing.T) {
	src := newManualTicks()
	tm := New(WithTickSource(src.source))

	tm.Start()
	src.tick(3)
	tm.Stop()

	if got := tm.Elapsed(); got != 3 {
		t.Fatalf("expected 3 ticks, got %d", got)
	}
	if tm.Running() {
		t.Fatalf("expected timer to be stopped")
	}
	if src.stopped != 1 {
		t.Fatalf("expected tick source to be released once, got %d", src.stopped)
	}
}

func TestTimerStartIsIdempotent(t *testing.T) {
	src := newManualTicks()
	tm := New(WithTickSource(src.source))

	tm.Start()
	tm.Start()
	src.tick(2)
	tm.Stop()

	if src.starts != 1 {
		t.Fatalf("expected a single tick stream, got %d", src.starts)
	}
	if got := tm.Elapsed(); got != 2 {
		t.Fatalf("expected 2 ticks, got %d", got)
	}
}

func TestTimerResetZeroes(t *testing.T) {
	src := newManualTicks()
	tm := New(WithTickSource(src.source))

	tm.Start()
	src.tick(5)
	tm.Reset()
	if got := tm.Elapsed(); got != 0 {
		t.Fatalf("expected 0 after reset, got %d", got)
	}
	if tm.Running() {
		t.Fatalf("expected reset to stop the timer")
	}

	tm.Start()
	src.tick(1)
	tm.Close()
	tm.Close()
	if got := tm.Elapsed(); got != 1 {
		t.Fatalf("expected 1 tick after restart, got %d", got)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		ticks int64
		want  string
	}{
		{ticks: 0, want: "0.0"},
		{ticks: 7, want: "0.7"},
		{ticks: 50, want: "5.0"},
		{ticks: 123, want: "12.3"},
		{ticks: -1, want: "--.--"},
	}
	for _, tc := range cases {
		if got := Format(tc.ticks); got != tc.want {
			t.Fatalf("Format(%d) = %q, want %q", tc.ticks, got, tc.want)
		}
	}
}
