package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boattime/portfolio/pkg/errors"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, Options{}); !errors.IsCode(err, errors.ErrCodeConfig) {
		t.Errorf("New(nil) error = %v, want CONFIG", err)
	}
}

func TestImmediateCycle(t *testing.T) {
	ran := make(chan uint64, 1)
	s, err := New(func(ctx context.Context, cycleID uint64) error {
		ran <- cycleID
		return nil
	}, Options{Interval: time.Hour, Immediate: true})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	go s.Run(ctx)

	select {
	case id := <-ran:
		if id != 1 {
			t.Errorf("first cycle ID = %d, want 1", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("immediate cycle did not run")
	}
	cancel()
}

func TestNoOverlap(t *testing.T) {
	var concurrent, peak atomic.Int32
	var runs atomic.Int32

	s, err := New(func(ctx context.Context, cycleID uint64) error {
		n := concurrent.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		runs.Add(1)
		time.Sleep(90 * time.Millisecond)
		concurrent.Add(-1)
		return nil
	}, Options{Interval: 25 * time.Millisecond, CycleTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 300*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := peak.Load(); got != 1 {
		t.Errorf("peak concurrent cycles = %d, want 1", got)
	}
	if runs.Load() < 1 {
		t.Error("no cycle ran")
	}
	if s.Missed() == 0 {
		t.Error("expected missed ticks while a cycle was running")
	}
}

func TestStateAfterFailure(t *testing.T) {
	boom := errors.New(errors.ErrCodeRender, "render exploded")
	done := make(chan struct{}, 1)

	s, err := New(func(ctx context.Context, cycleID uint64) error {
		done <- struct{}{}
		return boom
	}, Options{Interval: time.Hour, Immediate: true})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	go s.Run(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cycle did not run")
	}

	deadline := time.After(2 * time.Second)
	for s.State() != StateFailed {
		select {
		case <-deadline:
			t.Fatalf("State() = %v, want failed", s.State())
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	if !errors.IsCode(s.LastError(), errors.ErrCodeRender) {
		t.Errorf("LastError() = %v, want RENDER", s.LastError())
	}
	cancel()
}

func TestStateRestsBetweenTicks(t *testing.T) {
	s, err := New(func(ctx context.Context, cycleID uint64) error {
		return nil
	}, Options{Interval: time.Hour})
	if err != nil {
		t.Fatal(err)
	}

	s.tick(t.Context())
	deadline := time.After(2 * time.Second)
	for s.State() != StateCompleted {
		select {
		case <-deadline:
			t.Fatalf("State() = %v, want completed", s.State())
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	s.rest()
	if got := s.State(); got != StateIdle {
		t.Errorf("State() after rest = %v, want idle", got)
	}
}

func TestRestKeepsRunningState(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	s, err := New(func(ctx context.Context, cycleID uint64) error {
		close(started)
		<-release
		return nil
	}, Options{Interval: time.Hour, CycleTimeout: time.Hour})
	if err != nil {
		t.Fatal(err)
	}

	s.tick(t.Context())
	<-started

	s.rest()
	if got := s.State(); got != StateRunning {
		t.Errorf("State() = %v, want running while a cycle is in flight", got)
	}
	close(release)
}

func TestDrainTimeout(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	s, err := New(func(ctx context.Context, cycleID uint64) error {
		close(started)
		<-release
		return nil
	}, Options{
		Interval:     time.Hour,
		CycleTimeout: time.Hour,
		DrainTimeout: 50 * time.Millisecond,
		Immediate:    true,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	result := make(chan error, 1)
	go func() { result <- s.Run(ctx) }()

	<-started
	cancel()

	select {
	case err := <-result:
		if !errors.IsCode(err, errors.ErrCodeTimeout) {
			t.Errorf("Run() error = %v, want TIMEOUT", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after drain timeout")
	}
	close(release)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateRunning, "running"},
		{StateCompleted, "completed"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
