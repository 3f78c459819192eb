package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/boattime/portfolio/pkg/defaults"
	"github.com/boattime/portfolio/pkg/errors"
	"github.com/boattime/portfolio/pkg/pool"
)

var (
	cycleCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_cycles_total",
		Help: "Generation cycle outcomes by result.",
	}, []string{"result"})

	missedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_cycles_missed_total",
		Help: "Ticks skipped because the previous cycle was still running.",
	})

	cycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "portfolio_cycle_duration_seconds",
		Help:    "Wall-clock duration of completed generation cycles.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})
)

// State is the scheduler's cycle state. Completed and Failed report the
// previous cycle's outcome until the next tick arms, which returns the
// machine to idle.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CycleFunc runs one generation cycle.
type CycleFunc func(ctx context.Context, cycleID uint64) error

// Options configures a Scheduler.
type Options struct {
	// Interval between ticks. Defaults to the generation interval.
	Interval time.Duration

	// CycleTimeout bounds one cycle. Defaults to the cycle timeout,
	// which is deliberately shorter than the interval.
	CycleTimeout time.Duration

	// DrainTimeout bounds the wait for an in-flight cycle on stop.
	DrainTimeout time.Duration

	// Pool, when set, is advanced to each new cycle ID so queued tasks
	// from superseded cycles are discarded.
	Pool *pool.Pool

	// Immediate runs the first cycle at start instead of waiting one
	// full interval.
	Immediate bool
}

// Scheduler fires a CycleFunc at a fixed interval with no overlap.
type Scheduler struct {
	fn   CycleFunc
	opts Options

	state   atomic.Int32
	cycleID atomic.Uint64
	missed  atomic.Uint64

	mu      sync.Mutex
	running bool
	lastErr error

	wg sync.WaitGroup
}

// New creates a scheduler for the given cycle function.
func New(fn CycleFunc, opts Options) (*Scheduler, error) {
	if fn == nil {
		return nil, errors.New(errors.ErrCodeConfig, "scheduler requires a cycle function")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaults.GenerationInterval
	}
	if opts.CycleTimeout <= 0 {
		opts.CycleTimeout = defaults.CycleTimeout
	}
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = defaults.DrainTimeout
	}
	return &Scheduler{fn: fn, opts: opts}, nil
}

// State returns the current cycle state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Cycles returns the number of cycles started so far.
func (s *Scheduler) Cycles() uint64 {
	return s.cycleID.Load()
}

// Missed returns the number of skipped ticks so far.
func (s *Scheduler) Missed() uint64 {
	return s.missed.Load()
}

// LastError returns the most recent cycle failure, nil after a success.
func (s *Scheduler) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Run ticks until the context is canceled, then drains the in-flight
// cycle. It returns the context's cause on shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	slog.Info("scheduler started", "interval", s.opts.Interval)

	if s.opts.Immediate {
		s.tick(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return s.drain()
		case <-ticker.C:
			s.rest()
			s.tick(ctx)
		}
	}
}

// rest returns a finished state machine to idle. A running cycle keeps
// its state.
func (s *Scheduler) rest() {
	s.state.CompareAndSwap(int32(StateCompleted), int32(StateIdle))
	s.state.CompareAndSwap(int32(StateFailed), int32(StateIdle))
}

// tick starts a cycle unless one is already running.
func (s *Scheduler) tick(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.missed.Add(1)
		missedCounter.Inc()
		slog.Warn("tick skipped, previous cycle still running",
			"cycle", s.cycleID.Load(), "missed_total", s.missed.Load())
		return
	}
	s.running = true
	s.mu.Unlock()

	id := s.cycleID.Add(1)
	if s.opts.Pool != nil {
		s.opts.Pool.BeginCycle(id)
	}
	s.state.Store(int32(StateRunning))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runCycle(ctx, id)
	}()
}

func (s *Scheduler) runCycle(ctx context.Context, id uint64) {
	cctx, cancel := context.WithTimeout(ctx, s.opts.CycleTimeout)
	defer cancel()

	start := time.Now()
	err := s.fn(cctx, id)
	elapsed := time.Since(start)
	cycleDuration.Observe(elapsed.Seconds())

	s.mu.Lock()
	s.running = false
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.state.Store(int32(StateFailed))
		cycleCounter.WithLabelValues("failed").Inc()
		slog.Error("cycle failed", "cycle", id, "elapsed", elapsed, "error", err)
		return
	}
	s.state.Store(int32(StateCompleted))
	cycleCounter.WithLabelValues("completed").Inc()
	slog.Debug("cycle completed", "cycle", id, "elapsed", elapsed)
}

// drain waits for the in-flight cycle up to the drain timeout.
func (s *Scheduler) drain() error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("scheduler stopped",
			"cycles", s.cycleID.Load(), "missed", s.missed.Load())
		return nil
	case <-time.After(s.opts.DrainTimeout):
		slog.Warn("scheduler drain timed out", "cycle", s.cycleID.Load())
		return errors.Newf(errors.ErrCodeTimeout,
			"cycle %d did not finish within drain timeout", s.cycleID.Load())
	}
}
