package pool

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/boattime/portfolio/pkg/errors"
)

var (
	taskCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_pool_tasks_total",
		Help: "Pool task outcomes by result.",
	}, []string{"result"})

	queueDepthGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_pool_queue_depth",
		Help: "Tasks currently waiting in the pool queue.",
	})
)

// Task is one unit of work bound to a generation cycle.
type Task struct {
	// CycleID identifies the generation cycle that submitted the task.
	// Tasks from cycles older than the pool's current cycle are
	// discarded without running.
	CycleID uint64

	// Name labels the task in logs.
	Name string

	// Deadline bounds execution. Zero means no per-task deadline.
	Deadline time.Time

	// Run does the work. The context is canceled at the deadline or on
	// pool shutdown.
	Run func(ctx context.Context) error
}

// Pool is a fixed-size worker pool over a bounded task queue.
type Pool struct {
	queue   chan Task
	workers int

	cycle atomic.Uint64

	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
	wg        sync.WaitGroup

	inFlight atomic.Int64
}

// New creates a pool with the given worker count and queue capacity.
// Non-positive values fall back to 1.
func New(workers, queueDepth int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 1 {
		queueDepth = 1
	}
	return &Pool{
		queue:   make(chan Task, queueDepth),
		workers: workers,
		done:    make(chan struct{}),
	}
}

// Start launches the workers. Subsequent calls are no-ops.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.started.Store(true)
		ctx, p.cancel = context.WithCancel(ctx)
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker(ctx, i)
		}
		go func() {
			p.wg.Wait()
			close(p.done)
		}()
	})
}

// Submit enqueues a task without blocking. A full queue rejects the task
// with an error so the submitter can apply its own backpressure policy.
func (p *Pool) Submit(task Task) error {
	if task.Run == nil {
		return errors.New(errors.ErrCodeInternal, "task has no work function")
	}

	select {
	case p.queue <- task:
		queueDepthGauge.Set(float64(len(p.queue)))
		taskCounter.WithLabelValues("submitted").Inc()
		return nil
	default:
		taskCounter.WithLabelValues("rejected").Inc()
		return errors.Newf(errors.ErrCodeInternal, "task queue full, rejecting %q", task.Name)
	}
}

// BeginCycle marks a new current cycle. Queued tasks from earlier cycles
// are dropped when dequeued.
func (p *Pool) BeginCycle(id uint64) {
	p.cycle.Store(id)
}

// InFlight returns the number of tasks currently executing.
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}

// Stop closes the queue and waits up to the timeout for workers to
// finish. It returns the number of tasks still queued or running when
// the timeout expired, zero when the drain completed.
func (p *Pool) Stop(timeout time.Duration) int {
	p.stopOnce.Do(func() {
		close(p.queue)
	})

	// Without workers nothing will ever drain the queue.
	if !p.started.Load() {
		abandoned := len(p.queue)
		if abandoned > 0 {
			slog.Warn("pool stopped before starting", "abandoned", abandoned)
		}
		return abandoned
	}

	select {
	case <-p.done:
		return 0
	case <-time.After(timeout):
		if p.cancel != nil {
			p.cancel()
		}
		abandoned := len(p.queue) + int(p.inFlight.Load())
		slog.Warn("pool drain timed out", "abandoned", abandoned)
		return abandoned
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for task := range p.queue {
		queueDepthGauge.Set(float64(len(p.queue)))

		if ctx.Err() != nil {
			taskCounter.WithLabelValues("abandoned").Inc()
			continue
		}

		if task.CycleID < p.cycle.Load() {
			taskCounter.WithLabelValues("stale").Inc()
			slog.Debug("discarding stale task", "task", task.Name, "cycle", task.CycleID)
			continue
		}

		p.inFlight.Add(1)
		p.runTask(ctx, id, task)
		p.inFlight.Add(-1)
	}
}

func (p *Pool) runTask(ctx context.Context, worker int, task Task) {
	taskCtx := ctx
	var cancel context.CancelFunc
	if !task.Deadline.IsZero() {
		taskCtx, cancel = context.WithDeadline(ctx, task.Deadline)
		defer cancel()
	}

	start := time.Now()
	err := task.Run(taskCtx)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		taskCounter.WithLabelValues("completed").Inc()
		slog.Debug("task completed", "task", task.Name, "worker", worker, "elapsed", elapsed)
	case taskCtx.Err() != nil:
		taskCounter.WithLabelValues("timeout").Inc()
		slog.Warn("task deadline exceeded", "task", task.Name, "cycle", task.CycleID, "elapsed", elapsed)
	default:
		taskCounter.WithLabelValues("failed").Inc()
		slog.Warn("task failed", "task", task.Name, "cycle", task.CycleID, "error", err)
	}
}
