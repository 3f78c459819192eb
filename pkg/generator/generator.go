package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/boattime/portfolio/pkg/artifact"
	"github.com/boattime/portfolio/pkg/block"
	"github.com/boattime/portfolio/pkg/builder"
	"github.com/boattime/portfolio/pkg/defaults"
	"github.com/boattime/portfolio/pkg/errors"
	"github.com/boattime/portfolio/pkg/pool"
	"github.com/boattime/portfolio/pkg/render"
	"github.com/boattime/portfolio/pkg/source"
	"github.com/boattime/portfolio/pkg/store"
	"github.com/boattime/portfolio/pkg/telemetry"
	"github.com/boattime/portfolio/pkg/template"
)

// Options configures a Generator.
type Options struct {
	MetricsSources []source.MetricsSource
	SpanSources    []source.SpanSource
	LogSources     []source.LogSource

	// Cache holds the last fully collected snapshot for fallback.
	Cache *store.SnapshotCache

	// Templates loads and caches template files.
	Templates *template.Store

	// TemplateName is the template rendered each cycle.
	TemplateName string

	// Vars are user variables merged over the builtin ones.
	Vars map[string]string

	// Sinks receive the finished artifact set.
	Sinks []artifact.Sink

	// Renderers produce the per-format documents. Defaults to the HTML
	// and text renderers.
	Renderers []render.Renderer

	// Pool, when set, executes the render tasks. Without a pool renders
	// run on cycle-local goroutines.
	Pool *pool.Pool

	// Hostname stamps the snapshot. Defaults to os.Hostname.
	Hostname string

	// CollectionTimeout bounds each source's collection call.
	CollectionTimeout time.Duration

	// RenderTimeout bounds each render task.
	RenderTimeout time.Duration
}

// Generator produces one artifact set per call to Generate.
type Generator struct {
	opts Options
}

// New validates the options and returns a Generator.
func New(opts Options) (*Generator, error) {
	if opts.Templates == nil {
		return nil, errors.New(errors.ErrCodeConfig, "generator requires a template store")
	}
	if opts.TemplateName == "" {
		return nil, errors.New(errors.ErrCodeConfig, "generator requires a template name")
	}
	if opts.Cache == nil {
		opts.Cache = store.NewSnapshotCache()
	}
	if len(opts.Renderers) == 0 {
		opts.Renderers = []render.Renderer{render.NewHTML(), render.NewText()}
	}
	if opts.Hostname == "" {
		opts.Hostname, _ = os.Hostname()
	}
	if opts.CollectionTimeout <= 0 {
		opts.CollectionTimeout = defaults.CollectionTimeout
	}
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = defaults.RenderTimeout
	}
	return &Generator{opts: opts}, nil
}

// Generate runs one full cycle and returns the published artifact set.
func (g *Generator) Generate(ctx context.Context, cycleID uint64) (artifact.Set, error) {
	start := time.Now()

	snap := g.collect(ctx, cycleID)

	tmpl, err := g.opts.Templates.Load(g.opts.TemplateName)
	if err != nil {
		return artifact.Set{}, err
	}

	vars := builder.BuiltinVars(snap)
	for k, v := range g.opts.Vars {
		vars[k] = v
	}

	root, err := builder.Build(tmpl, snap, vars)
	if err != nil {
		return artifact.Set{}, err
	}

	rendered, err := g.renderAll(ctx, cycleID, &root)
	if err != nil {
		return artifact.Set{}, err
	}

	set := artifact.NewSet(cycleID, snap.GeneratedAt, rendered[render.FormatHTML], rendered[render.FormatText])

	for _, sink := range g.opts.Sinks {
		if err := sink.Publish(ctx, set); err != nil {
			return artifact.Set{}, errors.WrapWithContext(errors.ErrCodePublish,
				"publishing artifact set", err, map[string]any{"sink": sink.Name(), "cycle": cycleID})
		}
	}

	slog.Info("generation cycle completed",
		"cycle", cycleID, "elapsed", time.Since(start),
		"bytes", set.Size(), "degraded", len(snap.Degraded))
	return set, nil
}

// collect gathers all three sections in parallel. Sections whose sources
// all fail fall back to the cached snapshot and are marked degraded.
func (g *Generator) collect(ctx context.Context, cycleID uint64) telemetry.Snapshot {
	var (
		mu       sync.Mutex
		metrics  []telemetry.Metric
		spans    []telemetry.Span
		logs     []telemetry.LogEntry
		failures = map[telemetry.Section]string{}
		gotLive  = map[telemetry.Section]bool{}
	)

	record := func(section telemetry.Section, name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if _, seen := failures[section]; !seen {
			failures[section] = fmt.Sprintf("%s: %v", name, err)
		}
		slog.Warn("source collection failed",
			"cycle", cycleID, "section", section, "source", name, "error", err)
	}

	// The whole stage, fallback assembly included, is allowed the
	// per-source timeout plus the fallback margin.
	stageCtx, cancelStage := context.WithTimeout(ctx,
		g.opts.CollectionTimeout+(defaults.FallbackDeadline-defaults.CollectionTimeout))
	defer cancelStage()

	eg, egCtx := errgroup.WithContext(stageCtx)

	for _, src := range g.opts.MetricsSources {
		eg.Go(func() error {
			cctx, cancel := context.WithTimeout(egCtx, g.opts.CollectionTimeout)
			defer cancel()
			got, err := src.CollectMetrics(cctx)
			if err != nil {
				record(telemetry.SectionMetrics, src.Name(), err)
				return nil
			}
			mu.Lock()
			metrics = append(metrics, got...)
			gotLive[telemetry.SectionMetrics] = true
			mu.Unlock()
			return nil
		})
	}
	for _, src := range g.opts.SpanSources {
		eg.Go(func() error {
			cctx, cancel := context.WithTimeout(egCtx, g.opts.CollectionTimeout)
			defer cancel()
			got, err := src.CollectSpans(cctx)
			if err != nil {
				record(telemetry.SectionTraces, src.Name(), err)
				return nil
			}
			mu.Lock()
			spans = append(spans, got...)
			gotLive[telemetry.SectionTraces] = true
			mu.Unlock()
			return nil
		})
	}
	for _, src := range g.opts.LogSources {
		eg.Go(func() error {
			cctx, cancel := context.WithTimeout(egCtx, g.opts.CollectionTimeout)
			defer cancel()
			got, err := src.CollectLogs(cctx)
			if err != nil {
				record(telemetry.SectionLogs, src.Name(), err)
				return nil
			}
			mu.Lock()
			logs = append(logs, got...)
			gotLive[telemetry.SectionLogs] = true
			mu.Unlock()
			return nil
		})
	}

	_ = eg.Wait()

	cached, cachedAt, haveCache := g.opts.Cache.Get()

	degraded := map[telemetry.Section]string{}
	for section, reason := range failures {
		if gotLive[section] {
			continue
		}
		if haveCache {
			switch section {
			case telemetry.SectionMetrics:
				metrics = cached.Metrics
			case telemetry.SectionTraces:
				spans = cached.Spans
			case telemetry.SectionLogs:
				logs = cached.Logs
			}
			degraded[section] = fmt.Sprintf("%s (showing data from %s)",
				reason, cachedAt.UTC().Format(time.RFC3339))
		} else {
			degraded[section] = reason
		}
	}

	snap := telemetry.NewSnapshot(metrics, spans, logs, g.opts.Hostname)
	for section, reason := range degraded {
		snap = snap.MarkDegraded(section, reason)
	}

	if len(degraded) == 0 {
		g.opts.Cache.Put(&snap)
	}
	return snap
}

// renderAll runs every renderer against the finished block tree and
// returns the documents keyed by format.
func (g *Generator) renderAll(ctx context.Context, cycleID uint64, root *block.Block) (map[render.Format][]byte, error) {
	if g.opts.Pool != nil {
		return g.renderViaPool(ctx, cycleID, root)
	}

	var mu sync.Mutex
	out := make(map[render.Format][]byte, len(g.opts.Renderers))

	eg, _ := errgroup.WithContext(ctx)
	for _, r := range g.opts.Renderers {
		eg.Go(func() error {
			data, err := r.Render(root)
			if err != nil {
				return err
			}
			mu.Lock()
			out[r.Format()] = data
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type renderResult struct {
	format render.Format
	data   []byte
	err    error
}

func (g *Generator) renderViaPool(ctx context.Context, cycleID uint64, root *block.Block) (map[render.Format][]byte, error) {
	results := make(chan renderResult, len(g.opts.Renderers))
	deadline := time.Now().Add(g.opts.RenderTimeout)

	for _, r := range g.opts.Renderers {
		task := pool.Task{
			CycleID:  cycleID,
			Name:     "render-" + string(r.Format()),
			Deadline: deadline,
			Run: func(taskCtx context.Context) error {
				data, err := r.Render(root)
				results <- renderResult{format: r.Format(), data: data, err: err}
				return err
			},
		}
		if err := g.opts.Pool.Submit(task); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, "submitting render task", err)
		}
	}

	out := make(map[render.Format][]byte, len(g.opts.Renderers))
	timeout := time.After(g.opts.RenderTimeout + time.Second)
	for range g.opts.Renderers {
		select {
		case res := <-results:
			if res.err != nil {
				return nil, res.err
			}
			out[res.format] = res.data
		case <-ctx.Done():
			return nil, errors.Wrap(errors.ErrCodeTimeout, "render canceled", ctx.Err())
		case <-timeout:
			return nil, errors.Newf(errors.ErrCodeTimeout, "render did not complete within %s", g.opts.RenderTimeout)
		}
	}
	return out, nil
}
