package cli

import (
	"github.com/boattime/portfolio/pkg/artifact"
	"github.com/boattime/portfolio/pkg/config"
	"github.com/boattime/portfolio/pkg/generator"
	"github.com/boattime/portfolio/pkg/pool"
	"github.com/boattime/portfolio/pkg/source"
	"github.com/boattime/portfolio/pkg/store"
	"github.com/boattime/portfolio/pkg/template"
	semver "github.com/boattime/portfolio/pkg/version"
)

// buildSources assembles the configured telemetry sources. The returned
// close function releases any source-held connections.
func buildSources(cfg config.Config) ([]source.MetricsSource, []source.SpanSource, []source.LogSource, func(), error) {
	var (
		metrics []source.MetricsSource
		spans   []source.SpanSource
		logs    []source.LogSource
		closers []func()
	)

	if p := cfg.Sources.Prometheus; p != nil {
		queries := make([]source.Query, 0, len(p.Queries))
		for _, q := range p.Queries {
			queries = append(queries, source.Query{Name: q.Name, Expr: q.Expr})
		}
		src, err := source.NewPrometheus(p.Address, queries)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		metrics = append(metrics, src)
	}

	if i := cfg.Sources.Influx; i != nil {
		src := source.NewInflux(i.URL, i.Token, i.Org, i.Bucket, i.Window.Std())
		metrics = append(metrics, src)
		closers = append(closers, src.Close)
	}

	if l := cfg.Sources.LogFile; l != nil {
		logs = append(logs, source.NewLogFile(l.Path, l.MaxLines))
	}

	if s := cfg.Sources.SpanFile; s != nil {
		spans = append(spans, source.NewSpanFile(s.Path, s.MaxSpans))
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return metrics, spans, logs, closeAll, nil
}

// buildGenerator wires a generator from the validated config. The
// returned template store is the one the generator loads from, so the
// caller can attach a file watcher to it.
func buildGenerator(cfg config.Config, p *pool.Pool) (*generator.Generator, *template.Store, func(), error) {
	metrics, spans, logs, closeSources, err := buildSources(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	target, err := artifact.ParseTarget(cfg.Output)
	if err != nil {
		closeSources()
		return nil, nil, nil, err
	}
	if target.IsOCI && target.Tag == "" {
		if v, parseErr := semver.Parse(version); parseErr == nil {
			target.Tag = v.Tag()
		}
	}
	sink, err := artifact.NewSink(target)
	if err != nil {
		closeSources()
		return nil, nil, nil, err
	}

	templates := template.NewStore(cfg.TemplatesDir)
	gen, err := generator.New(generator.Options{
		MetricsSources: metrics,
		SpanSources:    spans,
		LogSources:     logs,
		Cache:          store.NewSnapshotCache(),
		Templates:      templates,
		TemplateName:   cfg.Template,
		Vars:           cfg.Vars,
		Sinks:          []artifact.Sink{sink},
		Pool:           p,
	})
	if err != nil {
		closeSources()
		return nil, nil, nil, err
	}
	return gen, templates, closeSources, nil
}
