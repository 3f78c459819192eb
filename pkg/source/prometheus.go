package source

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"golang.org/x/time/rate"

	"github.com/boattime/portfolio/pkg/errors"
	"github.com/boattime/portfolio/pkg/telemetry"
)

// Query pairs a display name with a PromQL expression.
type Query struct {
	Name string `json:"name" yaml:"name"`
	Expr string `json:"expr" yaml:"expr"`
}

// Prometheus collects metrics by evaluating instant queries against a
// Prometheus-compatible endpoint.
type Prometheus struct {
	api     promv1.API
	queries []Query
	limiter *rate.Limiter
}

// NewPrometheus creates a source for the given endpoint and query set.
func NewPrometheus(address string, queries []Query) (*Prometheus, error) {
	client, err := api.NewClient(api.Config{Address: address})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "invalid prometheus address", err)
	}

	return &Prometheus{
		api:     promv1.NewAPI(client),
		queries: queries,
		limiter: rate.NewLimiter(rate.Every(time.Second), 10),
	}, nil
}

// Name implements MetricsSource.
func (p *Prometheus) Name() string {
	return "prometheus"
}

// CollectMetrics implements MetricsSource. Each configured query yields
// one sample per result series.
func (p *Prometheus) CollectMetrics(ctx context.Context) ([]telemetry.Metric, error) {
	var out []telemetry.Metric

	for _, q := range p.queries {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "prometheus rate limit wait", err)
		}

		value, _, err := p.api.Query(ctx, q.Expr, time.Now())
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(errors.ErrCodeTimeout, "prometheus query deadline exceeded", err)
			}
			return nil, errors.WrapWithContext(errors.ErrCodeCollectionUnavailable,
				"prometheus query failed", err, map[string]interface{}{"query": q.Expr})
		}

		samples, ok := value.(model.Vector)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeMalformedResponse,
				"prometheus query %q returned %s, expected vector", q.Expr, value.Type())
		}

		for _, s := range samples {
			m := telemetry.NewMetricAt(q.Name, float64(s.Value), s.Timestamp.Time())
			for k, v := range s.Metric {
				if k == model.MetricNameLabel {
					continue
				}
				m = m.WithLabel(string(k), string(v))
			}
			out = append(out, m)
		}
	}

	return out, nil
}
