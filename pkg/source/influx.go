package source

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxapi "github.com/influxdata/influxdb-client-go/v2/api"
	"golang.org/x/time/rate"

	"github.com/boattime/portfolio/pkg/errors"
	"github.com/boattime/portfolio/pkg/telemetry"
)

// Influx collects metrics from an InfluxDB v2 bucket using Flux queries.
type Influx struct {
	client  influxdb2.Client
	query   influxapi.QueryAPI
	bucket  string
	window  time.Duration
	limiter *rate.Limiter
}

// NewInflux creates a source reading the most recent samples from the
// given bucket. The window bounds how far back each query reaches.
func NewInflux(url, token, org, bucket string, window time.Duration) *Influx {
	client := influxdb2.NewClient(url, token)
	return &Influx{
		client:  client,
		query:   client.QueryAPI(org),
		bucket:  bucket,
		window:  window,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Name implements MetricsSource.
func (s *Influx) Name() string {
	return "influxdb"
}

// Close releases the underlying HTTP client.
func (s *Influx) Close() {
	s.client.Close()
}

// CollectMetrics implements MetricsSource. It fetches the last sample of
// every series in the bucket within the configured window.
func (s *Influx) CollectMetrics(ctx context.Context) ([]telemetry.Metric, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "influx rate limit wait", err)
	}

	flux := fmt.Sprintf(`
		from(bucket: %q)
		  |> range(start: -%ds)
		  |> last()
	`, s.bucket, int(s.window.Seconds()))

	result, err := s.query.Query(ctx, flux)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "influx query deadline exceeded", err)
		}
		return nil, errors.Wrap(errors.ErrCodeCollectionUnavailable, "influx query failed", err)
	}

	var out []telemetry.Metric
	for result.Next() {
		record := result.Record()
		value, ok := record.Value().(float64)
		if !ok {
			continue
		}

		name := record.Measurement()
		if field := record.Field(); field != "" && field != "value" {
			name = name + "_" + field
		}
		out = append(out, telemetry.NewMetricAt(name, value, record.Time()))
	}
	if result.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedResponse, "influx result iteration failed", result.Err())
	}

	return out, nil
}
