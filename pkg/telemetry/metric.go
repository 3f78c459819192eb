package telemetry

import (
	"time"
)

// Well-known metric label keys.
const (
	// LabelUnit names the display unit of a metric (e.g. "%", "ms", "GB").
	LabelUnit = "unit"

	// LabelTrend carries a signed delta since the previous observation,
	// rendered as an up/down indicator next to the value.
	LabelTrend = "trend"
)

// Metric is a single named sample with an optional label set.
// A Metric is immutable once captured; the With* helpers return copies.
type Metric struct {
	Name      string            `json:"name" yaml:"name"`
	Value     float64           `json:"value" yaml:"value"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
	Labels    map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// NewMetric creates a Metric stamped with the current time.
func NewMetric(name string, value float64) Metric {
	return Metric{
		Name:      name,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}
}

// NewMetricAt creates a Metric with an explicit timestamp.
func NewMetricAt(name string, value float64, ts time.Time) Metric {
	return Metric{
		Name:      name,
		Value:     value,
		Timestamp: ts,
	}
}

// WithLabel returns a copy of the metric with the given label set.
func (m Metric) WithLabel(key, value string) Metric {
	labels := make(map[string]string, len(m.Labels)+1)
	for k, v := range m.Labels {
		labels[k] = v
	}
	labels[key] = value
	m.Labels = labels
	return m
}

// WithLabels returns a copy of the metric with all given labels merged in.
func (m Metric) WithLabels(labels map[string]string) Metric {
	merged := make(map[string]string, len(m.Labels)+len(labels))
	for k, v := range m.Labels {
		merged[k] = v
	}
	for k, v := range labels {
		merged[k] = v
	}
	m.Labels = merged
	return m
}

// Label returns the value of a label and whether it was present.
func (m Metric) Label(key string) (string, bool) {
	v, ok := m.Labels[key]
	return v, ok
}

// HasLabelValue reports whether the metric carries the given label/value pair.
func (m Metric) HasLabelValue(key, value string) bool {
	v, ok := m.Labels[key]
	return ok && v == value
}
