package telemetry

import (
	"sort"
	"time"
)

// Section identifies one collected slice of a snapshot.
type Section string

const (
	SectionMetrics Section = "metrics"
	SectionTraces  Section = "traces"
	SectionLogs    Section = "logs"
)

// Snapshot is the complete input of one generation cycle. It is constructed
// once by the generator and must be treated as read-only afterwards: the
// render stage shares it by reference across goroutines without locking.
type Snapshot struct {
	Metrics     []Metric
	Spans       []Span
	Logs        []LogEntry
	GeneratedAt time.Time
	Hostname    string

	// Degraded records sections whose live collection failed, keyed by
	// section with a short human-readable reason. The builder turns these
	// into explicit "unavailable" marker blocks instead of aborting.
	Degraded map[Section]string
}

// NewSnapshot assembles a Snapshot, copying the input slices and ordering
// logs by ascending timestamp. The inputs may be reused by the caller
// afterwards.
func NewSnapshot(metrics []Metric, spans []Span, logs []LogEntry, hostname string) Snapshot {
	m := make([]Metric, len(metrics))
	copy(m, metrics)
	s := make([]Span, len(spans))
	copy(s, spans)
	l := make([]LogEntry, len(logs))
	copy(l, logs)
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Timestamp.Before(l[j].Timestamp)
	})
	return Snapshot{
		Metrics:     m,
		Spans:       s,
		Logs:        l,
		GeneratedAt: time.Now().UTC(),
		Hostname:    hostname,
	}
}

// MarkDegraded returns a copy of the snapshot with the given section flagged
// as degraded.
func (s Snapshot) MarkDegraded(section Section, reason string) Snapshot {
	d := make(map[Section]string, len(s.Degraded)+1)
	for k, v := range s.Degraded {
		d[k] = v
	}
	d[section] = reason
	s.Degraded = d
	return s
}

// IsDegraded reports whether the given section failed live collection and,
// if so, why.
func (s Snapshot) IsDegraded(section Section) (string, bool) {
	reason, ok := s.Degraded[section]
	return reason, ok
}

// Forest resolves the snapshot's spans into an ordered forest.
func (s Snapshot) Forest() []SpanNode {
	return BuildForest(s.Spans)
}
