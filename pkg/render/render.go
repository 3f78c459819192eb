package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/boattime/portfolio/pkg/block"
	"github.com/boattime/portfolio/pkg/telemetry"
)

// Format identifies a renderer output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// Ext returns the artifact file extension for the format.
func (f Format) Ext() string {
	if f == FormatHTML {
		return ".html"
	}
	return ".txt"
}

// Renderer projects a block tree into output bytes. Implementations must
// handle every block kind.
type Renderer interface {
	Render(root *block.Block) ([]byte, error)
	Format() Format
}

// metricEntry is the format-independent projection of one metric sample.
type metricEntry struct {
	Name     string
	Value    string
	Unit     string
	Trend    float64
	HasTrend bool
}

// humanFloat formats a float without trailing zeros, identically in every
// renderer.
func humanFloat(v float64) string {
	return humanize.Ftoa(v)
}

// metricEntries extracts identical display values for every renderer.
func metricEntries(metrics []telemetry.Metric) []metricEntry {
	entries := make([]metricEntry, len(metrics))
	for i, m := range metrics {
		e := metricEntry{Name: m.Name, Value: humanFloat(m.Value)}
		if unit, ok := m.Label(telemetry.LabelUnit); ok {
			e.Unit = unit
		}
		if trend, ok := m.Label(telemetry.LabelTrend); ok {
			if t, err := strconv.ParseFloat(trend, 64); err == nil {
				e.Trend = t
				e.HasTrend = true
			}
		}
		entries[i] = e
	}
	return entries
}

// traceTableHeaders are the columns of a rendered trace table.
var traceTableHeaders = []string{"Name", "Duration", "Started", "Status"}

// traceRows flattens a span forest into table rows, indenting child span
// names by depth. Both renderers consume the same rows.
func traceRows(nodes []telemetry.SpanNode) [][]string {
	var rows [][]string
	var walk func(node telemetry.SpanNode, depth int)
	walk = func(node telemetry.SpanNode, depth int) {
		status := "unknown"
		if s, ok := node.Span.Metadatum("status"); ok {
			status = s
		}
		started := ""
		if !node.Span.Start.IsZero() {
			started = node.Span.Start.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{
			strings.Repeat("  ", depth) + node.Span.Name,
			humanFloat(float64(node.Span.Duration.Milliseconds())) + " ms",
			started,
			status,
		})
		for _, child := range node.Children {
			walk(child, depth+1)
		}
	}
	for _, node := range nodes {
		walk(node, 0)
	}
	return rows
}

// logTimestamp formats an entry timestamp, empty when unset.
func logTimestamp(e telemetry.LogEntry) string {
	if e.Timestamp.IsZero() {
		return ""
	}
	return e.Timestamp.UTC().Format(time.RFC3339)
}

// unavailableText is the degradation marker shown by every renderer.
func unavailableText(section, reason string) string {
	return section + " unavailable: " + reason
}
