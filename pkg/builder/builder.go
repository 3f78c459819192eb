package builder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/boattime/portfolio/pkg/block"
	"github.com/boattime/portfolio/pkg/errors"
	"github.com/boattime/portfolio/pkg/telemetry"
	"github.com/boattime/portfolio/pkg/template"
)

// Build binds a parsed template against a snapshot and variable set,
// producing the root content block for one generation cycle.
func Build(tmpl *template.Template, snap telemetry.Snapshot, vars map[string]string) (block.Block, error) {
	b := &binder{snap: snap, vars: vars}
	children, err := b.bindNodes(tmpl.Nodes)
	if err != nil {
		return block.Block{}, err
	}
	return block.Document(children...), nil
}

// BuiltinVars returns the variable set derived from a snapshot: the
// generation time, hostname, and per-section item counts.
func BuiltinVars(snap telemetry.Snapshot) map[string]string {
	return map[string]string{
		"current_time": snap.GeneratedAt.UTC().Format(time.RFC3339),
		"hostname":     snap.Hostname,
		"metric_count": strconv.Itoa(len(snap.Metrics)),
		"trace_count":  strconv.Itoa(len(snap.Spans)),
		"log_count":    strconv.Itoa(len(snap.Logs)),
	}
}

type binder struct {
	snap telemetry.Snapshot
	vars map[string]string
}

func (b *binder) bindNodes(nodes []template.Node) ([]block.Block, error) {
	var blocks []block.Block

	for i := 0; i < len(nodes); i++ {
		node := nodes[i]

		// a command directly followed by an output captures it
		if node.Kind == template.NodeCommand && i+1 < len(nodes) && nodes[i+1].Kind == template.NodeOutput {
			out, err := b.bindNodes(nodes[i+1].Children)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, block.Command(b.subst(node.Text), block.Output(out...)))
			i++
			continue
		}

		bound, err := b.bindNode(node)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, bound...)
	}

	return blocks, nil
}

func (b *binder) bindNode(node template.Node) ([]block.Block, error) {
	switch node.Kind {
	case template.NodeText, template.NodeParagraph:
		return []block.Block{block.Paragraph(b.subst(node.Text))}, nil

	case template.NodeHeading:
		return []block.Block{block.Heading(node.Level, b.subst(node.Text))}, nil

	case template.NodeCommand:
		return []block.Block{block.Command(b.subst(node.Text), block.Output())}, nil

	case template.NodeOutput:
		children, err := b.bindNodes(node.Children)
		if err != nil {
			return nil, err
		}
		return []block.Block{block.Output(children...)}, nil

	case template.NodeFrame:
		children, err := b.bindNodes(node.Children)
		if err != nil {
			return nil, err
		}
		return []block.Block{block.Frame(b.subst(node.Title), children...)}, nil

	case template.NodeBinding:
		return b.bindMarker(node.Binding)

	case template.NodeVar:
		value, ok := b.vars[node.Binding]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeBinding, "unknown variable %q", node.Binding)
		}
		return []block.Block{block.Paragraph(value)}, nil

	case template.NodeChart:
		return []block.Block{b.bindChart(node.ChartKind, node.ChartMode)}, nil

	case template.NodeMetric:
		return b.bindMetricLiteral(node)

	case template.NodeLog:
		return b.bindLogLiteral(node)

	case template.NodeTable:
		return []block.Block{b.bindTable(node)}, nil

	case template.NodeTrace:
		return b.bindTraceLiteral(node)

	case template.NodeRaw:
		return []block.Block{block.Raw(b.subst(node.Text))}, nil

	default:
		return nil, errors.Newf(errors.ErrCodeBinding, "unbindable node kind %s", node.Kind)
	}
}

func (b *binder) bindMarker(name string) ([]block.Block, error) {
	switch name {
	case template.BindMetrics:
		panel := block.MetricsPanel(b.snap.Metrics)
		if reason, ok := b.snap.IsDegraded(telemetry.SectionMetrics); ok {
			panel = panel.MarkUnavailable(reason)
		}
		return []block.Block{panel}, nil

	case template.BindLogs:
		panel := block.LogsPanel(b.snap.Logs)
		if reason, ok := b.snap.IsDegraded(telemetry.SectionLogs); ok {
			panel = panel.MarkUnavailable(reason)
		}
		return []block.Block{panel}, nil

	case template.BindTraces:
		panel := block.TracesPanel(b.snap.Forest())
		if reason, ok := b.snap.IsDegraded(telemetry.SectionTraces); ok {
			panel = panel.MarkUnavailable(reason)
		}
		return []block.Block{panel}, nil

	default:
		return nil, errors.Newf(errors.ErrCodeBinding, "unknown data key %q", name)
	}
}

func (b *binder) bindChart(kind, mode string) block.Block {
	viz := block.VizBar
	if kind == "sparkline" {
		viz = block.VizSparkline
	}
	scale := block.ScaleLinear
	if mode == "log" {
		scale = block.ScaleLog
	}

	points := make([]block.Point, len(b.snap.Metrics))
	for i, m := range b.snap.Metrics {
		points[i] = block.Point{Label: m.Name, Raw: m.Value}
	}
	return block.NewVisualization(viz, scale, points)
}

func (b *binder) bindMetricLiteral(node template.Node) ([]block.Block, error) {
	value, err := strconv.ParseFloat(b.subst(node.Value), 64)
	if err != nil {
		return nil, errors.Newf(errors.ErrCodeBinding, "metric %q has non-numeric value %q", node.Name, node.Value)
	}

	m := telemetry.Metric{Name: b.subst(node.Name), Value: value}
	if node.Unit != "" {
		m = m.WithLabel(telemetry.LabelUnit, node.Unit)
	}
	if node.Trend != "" {
		m = m.WithLabel(telemetry.LabelTrend, node.Trend)
	}
	return []block.Block{block.MetricsPanel([]telemetry.Metric{m})}, nil
}

func (b *binder) bindLogLiteral(node template.Node) ([]block.Block, error) {
	level, ok := telemetry.ParseLevel(node.LogLevel)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeBinding, "unknown log level %q", node.LogLevel)
	}

	entry := telemetry.LogEntry{
		Message: b.subst(node.Message),
		Level:   level,
		Source:  node.Source,
	}
	if node.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, node.Timestamp)
		if err != nil {
			return nil, errors.Newf(errors.ErrCodeBinding, "invalid log timestamp %q", node.Timestamp)
		}
		entry.Timestamp = ts
	}
	return []block.Block{block.LogsPanel([]telemetry.LogEntry{entry})}, nil
}

func (b *binder) bindTable(node template.Node) block.Block {
	headers := make([]string, len(node.Headers))
	for i, h := range node.Headers {
		headers[i] = b.subst(h)
	}
	rows := make([][]string, len(node.Rows))
	for i, row := range node.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = b.subst(cell)
		}
		rows[i] = cells
	}
	return block.Table(headers, rows)
}

func (b *binder) bindTraceLiteral(node template.Node) ([]block.Block, error) {
	span := telemetry.Span{
		Name:     b.subst(node.Name),
		Duration: time.Duration(node.DurationMS) * time.Millisecond,
		Metadata: map[string]string{},
	}
	if node.StartTime != "" {
		ts, err := time.Parse(time.RFC3339, node.StartTime)
		if err != nil {
			return nil, errors.Newf(errors.ErrCodeBinding, "invalid trace start time %q", node.StartTime)
		}
		span.Start = ts
		span.End = ts.Add(span.Duration)
	}
	for k, v := range node.Metadata {
		span.Metadata[k] = v
	}
	if node.Status != "" {
		span.Metadata["status"] = node.Status
	}

	forest := []telemetry.SpanNode{{Span: span}}
	return []block.Block{block.TracesPanel(forest)}, nil
}

// subst replaces [[name]] placeholders with known variable values.
// Unknown placeholders are left verbatim.
func (b *binder) subst(text string) string {
	if !strings.Contains(text, "[[") {
		return text
	}
	names := make([]string, 0, len(b.vars))
	for name := range b.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		text = strings.ReplaceAll(text, fmt.Sprintf("[[%s]]", name), b.vars[name])
	}
	return text
}
