package render

import (
	"strings"
	"testing"
	"time"

	"github.com/boattime/portfolio/pkg/block"
	"github.com/boattime/portfolio/pkg/builder"
	"github.com/boattime/portfolio/pkg/telemetry"
	"github.com/boattime/portfolio/pkg/template"
)

// scenarioSnapshot carries three metrics, one root trace with a child,
// and one log entry.
func scenarioSnapshot(t *testing.T) telemetry.Snapshot {
	t.Helper()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	metrics := []telemetry.Metric{
		telemetry.NewMetricAt("CPU Usage", 78.5, base).WithLabel(telemetry.LabelUnit, "%"),
		telemetry.NewMetricAt("Memory", 4.2, base).WithLabel(telemetry.LabelUnit, "GB"),
		telemetry.NewMetricAt("Requests", 1250, base),
	}

	root := telemetry.SpanBetween("API Request", base, base.Add(157*time.Millisecond)).WithMetadata("status", "completed")
	child := telemetry.SpanBetween("DB Query", base, base.Add(40*time.Millisecond)).WithParent(root.ID)
	spans := []telemetry.Span{root, child}

	logs := []telemetry.LogEntry{
		{Message: "Server started", Level: telemetry.LevelInfo, Timestamp: base, Source: "app"},
	}

	return telemetry.NewSnapshot(metrics, spans, logs, "host-a")
}

func scenarioTree(t *testing.T) block.Block {
	t.Helper()
	snap := scenarioSnapshot(t)
	tmpl, err := template.FromString("home",
		"@heading{1}{Dashboard}\n@paragraph{[[metric_count]] metrics, [[trace_count]] traces, [[log_count]] logs}\n@metrics\n@chart{bar}{linear}\n@frame{Recent Logs}{@logs}\n@traces")
	if err != nil {
		t.Fatal(err)
	}

	root, err := builder.Build(tmpl, snap, builder.BuiltinVars(snap))
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestRenderersSurfaceSameValues(t *testing.T) {
	root := scenarioTree(t)

	htmlOut, err := NewHTML(WithTitle("home")).Render(&root)
	if err != nil {
		t.Fatalf("html render failed: %v", err)
	}
	textOut, err := NewText().Render(&root)
	if err != nil {
		t.Fatalf("text render failed: %v", err)
	}

	// every data value must appear in both outputs
	values := []string{
		"CPU Usage", "78.5", "Memory", "4.2", "Requests", "1250",
		"Server started", "app",
		"API Request", "157 ms", "DB Query", "completed",
		"3 metrics, 2 traces, 1 logs",
	}

	for _, v := range values {
		if !strings.Contains(string(htmlOut), v) {
			t.Errorf("html output missing %q", v)
		}
		if !strings.Contains(string(textOut), v) {
			t.Errorf("text output missing %q", v)
		}
	}
}

func TestRenderersShareScaledValues(t *testing.T) {
	root := scenarioTree(t)

	var viz *block.Visualization
	block.Walk(&root, func(b *block.Block) bool {
		if b.Kind == block.KindVisualization {
			viz = b.Viz
		}
		return true
	})
	if viz == nil {
		t.Fatal("scenario tree should carry a visualization")
	}

	// renderers consume the stored normalized values, so rendering must
	// not change them
	before := make([]float64, len(viz.Points))
	for i, p := range viz.Points {
		before[i] = p.Scaled
	}

	if _, err := NewHTML().Render(&root); err != nil {
		t.Fatal(err)
	}
	if _, err := NewText().Render(&root); err != nil {
		t.Fatal(err)
	}

	for i, p := range viz.Points {
		if p.Scaled != before[i] {
			t.Errorf("point %d scaled value changed during render", i)
		}
	}
}

func TestRenderDeterminism(t *testing.T) {
	root := scenarioTree(t)

	for _, r := range []Renderer{NewHTML(WithTitle("home")), NewText()} {
		first, err := r.Render(&root)
		if err != nil {
			t.Fatal(err)
		}
		second, err := r.Render(&root)
		if err != nil {
			t.Fatal(err)
		}
		if string(first) != string(second) {
			t.Errorf("%s renderer output is not deterministic", r.Format())
		}
	}
}

func TestEveryKindHandledByBothRenderers(t *testing.T) {
	kinds := []block.Block{
		block.Document(),
		block.Heading(1, "h"),
		block.Paragraph("p"),
		block.Command("c", block.Output()),
		block.Output(),
		block.Frame("f"),
		block.MetricsPanel(nil),
		block.LogsPanel(nil),
		block.TracesPanel(nil),
		block.NewVisualization(block.VizBar, block.ScaleLinear, nil),
		block.Table([]string{"a"}, [][]string{{"1"}}),
		block.Raw("r"),
	}

	for _, r := range []Renderer{NewHTML(), NewText()} {
		for i := range kinds {
			if _, err := r.Render(&kinds[i]); err != nil {
				t.Errorf("%s renderer failed on kind %s: %v", r.Format(), kinds[i].Kind, err)
			}
		}
	}
}
