package builder

import (
	"reflect"
	"testing"
	"time"

	"github.com/boattime/portfolio/pkg/block"
	"github.com/boattime/portfolio/pkg/errors"
	"github.com/boattime/portfolio/pkg/telemetry"
	"github.com/boattime/portfolio/pkg/template"
)

func testSnapshot(t *testing.T) telemetry.Snapshot {
	t.Helper()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	metrics := []telemetry.Metric{
		telemetry.NewMetricAt("CPU Usage", 78.5, base).WithLabel(telemetry.LabelUnit, "%").WithLabel(telemetry.LabelTrend, "+2.3"),
		telemetry.NewMetricAt("Memory", 4.2, base).WithLabel(telemetry.LabelUnit, "GB"),
		telemetry.NewMetricAt("Disk", 120.0, base),
	}

	root := telemetry.SpanBetween("API Request", base, base.Add(157*time.Millisecond))
	child := telemetry.SpanBetween("DB Query", base, base.Add(40*time.Millisecond)).WithParent(root.ID)
	spans := []telemetry.Span{root, child}

	logs := []telemetry.LogEntry{
		{Message: "Server started", Level: telemetry.LevelInfo, Timestamp: base, Source: "app"},
	}

	return telemetry.NewSnapshot(metrics, spans, logs, "host-a")
}

func mustParse(t *testing.T, content string) *template.Template {
	t.Helper()
	tmpl, err := template.FromString("test", content)
	if err != nil {
		t.Fatalf("template parse failed: %v", err)
	}
	return tmpl
}

func TestBuildBindsSections(t *testing.T) {
	snap := testSnapshot(t)
	tmpl := mustParse(t, "@heading{1}{Dashboard}\n@metrics\n@frame{Logs}{@logs}\n@traces")

	root, err := Build(tmpl, snap, BuiltinVars(snap))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if root.Kind != block.KindDocument {
		t.Fatalf("root kind = %s, want document", root.Kind)
	}

	var metricsPanel, logsPanel, tracesPanel *block.Block
	block.Walk(&root, func(b *block.Block) bool {
		switch b.Kind {
		case block.KindMetricsPanel:
			metricsPanel = b
		case block.KindLogsPanel:
			logsPanel = b
		case block.KindTracesPanel:
			tracesPanel = b
		}
		return true
	})

	if metricsPanel == nil || len(metricsPanel.Metrics) != 3 {
		t.Error("metrics binding should carry 3 samples")
	}
	if logsPanel == nil || len(logsPanel.Logs) != 1 {
		t.Error("logs binding should carry 1 entry")
	}
	if tracesPanel == nil || len(tracesPanel.Traces) != 1 {
		t.Error("traces binding should carry 1 root span")
	}
	if tracesPanel != nil && len(tracesPanel.Traces[0].Children) != 1 {
		t.Error("trace forest should nest the child span")
	}
}

func TestBuildDeterminism(t *testing.T) {
	snap := testSnapshot(t)
	tmpl := mustParse(t, "@heading{1}{[[hostname]]}\n@metrics\n@chart{bar}{linear}\n@logs\n@traces\n@paragraph{as of [[current_time]]}")
	vars := BuiltinVars(snap)

	first, err := Build(tmpl, snap, vars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	second, err := Build(tmpl, snap, vars)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce identical trees")
	}
}

func TestBuildVariableSubstitution(t *testing.T) {
	snap := testSnapshot(t)
	tmpl := mustParse(t, "@paragraph{host [[hostname]] has [[metric_count]] metrics}\n@var{log_count}")

	root, err := Build(tmpl, snap, BuiltinVars(snap))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if got := root.Children[0].Text; got != "host host-a has 3 metrics" {
		t.Errorf("substituted paragraph = %q", got)
	}
	if got := root.Children[1].Text; got != "1" {
		t.Errorf("@var{log_count} = %q, want 1", got)
	}
}

func TestBuildUnknownVariable(t *testing.T) {
	snap := testSnapshot(t)
	tmpl := mustParse(t, "@var{no_such_thing}")

	_, err := Build(tmpl, snap, BuiltinVars(snap))
	if err == nil {
		t.Fatal("expected binding error")
	}
	if !errors.IsCode(err, errors.ErrCodeBinding) {
		t.Errorf("error code = %s, want %s", errors.CodeOf(err), errors.ErrCodeBinding)
	}
}

func TestBuildCommandCapturesOutput(t *testing.T) {
	snap := testSnapshot(t)
	tmpl := mustParse(t, "@command{system status}\n@output{@metrics}")

	root, err := Build(tmpl, snap, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(root.Children) != 1 {
		t.Fatalf("document has %d children, want 1 merged command", len(root.Children))
	}
	cmd := root.Children[0]
	if cmd.Kind != block.KindCommand || cmd.Text != "system status" {
		t.Fatalf("command block = %+v", cmd)
	}
	out := cmd.Children[0]
	if out.Kind != block.KindOutput || len(out.Children) != 1 || out.Children[0].Kind != block.KindMetricsPanel {
		t.Errorf("output should wrap the bound metrics panel, got %+v", out)
	}
}

func TestBuildDegradedPanel(t *testing.T) {
	snap := testSnapshot(t).MarkDegraded(telemetry.SectionMetrics, "backend unreachable")
	tmpl := mustParse(t, "@metrics")

	root, err := Build(tmpl, snap, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	panel := root.Children[0]
	if panel.Unavailable != "backend unreachable" {
		t.Errorf("degraded panel reason = %q", panel.Unavailable)
	}
}

func TestBuildChartScaling(t *testing.T) {
	snap := testSnapshot(t)
	tmpl := mustParse(t, "@chart{bar}{linear}")

	root, err := Build(tmpl, snap, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	viz := root.Children[0].Viz
	if viz == nil || len(viz.Points) != 3 {
		t.Fatalf("chart should carry one point per metric, got %+v", viz)
	}

	// Disk has the largest value, Memory the smallest
	for _, p := range viz.Points {
		switch p.Label {
		case "Disk":
			if p.Scaled != 1 {
				t.Errorf("Disk scaled = %v, want 1", p.Scaled)
			}
		case "Memory":
			if p.Scaled != 0 {
				t.Errorf("Memory scaled = %v, want 0", p.Scaled)
			}
		}
	}
}

func TestBuildChartKind(t *testing.T) {
	snap := testSnapshot(t)
	tmpl := mustParse(t, "@chart{sparkline}{log}")

	root, err := Build(tmpl, snap, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	viz := root.Children[0].Viz
	if viz == nil {
		t.Fatal("chart did not produce a visualization")
	}
	if viz.Kind != block.VizSparkline {
		t.Errorf("viz kind = %v, want sparkline", viz.Kind)
	}
	if viz.Mode != block.ScaleLog {
		t.Errorf("viz mode = %v, want log", viz.Mode)
	}
}

func TestBuildMetricLiteral(t *testing.T) {
	snap := telemetry.NewSnapshot(nil, nil, nil, "host-a")
	tmpl := mustParse(t, "@metric{CPU Usage}{78.5}{%}{+2.3}")

	root, err := Build(tmpl, snap, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	panel := root.Children[0]
	if len(panel.Metrics) != 1 {
		t.Fatalf("literal metric panel = %+v", panel)
	}
	m := panel.Metrics[0]
	if m.Name != "CPU Usage" || m.Value != 78.5 {
		t.Errorf("metric = %+v", m)
	}
	if unit, _ := m.Label(telemetry.LabelUnit); unit != "%" {
		t.Errorf("unit label = %q", unit)
	}
}

func TestBuiltinVars(t *testing.T) {
	snap := testSnapshot(t)
	vars := BuiltinVars(snap)

	want := map[string]string{
		"hostname":     "host-a",
		"metric_count": "3",
		"trace_count":  "2",
		"log_count":    "1",
	}
	for k, v := range want {
		if vars[k] != v {
			t.Errorf("vars[%s] = %q, want %q", k, vars[k], v)
		}
	}
	if _, err := time.Parse(time.RFC3339, vars["current_time"]); err != nil {
		t.Errorf("current_time is not RFC3339: %q", vars["current_time"])
	}
}
