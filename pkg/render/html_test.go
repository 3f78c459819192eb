package render

import (
	"strings"
	"testing"
	"time"

	"github.com/boattime/portfolio/pkg/block"
	"github.com/boattime/portfolio/pkg/errors"
	"github.com/boattime/portfolio/pkg/telemetry"
)

func TestHTMLRenderPage(t *testing.T) {
	r := NewHTML(WithTitle("home"))
	root := block.Document(
		block.Heading(1, "Dashboard"),
		block.Paragraph("System status."),
	)

	out, err := r.Render(&root)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	page := string(out)
	for _, want := range []string{"<!DOCTYPE html>", "<title>home</title>", "<style>", "<h1", "Dashboard", "terminal-paragraph", "System status."} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHTMLEscaping(t *testing.T) {
	r := NewHTML()
	root := block.Document(block.Paragraph(`<script>alert("x")</script>`))

	out, err := r.Render(&root)
	if err != nil {
		t.Fatal(err)
	}

	page := string(out)
	if strings.Contains(page, "<script>alert") {
		t.Error("paragraph content must be escaped")
	}
	if !strings.Contains(page, "&lt;script&gt;") {
		t.Error("expected escaped markup in output")
	}
}

func TestHTMLFrameTitleCasing(t *testing.T) {
	r := NewHTML()
	root := block.Document(block.Frame("recent logs", block.Paragraph("ok")))

	out, err := r.Render(&root)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "Recent Logs") {
		t.Error("frame titles should be title-cased")
	}
}

func TestHTMLMetricTrends(t *testing.T) {
	up := telemetry.NewMetric("Requests", 150).WithLabel(telemetry.LabelTrend, "+0.5")
	down := telemetry.NewMetric("Errors", 10).WithLabel(telemetry.LabelTrend, "-0.3").WithLabel(telemetry.LabelUnit, "per min")

	r := NewHTML()
	root := block.Document(block.MetricsPanel([]telemetry.Metric{up, down}))

	out, err := r.Render(&root)
	if err != nil {
		t.Fatal(err)
	}

	page := string(out)
	if !strings.Contains(page, "terminal-trend-up") {
		t.Error("positive trend should add the up class")
	}
	if !strings.Contains(page, "terminal-trend-down") {
		t.Error("negative trend should add the down class")
	}
	if !strings.Contains(page, "10 per min") {
		t.Error("unit should follow the value")
	}
}

func TestHTMLLogLevelClasses(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	logs := []telemetry.LogEntry{
		{Message: "started", Level: telemetry.LevelInfo, Timestamp: base, Source: "app"},
		{Message: "disk full", Level: telemetry.LevelError, Timestamp: base, Source: "storage"},
	}

	r := NewHTML()
	root := block.Document(block.LogsPanel(logs))

	out, err := r.Render(&root)
	if err != nil {
		t.Fatal(err)
	}

	page := string(out)
	if !strings.Contains(page, "terminal-log-info") || !strings.Contains(page, "terminal-log-error") {
		t.Error("log entries should carry level classes")
	}
	if !strings.Contains(page, "2026-08-01T12:00:00Z") {
		t.Error("log timestamps should be rendered")
	}
}

func TestHTMLUnavailablePanel(t *testing.T) {
	r := NewHTML()
	panel := block.MetricsPanel(nil).MarkUnavailable("backend unreachable")
	root := block.Document(panel)

	out, err := r.Render(&root)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "metrics unavailable: backend unreachable") {
		t.Error("degraded panel should surface the reason")
	}
}

func TestHTMLVisualizationUsesStoredScale(t *testing.T) {
	viz := block.NewVisualization(block.VizBar, block.ScaleLinear, []block.Point{
		{Label: "a", Raw: 0},
		{Label: "b", Raw: 10},
	})
	r := NewHTML()
	root := block.Document(viz)

	out, err := r.Render(&root)
	if err != nil {
		t.Fatal(err)
	}

	page := string(out)
	if !strings.Contains(page, "width: 100.0%") {
		t.Error("max point should render at full width")
	}
	if !strings.Contains(page, "width: 0.0%") {
		t.Error("min point should render at zero width")
	}
}

func TestHTMLSparkline(t *testing.T) {
	viz := block.NewVisualization(block.VizSparkline, block.ScaleLinear, []block.Point{
		{Label: "a", Raw: 0},
		{Label: "b", Raw: 10},
	})
	r := NewHTML()
	root := block.Document(viz)

	out, err := r.Render(&root)
	if err != nil {
		t.Fatal(err)
	}

	page := string(out)
	if !strings.Contains(page, "terminal-sparkline-bar") {
		t.Errorf("sparkline markup missing:\n%s", page)
	}
	if !strings.Contains(page, "height: 100.0%") || !strings.Contains(page, "height: 10.0%") {
		t.Error("sparkline bars should scale between 10% and 100% height")
	}
	if !strings.Contains(page, `title="b: 10"`) {
		t.Error("sparkline bars should carry label/value tooltips")
	}
}

func TestHTMLUnhandledKind(t *testing.T) {
	r := NewHTML()
	bogus := block.Block{Kind: block.Kind(97)}

	_, err := r.Render(&bogus)
	if err == nil {
		t.Fatal("expected render error for unknown kind")
	}
	if !errors.IsCode(err, errors.ErrCodeRender) {
		t.Errorf("error code = %s, want %s", errors.CodeOf(err), errors.ErrCodeRender)
	}
}
