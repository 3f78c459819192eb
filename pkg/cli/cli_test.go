package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boattime/portfolio/pkg/artifact"
	"github.com/boattime/portfolio/pkg/config"
)

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var buf bytes.Buffer
	cmd.Writer = &buf
	err := cmd.Run(t.Context(), append([]string{name}, args...))
	return buf.String(), err
}

func TestRenderCommandText(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "preview.tmpl",
		"@heading{1}{Preview}\n@paragraph{Generated on [[hostname]]}\n@metrics\n")

	out, err := runCLI(t, "render", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Preview") {
		t.Error("output missing heading text")
	}
	if !strings.Contains(out, "=======") {
		t.Error("text output missing heading underline")
	}
	if !strings.Contains(out, "No metrics available") {
		t.Error("empty snapshot should render empty metrics panel")
	}
}

func TestRenderCommandHTML(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "preview.tmpl", "@heading{1}{Preview}\n")

	out, err := runCLI(t, "render", "--format", "html", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "Preview") {
		t.Error("html output missing rendered heading")
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "preview.tmpl", "@heading{1}{Preview}\n")

	if _, err := runCLI(t, "render", "--format", "pdf", path); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRenderCommandRequiresArg(t *testing.T) {
	if _, err := runCLI(t, "render"); err == nil {
		t.Error("expected error when template file argument is missing")
	}
}

func TestRenderCommandMalformedTemplate(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "broken.tmpl", "@frame{Title}{unclosed")

	if _, err := runCLI(t, "render", path); err == nil {
		t.Error("expected parse error for unbalanced template")
	}
}

func TestGenerateCommand(t *testing.T) {
	templatesDir := t.TempDir()
	writeTemplate(t, templatesDir, "index.tmpl", "@heading{1}{Status}\n@metrics\n")
	outDir := filepath.Join(t.TempDir(), "public")

	t.Setenv(config.EnvTemplatesDir, templatesDir)

	out, err := runCLI(t, "generate", "--output", outDir)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "published") {
		t.Errorf("output = %q, want publish confirmation", out)
	}

	for _, f := range []string{artifact.HTMLFileName, artifact.TextFileName} {
		if _, err := os.Stat(filepath.Join(outDir, f)); err != nil {
			t.Errorf("missing published file %s: %v", f, err)
		}
	}
}

func TestBuildSourcesFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Sources.Prometheus = &config.PrometheusConfig{
		Address: "http://localhost:9090",
		Queries: []config.PrometheusQuery{{Name: "CPU", Expr: "up"}},
	}
	cfg.Sources.LogFile = &config.LogFileConfig{Path: "/var/log/app.jsonl", MaxLines: 50}
	cfg.Sources.SpanFile = &config.SpanFileConfig{Path: "/var/log/spans.jsonl", MaxSpans: 25}

	metrics, spans, logs, closeAll, err := buildSources(cfg)
	if err != nil {
		t.Fatalf("buildSources() error = %v", err)
	}
	defer closeAll()

	if len(metrics) != 1 {
		t.Errorf("metrics sources = %d, want 1", len(metrics))
	}
	if len(spans) != 1 {
		t.Errorf("span sources = %d, want 1", len(spans))
	}
	if len(logs) != 1 {
		t.Errorf("log sources = %d, want 1", len(logs))
	}
}
