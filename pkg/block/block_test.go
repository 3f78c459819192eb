package block

import (
	"testing"

	"github.com/boattime/portfolio/pkg/telemetry"
)

func TestHeadingClamping(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  int
	}{
		{"below range", 0, 1},
		{"in range", 2, 2},
		{"above range", 7, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Heading(tt.level, "title")
			if h.Level != tt.want {
				t.Errorf("Heading(%d).Level = %d, want %d", tt.level, h.Level, tt.want)
			}
		})
	}
}

func TestCommandNestsOutput(t *testing.T) {
	cmd := Command("uptime", Output(Raw("up 12 days")))
	if cmd.Kind != KindCommand || cmd.Text != "uptime" {
		t.Fatalf("unexpected command block: %+v", cmd)
	}
	if len(cmd.Children) != 1 || cmd.Children[0].Kind != KindOutput {
		t.Fatalf("command should nest exactly one output child, got %+v", cmd.Children)
	}
}

func TestMarkUnavailableCopies(t *testing.T) {
	panel := MetricsPanel(nil)
	degraded := panel.MarkUnavailable("backend unreachable")

	if panel.Unavailable != "" {
		t.Error("MarkUnavailable must not mutate the receiver")
	}
	if degraded.Unavailable != "backend unreachable" {
		t.Errorf("Unavailable = %q", degraded.Unavailable)
	}
}

func TestWalkOrderAndCount(t *testing.T) {
	tree := Frame("outer",
		Heading(1, "a"),
		Frame("inner",
			Paragraph("b"),
			LogsPanel([]telemetry.LogEntry{}),
		),
		Paragraph("c"),
	)

	var kinds []Kind
	Walk(&tree, func(b *Block) bool {
		kinds = append(kinds, b.Kind)
		return true
	})

	want := []Kind{KindFrame, KindHeading, KindFrame, KindParagraph, KindLogsPanel, KindParagraph}
	if len(kinds) != len(want) {
		t.Fatalf("visited %d blocks, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("visit order [%d] = %s, want %s", i, kinds[i], want[i])
		}
	}

	if got := Count(&tree, KindParagraph); got != 2 {
		t.Errorf("Count(paragraph) = %d, want 2", got)
	}
}

func TestWalkPrune(t *testing.T) {
	tree := Frame("outer", Frame("inner", Paragraph("hidden")))
	visited := 0
	Walk(&tree, func(b *Block) bool {
		visited++
		return b.Title != "inner"
	})
	if visited != 2 {
		t.Errorf("visited %d blocks with pruning, want 2", visited)
	}
}

func TestKindString(t *testing.T) {
	if KindMetricsPanel.String() != "metrics_panel" {
		t.Errorf("got %s", KindMetricsPanel)
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("got %s", Kind(99))
	}
}
