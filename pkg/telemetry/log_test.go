package telemetry

import "testing"

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarning, "WARNING"},
		{LevelError, "ERROR"},
		{Level(99), "INFO"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input  string
		want   Level
		wantOk bool
	}{
		{"DEBUG", LevelDebug, true},
		{"info", LevelInfo, true},
		{"Warning", LevelWarning, true},
		{"WARN", LevelWarning, true},
		{"ERROR", LevelError, true},
		{"ERR", LevelError, true},
		{" error ", LevelError, true},
		{"fatal", LevelInfo, false},
		{"", LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.input)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestLevelOrdering(t *testing.T) {
	if !(LevelDebug < LevelInfo && LevelInfo < LevelWarning && LevelWarning < LevelError) {
		t.Error("levels must order Debug < Info < Warning < Error")
	}
}

func TestLogEntry_WithMetadata(t *testing.T) {
	base := NewLogEntry("cache miss", LevelWarning, "cache")
	tagged := base.WithMetadata("key", "user:42")

	if v, ok := tagged.Metadata["key"]; !ok || v != "user:42" {
		t.Errorf("Metadata[key] = (%q, %v)", v, ok)
	}
	if len(base.Metadata) != 0 {
		t.Error("WithMetadata mutated the receiver")
	}
}
