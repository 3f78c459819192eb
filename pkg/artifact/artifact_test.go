package artifact

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewSet(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	set := NewSet(7, at, []byte("<html>"), []byte("text"))

	if set.CycleID != 7 {
		t.Errorf("CycleID = %d, want 7", set.CycleID)
	}
	if !set.GeneratedAt.Equal(at) {
		t.Errorf("GeneratedAt = %v, want %v", set.GeneratedAt, at)
	}
	if set.Size() != 10 {
		t.Errorf("Size() = %d, want 10", set.Size())
	}
}

func TestDirSinkPublish(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDirSink(dir)
	if err != nil {
		t.Fatalf("NewDirSink() error = %v", err)
	}

	set := NewSet(1, time.Now(), []byte("<html>dashboard</html>"), []byte("dashboard"))
	if err := sink.Publish(t.Context(), set); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	html, err := os.ReadFile(filepath.Join(dir, HTMLFileName))
	if err != nil {
		t.Fatalf("reading %s: %v", HTMLFileName, err)
	}
	if string(html) != "<html>dashboard</html>" {
		t.Errorf("html content = %q", html)
	}

	text, err := os.ReadFile(filepath.Join(dir, TextFileName))
	if err != nil {
		t.Fatalf("reading %s: %v", TextFileName, err)
	}
	if string(text) != "dashboard" {
		t.Errorf("text content = %q", text)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("output dir has %d entries, want 2", len(entries))
	}
}

func TestDirSinkOverwrite(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDirSink(dir)
	if err != nil {
		t.Fatal(err)
	}

	first := NewSet(1, time.Now(), []byte("one"), []byte("one"))
	second := NewSet(2, time.Now(), []byte("two"), []byte("two"))
	if err := sink.Publish(t.Context(), first); err != nil {
		t.Fatal(err)
	}
	if err := sink.Publish(t.Context(), second); err != nil {
		t.Fatal(err)
	}

	html, _ := os.ReadFile(filepath.Join(dir, HTMLFileName))
	if string(html) != "two" {
		t.Errorf("html content = %q, want %q", html, "two")
	}
}

func TestNewDirSinkEmptyPath(t *testing.T) {
	if _, err := NewDirSink(""); err == nil {
		t.Error("NewDirSink(\"\") expected error, got nil")
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantOCI bool
		repo    string
		tag     string
		local   string
		wantErr bool
	}{
		{
			name:   "local directory",
			target: "/var/lib/portfolio/out",
			local:  "/var/lib/portfolio/out",
		},
		{
			name:    "oci with tag",
			target:  "oci://ghcr.io/acme/dashboard:v2",
			wantOCI: true,
			repo:    "acme/dashboard",
			tag:     "v2",
		},
		{
			name:    "oci without tag",
			target:  "oci://localhost:5000/dashboard",
			wantOCI: true,
			repo:    "dashboard",
		},
		{
			name:    "invalid oci reference",
			target:  "oci://UPPER CASE/bad ref",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.target)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTarget() error = %v", err)
			}
			if got.IsOCI != tt.wantOCI {
				t.Errorf("IsOCI = %v, want %v", got.IsOCI, tt.wantOCI)
			}
			if got.IsOCI {
				if got.Repository != tt.repo {
					t.Errorf("Repository = %q, want %q", got.Repository, tt.repo)
				}
				if got.Tag != tt.tag {
					t.Errorf("Tag = %q, want %q", got.Tag, tt.tag)
				}
			} else if got.LocalPath != tt.local {
				t.Errorf("LocalPath = %q, want %q", got.LocalPath, tt.local)
			}
		})
	}
}

func TestNewOCISinkValidation(t *testing.T) {
	if _, err := NewOCISink(OCISinkOptions{Registry: "::bad::", Repository: "x y"}); err == nil {
		t.Error("expected error for invalid reference, got nil")
	}

	sink, err := NewOCISink(OCISinkOptions{Registry: "localhost:5000", Repository: "dash"})
	if err != nil {
		t.Fatalf("NewOCISink() error = %v", err)
	}
	if sink.Name() != "oci:localhost:5000/dash:latest" {
		t.Errorf("Name() = %q", sink.Name())
	}
}
