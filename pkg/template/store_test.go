package template

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name+Ext)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
	return path
}

func TestStoreLoadAndCache(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "home", "@heading{1}{Original}")

	store := NewStore(dir)

	tmpl, err := store.Load("home")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if tmpl.Name != "home" || len(tmpl.Nodes) != 1 {
		t.Fatalf("unexpected template: %+v", tmpl)
	}

	// cached copy survives a file change until invalidated
	if err := os.WriteFile(path, []byte("@heading{1}{Modified}"), 0o600); err != nil {
		t.Fatal(err)
	}

	cached, err := store.Load("home")
	if err != nil {
		t.Fatal(err)
	}
	if cached.Content != tmpl.Content {
		t.Error("cache should return the original parse")
	}

	store.Invalidate("home")
	fresh, err := store.Load("home")
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Content == tmpl.Content {
		t.Error("invalidated template should be re-read from disk")
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Load("absent"); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestStoreWatchInvalidates(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "home", "@heading{1}{One}")

	store := NewStore(dir)
	if _, err := store.Load("home"); err != nil {
		t.Fatal(err)
	}

	if err := store.Watch(t.Context()); err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}

	writeTemplate(t, dir, "home", "@heading{1}{Two}")

	// the watcher delivers asynchronously; poll for the invalidation
	deadline := time.After(3 * time.Second)
	for {
		tmpl, err := store.Load("home")
		if err == nil && tmpl.Content == "@heading{1}{Two}" {
			return
		}
		select {
		case <-deadline:
			t.Fatal("template was not invalidated after file change")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
