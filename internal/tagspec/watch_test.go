package tagspec

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLayout(t *testing.T, path, layout string) {
	t.Helper()
	set := Default()
	set.Layout = layout
	data, err := Marshal(set)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	writeLayout(t, path, "first")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func(c *Compiled) { applied <- c.Layout })
	}()

	// Give the watcher time to register before editing.
	time.Sleep(100 * time.Millisecond)

	// Broken edits are ignored, and other files in the directory too.
	if err := os.WriteFile(path, []byte("fields: nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeLayout(t, filepath.Join(dir, "other.yaml"), "other")
	writeLayout(t, path, "second")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-applied:
			if got == "other" {
				t.Fatal("change to another file was applied")
			}
			if got == "second" {
				cancel()
				if err := <-done; err != nil {
					t.Errorf("Watch returned %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), "/nonexistent/dir/layout.yaml", nil, func(*Compiled) {})
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
