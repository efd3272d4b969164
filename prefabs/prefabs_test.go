package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSpecEmbedded(t *testing.T) {
	spec, err := LoadEntityBuildSpec("stiff_spring.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, err := DecodeComponentSpec[ConstraintComponentSpec](spec.Components["constraint"])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Type != "StiffSpring" {
		t.Fatalf("expected StiffSpring, got %q", c.Type)
	}
	if d, ok := c.Props["distance"].(int); !ok || d != 100 {
		t.Fatalf("expected distance 100, got %#v", c.Props["distance"])
	}
}

func TestDecodeComponentSpec(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want PhysicsBodyComponentSpec
	}{
		{"nil", nil, PhysicsBodyComponentSpec{}},
		{"map", map[string]any{"width": 10, "static": true}, PhysicsBodyComponentSpec{Width: 10, Static: true}},
		{"circle", map[string]any{"radius": 4.5, "mass": 2}, PhysicsBodyComponentSpec{Radius: 4.5, Mass: 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeComponentSpec[PhysicsBodyComponentSpec](tc.raw)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}

	if _, err := DecodeComponentSpec[PhysicsBodyComponentSpec](map[string]any{"width": "wide"}); err == nil {
		t.Fatalf("expected error for non-numeric width")
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	if _, ok := ModTime("crate.yaml"); ok {
		t.Fatalf("no disk copy yet")
	}
	if err := os.WriteFile(filepath.Join(dir, "crate.yaml"), []byte("name: heavy\ncomponents:\n  physics_body:\n    mass: 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := LoadEntityBuildSpec("prefabs/crate.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "heavy" {
		t.Fatalf("expected disk copy to win, got %q", spec.Name)
	}
	if _, ok := ModTime("crate.yaml"); !ok {
		t.Fatalf("expected mod time for disk copy")
	}
}

func TestWatcherReportsSpecChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "crate.yaml")
	if err := os.WriteFile(target, []byte("name: crate\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case name := <-w.Events:
			if name == target {
				return
			}
			if filepath.Ext(name) == ".txt" {
				t.Fatalf("non-spec file reported: %s", name)
			}
		case <-timeout:
			t.Fatalf("no event for %s", target)
		}
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatalf("events channel should be closed")
	}
}

func TestDebouncer(t *testing.T) {
	base := time.Unix(1000, 0)
	d := newDebouncer(100 * time.Millisecond)

	steps := []struct {
		name    string
		file    string
		at      time.Duration
		want    bool
		tracked int
	}{
		{name: "first_event", file: "a.yaml", at: 0, want: true, tracked: 1},
		{name: "burst_suppressed", file: "a.yaml", at: 50 * time.Millisecond, want: false, tracked: 1},
		{name: "other_file", file: "b.yaml", at: 60 * time.Millisecond, want: true, tracked: 2},
		{name: "window_elapsed", file: "a.yaml", at: 100 * time.Millisecond, want: true, tracked: 2},
		{name: "stale_entries_pruned", file: "c.yaml", at: time.Second, want: true, tracked: 1},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			if got := d.allow(step.file, base.Add(step.at)); got != step.want {
				t.Fatalf("expected allow=%v, got %v", step.want, got)
			}
			if len(d.last) != step.tracked {
				t.Fatalf("expected %d tracked files, got %d", step.tracked, len(d.last))
			}
		})
	}
}
