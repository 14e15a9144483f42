package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScopePaths(t *testing.T) {
	scope := Scope{Type: ScopeProject, Path: "/work/app", DataPath: "/work/app/.devlog"}

	if got := scope.VectorPath(); got != filepath.Join("/work/app/.devlog", "vectors") {
		t.Errorf("VectorPath() = %q", got)
	}
	if got := scope.ConfigPath(); got != filepath.Join("/work/app/.devlog", "config.yaml") {
		t.Errorf("ConfigPath() = %q", got)
	}
}

func TestFindProjectScopeWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".devlog"), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "src", "internal", "deep")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	r := NewScopeResolver()
	scope, ok := r.findProjectScope(nested)
	if !ok {
		t.Fatal("expected project scope to be found from nested dir")
	}
	if scope.Type != ScopeProject {
		t.Errorf("scope type = %q", scope.Type)
	}
	if scope.Path != root {
		t.Errorf("scope path = %q, want %q", scope.Path, root)
	}
	if scope.DataPath != filepath.Join(root, ".devlog") {
		t.Errorf("data path = %q", scope.DataPath)
	}
}

func TestFindProjectScopeMiss(t *testing.T) {
	r := NewScopeResolver()
	if _, ok := r.findProjectScope(t.TempDir()); ok {
		t.Error("found a project scope where none exists")
	}
}

func TestFindProjectScopeIgnoresFile(t *testing.T) {
	dir := t.TempDir()
	// A plain file named .devlog is not a data directory.
	if err := os.WriteFile(filepath.Join(dir, ".devlog"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewScopeResolver()
	if scope, ok := r.findProjectScope(dir); ok && scope.Path == dir {
		t.Error("file .devlog treated as project scope")
	}
}

func TestResolveExplicitGlobal(t *testing.T) {
	r := &ScopeResolver{homeDir: t.TempDir()}
	scope := r.Resolve("global")
	if scope.Type != ScopeGlobal {
		t.Errorf("scope type = %q", scope.Type)
	}
	if filepath.Base(scope.DataPath) != ".devlog" {
		t.Errorf("data path = %q", scope.DataPath)
	}
}
