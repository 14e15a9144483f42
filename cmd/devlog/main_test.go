package main

import (
	"path/filepath"
	"testing"

	"github.com/devlog-sh/devlog/internal"
	"github.com/rs/zerolog"
)

func setupEngine(t *testing.T) (engineFactory, *internal.Engine, internal.Scope) {
	t.Helper()

	dir := t.TempDir()
	scope := internal.Scope{
		Type:     internal.ScopeProject,
		Path:     dir,
		DataPath: filepath.Join(dir, ".devlog"),
	}

	embedder := internal.NewHashingEmbedder(128)
	index, err := internal.NewAnnoyIndex(scope.VectorPath(), embedder.Dimension())
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	store, err := internal.OpenVectorStore(scope.VectorPath(), embedder, index, false)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	engine := internal.NewEngine(store, zerolog.Nop())

	factory := func(string) (*internal.Engine, internal.Scope, error) {
		return engine, scope, nil
	}
	return factory, engine, scope
}
