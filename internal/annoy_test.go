package internal

import (
	"context"
	"testing"
)

func TestAnnoyIndexAddAndSearch(t *testing.T) {
	idx, err := NewAnnoyIndex(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	ctx := context.Background()

	if err := idx.Add(ctx, "rec-1", Embedding{Vector: []float32{1.0, 0.0, 0.0}}); err != nil {
		t.Fatalf("add rec-1: %v", err)
	}
	if err := idx.Add(ctx, "rec-2", Embedding{Vector: []float32{0.0, 1.0, 0.0}}); err != nil {
		t.Fatalf("add rec-2: %v", err)
	}

	if err := idx.Build(ctx, 2); err != nil {
		t.Fatalf("build: %v", err)
	}

	results, err := idx.Search(ctx, Embedding{Vector: []float32{1.0, 0.1, 0.0}}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least 1 result")
	}
	if results[0].RecordID != "rec-1" {
		t.Errorf("expected closest match to be 'rec-1', got %q", results[0].RecordID)
	}
	if len(results) == 2 && results[0].Distance > results[1].Distance {
		t.Errorf("results not ordered by distance: %v", results)
	}
}

func TestAnnoyIndexDimensionMismatch(t *testing.T) {
	idx, err := NewAnnoyIndex(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	ctx := context.Background()

	if err := idx.Add(ctx, "bad", Embedding{Vector: []float32{1.0, 0.0}}); err == nil {
		t.Error("expected dimension mismatch error on add")
	}

	if err := idx.Add(ctx, "ok", Embedding{Vector: []float32{1.0, 0.0, 0.0}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := idx.Build(ctx, 1); err != nil {
		t.Fatalf("build: %v", err)
	}

	if _, err := idx.Search(ctx, Embedding{Vector: []float32{1.0, 0.0}}, 1); err == nil {
		t.Error("expected dimension mismatch error on search")
	}
}

func TestAnnoyIndexSearchBeforeBuild(t *testing.T) {
	idx, err := NewAnnoyIndex(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	ctx := context.Background()
	if err := idx.Add(ctx, "rec", Embedding{Vector: []float32{1.0, 0.0, 0.0}}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := idx.Search(ctx, Embedding{Vector: []float32{1.0, 0.0, 0.0}}, 1); err == nil {
		t.Error("expected error when searching before build")
	}
}

func TestAnnoyIndexEmptySearch(t *testing.T) {
	idx, err := NewAnnoyIndex(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	results, err := idx.Search(context.Background(), Embedding{Vector: []float32{1.0, 0.0, 0.0}}, 5)
	if err != nil {
		t.Fatalf("search on empty index: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestAnnoyIndexSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	idx1, err := NewAnnoyIndex(tmpDir, 3)
	if err != nil {
		t.Fatalf("new index 1: %v", err)
	}
	if err := idx1.Add(ctx, "persist-me", Embedding{Vector: []float32{0.5, 0.5, 0.0}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := idx1.Build(ctx, 2); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := idx1.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	idx2, err := NewAnnoyIndex(tmpDir, 3)
	if err != nil {
		t.Fatalf("new index 2: %v", err)
	}
	if err := idx2.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if idx2.Len() != 1 {
		t.Fatalf("expected 1 item after load, got %d", idx2.Len())
	}

	results, err := idx2.Search(ctx, Embedding{Vector: []float32{0.5, 0.5, 0.0}}, 1)
	if err != nil {
		t.Fatalf("search after load: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].RecordID != "persist-me" {
		t.Errorf("expected 'persist-me', got %q", results[0].RecordID)
	}
}

func TestAnnoyIndexAddAfterLoad(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	idx1, err := NewAnnoyIndex(tmpDir, 3)
	if err != nil {
		t.Fatalf("new index 1: %v", err)
	}
	if err := idx1.Add(ctx, "first", Embedding{Vector: []float32{1.0, 0.0, 0.0}}); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := idx1.Build(ctx, 2); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := idx1.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	idx2, err := NewAnnoyIndex(tmpDir, 3)
	if err != nil {
		t.Fatalf("new index 2: %v", err)
	}
	if err := idx2.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	// A loaded index is immediately searchable without an explicit Build.
	if _, err := idx2.Search(ctx, Embedding{Vector: []float32{1.0, 0.0, 0.0}}, 1); err != nil {
		t.Fatalf("search after load: %v", err)
	}

	if err := idx2.Add(ctx, "second", Embedding{Vector: []float32{0.0, 1.0, 0.0}}); err != nil {
		t.Fatalf("add second: %v", err)
	}
	if err := idx2.Build(ctx, 2); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	results, err := idx2.Search(ctx, Embedding{Vector: []float32{0.0, 1.0, 0.1}}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RecordID != "second" {
		t.Errorf("expected closest match to be 'second', got %q", results[0].RecordID)
	}
}

func TestAnnoyIndexLoadFromEmptyDir(t *testing.T) {
	idx, err := NewAnnoyIndex(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	if err := idx.Load(context.Background()); err != nil {
		t.Fatalf("load from empty dir: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("expected empty index, got %d items", idx.Len())
	}
}
