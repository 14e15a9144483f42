package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const (
	RecordsFilename = "records.json"

	// DefaultNumTrees is the Annoy forest size used on every rebuild.
	DefaultNumTrees = 10
)

// Filter maps a metadata key to the set of accepted values. A record matches
// when every key's predicate holds (AND across keys, OR within a set); an
// empty filter matches everything. A JSON-array metadata value matches when
// any of its elements is accepted, so list-valued fields like tags get
// match-any semantics.
type Filter map[string][]string

func (f Filter) Matches(metadata map[string]string) bool {
	for key, accepted := range f {
		if !valueMatches(metadata[key], accepted) {
			return false
		}
	}
	return true
}

func valueMatches(value string, accepted []string) bool {
	var elems []string
	if err := json.Unmarshal([]byte(value), &elems); err != nil {
		elems = []string{value}
	}
	for _, e := range elems {
		for _, a := range accepted {
			if e == a {
				return true
			}
		}
	}
	return false
}

// Hit is one query result: the stored text, its metadata and the angular
// distance to the query embedding (lower is closer).
type Hit struct {
	Text     string
	Metadata map[string]string
	Distance float32
}

type storedRecord struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// VectorStore wraps an embedder and a nearest-neighbor index into the
// upsert/query surface the engine consumes. Every upsert is flushed to disk
// before it returns, so a crash right after Upsert cannot lose the record.
type VectorStore struct {
	mu       sync.RWMutex
	embedder Embedder
	index    VectorIndex
	records  map[string]storedRecord
	basePath string
	numTrees int
}

// OpenVectorStore opens (or creates) the store persisted under basePath. A
// records file that exists but cannot be read or decoded is a
// StorageInitError: the caller must pass fresh=true to deliberately discard
// it and start over.
func OpenVectorStore(basePath string, embedder Embedder, index VectorIndex, fresh bool) (*VectorStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, &StorageInitError{Path: basePath, Err: err}
	}

	s := &VectorStore{
		embedder: embedder,
		index:    index,
		records:  make(map[string]storedRecord),
		basePath: basePath,
		numTrees: DefaultNumTrees,
	}

	if fresh {
		return s, nil
	}

	if err := s.loadRecords(); err != nil {
		return nil, &StorageInitError{Path: basePath, Err: err}
	}
	if err := index.Load(context.Background()); err != nil {
		return nil, &StorageInitError{Path: basePath, Err: err}
	}
	return s, nil
}

func (s *VectorStore) loadRecords() error {
	data, err := os.ReadFile(filepath.Join(s.basePath, RecordsFilename))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read records: %w", err)
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		return fmt.Errorf("decode records: %w", err)
	}
	return nil
}

// Upsert embeds text, adds it under a fresh internal record id and persists
// both the records file and the index before returning.
func (s *VectorStore) Upsert(ctx context.Context, text string, metadata map[string]string) (string, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", &EmbeddingError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recordID := uuid.NewString()
	if err := s.index.Add(ctx, recordID, NewEmbedding(vec, "")); err != nil {
		return "", fmt.Errorf("index record: %w", err)
	}
	// Rebuilding on every insert keeps the index searchable and lets the
	// durability guarantee hold; fine at this scale, revisit if stores grow
	// past tens of thousands of entries.
	if err := s.index.Build(ctx, s.numTrees); err != nil {
		return "", fmt.Errorf("build index: %w", err)
	}

	s.records[recordID] = storedRecord{Text: text, Metadata: metadata}

	if err := s.persistLocked(ctx); err != nil {
		delete(s.records, recordID)
		return "", err
	}
	return recordID, nil
}

func (s *VectorStore) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	path := filepath.Join(s.basePath, RecordsFilename)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit records: %w", err)
	}

	if err := s.index.Save(ctx); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

// Query embeds text and returns up to k records matching filter, closest
// first. An empty store yields an empty result, never an error.
func (s *VectorStore) Query(ctx context.Context, text string, filter Filter, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return nil, nil
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, &EmbeddingError{Err: err}
	}

	// The index has no native metadata predicate, so retrieve the full
	// neighbor ordering and filter it down. Exhaustive but exact.
	neighbors, err := s.index.Search(ctx, NewEmbedding(vec, ""), len(s.records))
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	hits := make([]Hit, 0, k)
	for _, n := range neighbors {
		rec, ok := s.records[n.RecordID]
		if !ok {
			continue
		}
		if !filter.Matches(rec.Metadata) {
			continue
		}
		hits = append(hits, Hit{Text: rec.Text, Metadata: rec.Metadata, Distance: n.Distance})
		if len(hits) == k {
			break
		}
	}
	return hits, nil
}

// Find returns every stored record matching filter, in no particular order.
// Pure metadata scan; the index is not consulted.
func (s *VectorStore) Find(filter Filter) []Hit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []Hit
	for _, rec := range s.records {
		if filter.Matches(rec.Metadata) {
			hits = append(hits, Hit{Text: rec.Text, Metadata: rec.Metadata})
		}
	}
	return hits
}

// Exists reports whether any stored record matches filter. Used by the
// engine for duplicate-id detection.
func (s *VectorStore) Exists(filter Filter) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if filter.Matches(rec.Metadata) {
			return true
		}
	}
	return false
}

func (s *VectorStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
