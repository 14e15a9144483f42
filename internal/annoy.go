package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mariotoffia/goannoy/builder"
	"github.com/mariotoffia/goannoy/interfaces"
)

// IndexFilename holds the persisted vectors and the record id mapping.
// The Annoy forest itself is rebuilt from the vectors on load.
const IndexFilename = "index.json"

var _ VectorIndex = (*AnnoyIndex)(nil)

// AnnoyIndex is an angular-distance Annoy index keyed by record id. The raw
// vectors are the source of truth; the forest is derived from them on every
// Build and after every Load.
type AnnoyIndex struct {
	mu        sync.RWMutex
	idx       interfaces.AnnoyIndex[float32, uint32]
	dimension int
	recToItem map[string]uint32
	itemToRec map[uint32]string
	vectors   map[uint32][]float32
	nextItem  uint32
	basePath  string
	built     bool
}

type indexSnapshot struct {
	RecToItem map[string]uint32    `json:"record_to_item"`
	ItemToRec map[uint32]string    `json:"item_to_record"`
	Vectors   map[uint32][]float32 `json:"vectors"`
	NextItem  uint32               `json:"next_item"`
}

func newAngularIndex(dimension int) interfaces.AnnoyIndex[float32, uint32] {
	return builder.Index[float32, uint32]().
		AngularDistance(dimension).
		UseMultiWorkerPolicy().
		MmapIndexAllocator().
		Build()
}

func NewAnnoyIndex(basePath string, dimension int) (*AnnoyIndex, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	return &AnnoyIndex{
		idx:       newAngularIndex(dimension),
		dimension: dimension,
		recToItem: make(map[string]uint32),
		itemToRec: make(map[uint32]string),
		vectors:   make(map[uint32][]float32),
		basePath:  basePath,
	}, nil
}

func (a *AnnoyIndex) Add(ctx context.Context, recordID string, emb Embedding) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(emb.Vector) != a.dimension {
		return fmt.Errorf("dimension mismatch: expected %d, got %d", a.dimension, len(emb.Vector))
	}

	item, exists := a.recToItem[recordID]
	if !exists {
		item = a.nextItem
		a.nextItem++
		a.recToItem[recordID] = item
		a.itemToRec[item] = recordID
	}

	vec := make([]float32, len(emb.Vector))
	copy(vec, emb.Vector)
	a.vectors[item] = vec
	a.built = false

	return nil
}

func (a *AnnoyIndex) Search(ctx context.Context, query Embedding, k int) ([]Neighbor, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	numItems := len(a.recToItem)
	if numItems == 0 || k == 0 {
		return nil, nil
	}
	if !a.built {
		return nil, fmt.Errorf("index not built")
	}
	if len(query.Vector) != a.dimension {
		return nil, fmt.Errorf("dimension mismatch: expected %d, got %d", a.dimension, len(query.Vector))
	}
	if k > numItems {
		k = numItems
	}

	searchCtx := a.idx.CreateContext()
	items, distances := a.idx.GetNnsByVector(query.Vector, k, -1, searchCtx)

	neighbors := make([]Neighbor, 0, len(items))
	for i, item := range items {
		recordID, exists := a.itemToRec[item]
		if !exists {
			continue
		}

		var dist float32
		if i < len(distances) {
			dist = distances[i]
		}

		neighbors = append(neighbors, Neighbor{
			RecordID: recordID,
			Distance: dist,
		})
	}

	return neighbors, nil
}

// Build reconstructs the forest from the stored vectors. Annoy forests are
// immutable once built, so a fresh index is populated and built each time.
func (a *AnnoyIndex) Build(ctx context.Context, numTrees int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rebuildLocked(numTrees)
	return nil
}

func (a *AnnoyIndex) rebuildLocked(numTrees int) {
	idx := newAngularIndex(a.dimension)
	for item, vec := range a.vectors {
		idx.AddItem(item, vec)
	}
	idx.Build(numTrees, -1)

	a.idx = idx
	a.built = true
}

func (a *AnnoyIndex) Save(ctx context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snapshot := indexSnapshot{
		RecToItem: a.recToItem,
		ItemToRec: a.itemToRec,
		Vectors:   a.vectors,
		NextItem:  a.nextItem,
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	path := filepath.Join(a.basePath, IndexFilename)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace index: %w", err)
	}

	return nil
}

func (a *AnnoyIndex) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := filepath.Join(a.basePath, IndexFilename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}

	var snapshot indexSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("unmarshal index: %w", err)
	}

	a.recToItem = snapshot.RecToItem
	a.itemToRec = snapshot.ItemToRec
	a.vectors = snapshot.Vectors
	a.nextItem = snapshot.NextItem
	if a.recToItem == nil {
		a.recToItem = make(map[string]uint32)
	}
	if a.itemToRec == nil {
		a.itemToRec = make(map[uint32]string)
	}
	if a.vectors == nil {
		a.vectors = make(map[uint32][]float32)
	}

	if len(a.vectors) > 0 {
		a.rebuildLocked(DefaultNumTrees)
	}

	return nil
}

func (a *AnnoyIndex) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.recToItem)
}
