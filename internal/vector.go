package internal

import "context"

type Embedding struct {
	Vector    []float32
	Dimension int
	Model     string
}

func NewEmbedding(vec []float32, model string) Embedding {
	return Embedding{
		Vector:    vec,
		Dimension: len(vec),
		Model:     model,
	}
}

// Neighbor is one nearest-neighbor hit. Distance is angular distance in
// [0, 2]; lower is closer.
type Neighbor struct {
	RecordID string
	Distance float32
}

// VectorIndex is the persistent nearest-neighbor capability consumed by the
// vector store. Implementations key vectors by record id and support
// load/save to the location they were created with.
type VectorIndex interface {
	Add(ctx context.Context, recordID string, emb Embedding) error
	Search(ctx context.Context, query Embedding, k int) ([]Neighbor, error)
	Build(ctx context.Context, numTrees int) error
	Save(ctx context.Context) error
	Load(ctx context.Context) error
	Len() int
}
