package internal

import "context"

// Embedder turns text into a fixed-length vector. Determinism for identical
// input is model-dependent, but the dimension is fixed for the lifetime of
// the embedder.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	Close() error
}

// Provider is the language-model capability used for report generation.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	GenerateObject(ctx context.Context, prompt string, target any) error
}

// ProgressReport is the structured output of report generation.
type ProgressReport struct {
	Title      string   `json:"title"`
	Overview   string   `json:"overview"`
	Highlights []string `json:"highlights"`
	Tags       []string `json:"tags"`
}
