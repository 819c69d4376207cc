package categorize

import "context"

// Embedder produces unit-length text embeddings. Implementations must be
// safe for concurrent use: one embedder is shared read-only across
// pipeline runs.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}
