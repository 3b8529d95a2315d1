package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Task types understood by providers that distinguish documents from queries.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Dimensions matches the chunks.embedding_value column.
const Dimensions = 768

// EmbeddingProvider turns a batch of texts into vectors with a single upstream call.
// The result has one vector per input, in input order.
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error)
	Name() string
}

var defaultHTTPClient = &http.Client{Timeout: 60 * time.Second}

// CheckCount guards against providers that silently drop inputs.
func CheckCount(provider string, want int, vectors [][]float32) error {
	if len(vectors) != want {
		return fmt.Errorf("%s returned %d embeddings for %d inputs", provider, len(vectors), want)
	}
	return nil
}

// NormalizeAll normalizes every vector in place and returns the slice.
func NormalizeAll(vectors [][]float32) [][]float32 {
	for i, v := range vectors {
		vectors[i] = normalizeVector(v)
	}
	return vectors
}
