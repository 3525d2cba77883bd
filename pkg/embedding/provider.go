package embedding

import (
	"context"
	"fmt"
)

// Provider generates embedding vectors for text.
type Provider interface {
	// Embed converts a single text into an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts texts into vectors, preserving input order.
	// A single failed item fails the whole batch; callers needing partial
	// results must batch defensively upstream.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ProviderError is a transport-level failure from an embedding backend.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s embedding error: status %d, body: %s", e.Provider, e.Status, e.Body)
}

// Retryable reports whether the failure is transient. Client errors other
// than rate limiting are not worth retrying.
func (e *ProviderError) Retryable() bool {
	if e.Status == 429 {
		return true
	}
	return e.Status < 400 || e.Status >= 500
}

// UnavailableError is returned once the retry budget for a provider call
// is exhausted.
type UnavailableError struct {
	Attempts int
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("embedding provider unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
