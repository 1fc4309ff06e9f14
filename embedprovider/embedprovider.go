// Package embedprovider defines the Embedding Provider collaborator:
// an external, possibly network- or GPU-bound service that maps text
// to dense vectors. The RAG Store treats every Provider as optional
// and falls back to lexical scoring the moment one is absent or
// fails, so this package also ships a deterministic, in-process
// fallback usable in tests and offline runs.
package embedprovider

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/endomorphosis/deonticrag/xerrors"
)

// Provider maps a batch of texts to equal-length, equal-dimension
// embeddings. Implementations MUST return one vector per input text,
// all of the same dimension, or an error — partial results are not
// permitted.
type Provider interface {
	// Embed returns one vector per element of texts, in order.
	// Implementations must honor ctx cancellation/timeout and return
	// xerrors.Timeout or xerrors.ExternalUnavailable on failure so
	// callers can distinguish recoverable outages from programmer
	// error.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension reports the fixed vector length this provider
	// produces.
	Dimension() int
}

// Deterministic is a Provider with no external dependency: it hashes
// each text into a fixed-dimension pseudo-embedding. It fails only
// when ctx is already done and never blocks, making it suitable as the
// RAG Store's fallback
// when no real provider is configured, and as a stand-in in tests
// that need embedding-backed code paths without a live service.
type Deterministic struct {
	dim int
}

// NewDeterministic constructs a Deterministic provider of the given
// dimension. A non-positive dim is replaced by 32.
func NewDeterministic(dim int) *Deterministic {
	if dim <= 0 {
		dim = 32
	}
	return &Deterministic{dim: dim}
}

func (d *Deterministic) Dimension() int { return d.dim }

// Embed hashes each text with SHA-256, expands the digest bytes
// cyclically to fill the configured dimension, and L2-normalizes the
// result so cosine similarity behaves sensibly downstream.
func (d *Deterministic) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, xerrors.Timeout
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = hashEmbed(text, d.dim)
	}
	return out, nil
}

func hashEmbed(text string, dim int) []float32 {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, dim)
	var normSq float64
	for i := 0; i < dim; i++ {
		b := sum[i%len(sum)]
		// Spread the byte across [-1, 1] and perturb per-index so
		// repeated bytes (dim > 32) don't collapse to a repeating
		// vector.
		v := (float64(b)/127.5 - 1.0) * math.Cos(float64(i))
		vec[i] = float32(v)
		normSq += v * v
	}
	norm := math.Sqrt(normSq)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

// CosineSimilarity returns the cosine similarity of a and b clamped to
// [0,1] (negative similarity is treated as 0, since this score feeds a
// non-negative weighted sum downstream). Returns 0 if the dimensions
// disagree or either vector is empty.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	return sim
}
