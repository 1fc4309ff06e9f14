package embedprovider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicEmbedIsDimensionAndRepeatable(t *testing.T) {
	p := NewDeterministic(16)
	vecs, err := p.Embed(context.Background(), []string{"shall provide notice", "shall provide notice"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Len(t, vecs[0], 16)
	assert.Equal(t, vecs[0], vecs[1], "same text must embed identically")
}

func TestDeterministicEmbedDiffersOnText(t *testing.T) {
	p := NewDeterministic(16)
	vecs, err := p.Embed(context.Background(), []string{"shall provide notice", "may terminate early"})
	require.NoError(t, err)
	assert.NotEqual(t, vecs[0], vecs[1])
}

func TestDeterministicEmbedRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewDeterministic(8)
	_, err := p.Embed(ctx, []string{"x"})
	assert.Error(t, err)
}

func TestCosineSimilarityIdentical(t *testing.T) {
	p := NewDeterministic(8)
	vecs, _ := p.Embed(context.Background(), []string{"same text"})
	sim := CosineSimilarity(vecs[0], vecs[0])
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2}))
}

func TestCosineSimilarityEmptyVectors(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
}
