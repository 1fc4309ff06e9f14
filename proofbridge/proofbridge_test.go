package proofbridge

import (
	"context"
	"testing"

	"github.com/endomorphosis/deonticrag/deontic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProveReportsUnsupported(t *testing.T) {
	m := NewMock()
	f := deontic.MakeObligation("file_annual_report")

	result, err := m.Prove(context.Background(), f, "z3")
	require.NoError(t, err)
	assert.Equal(t, Unsupported, result.Status)
	assert.Contains(t, result.Output, "z3")
}

func TestMockProveRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMock()
	f := deontic.MakeObligation("file_annual_report")

	result, err := m.Prove(ctx, f, "z3")
	require.NoError(t, err)
	assert.Equal(t, Timeout, result.Status)
}
