package bulk

import (
	"context"
	"testing"
	"time"

	"github.com/endomorphosis/deonticrag/llmanalyzer"
	"github.com/endomorphosis/deonticrag/ragstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowAnalyzer struct{}

func (slowAnalyzer) AnalyzeDocument(ctx context.Context, text string) (llmanalyzer.AnalysisResult, error) {
	<-ctx.Done()
	return llmanalyzer.AnalysisResult{}, ctx.Err()
}

func (slowAnalyzer) ExtractDeonticPropositions(ctx context.Context, text string) ([]llmanalyzer.Proposition, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestProcessorRunExtractsAndUnifies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2020_federal_smith.txt", "The contractor must deliver the goods within 30 days.")
	writeFile(t, dir, "2021_federal_jones.txt", "The employee must not disclose trade secrets.")

	store := ragstore.New(ragstore.Config{})
	p := NewProcessor(store)

	result, err := p.Run(context.Background(), Config{Directories: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Statistics.TotalDocuments)
	assert.Equal(t, 2, result.Statistics.ProcessedDocuments)
	assert.GreaterOrEqual(t, result.Statistics.ExtractedTheorems, 2)
	assert.Equal(t, 1.0, result.Statistics.SuccessRate)
	assert.Contains(t, result.Statistics.JurisdictionsProcessed, "Federal")
	assert.Equal(t, result.Statistics.ExtractedTheorems, store.GetStatistics().TotalTheorems)
	assert.NotEmpty(t, result.RunID)
}

func TestProcessorRunCountsExtractionTimeoutsAsErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "case.txt", "The contractor must deliver the goods.")

	store := ragstore.New(ragstore.Config{})
	p := NewProcessor(store, WithAnalyzer(slowAnalyzer{}))

	result, err := p.Run(context.Background(), Config{
		Directories:        []string{dir},
		TimeoutPerDocument: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Statistics.ProcessedDocuments)
	assert.Equal(t, 1, result.Statistics.ProcessingErrors)
}

func TestProcessorRunWithValidationSamplesDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "case.txt", "The contractor must deliver the goods within 30 days.")

	store := ragstore.New(ragstore.Config{})
	p := NewProcessor(store)

	result, err := p.Run(context.Background(), Config{
		Directories:   []string{dir},
		RunValidation: true,
	})
	require.NoError(t, err)
	require.NotNil(t, result.ValidationReport)
	assert.Equal(t, 1, result.ValidationReport.SampledDocuments)
}
