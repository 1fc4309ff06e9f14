package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
directories:
  - /data/caselaw/federal
  - /data/caselaw/state
min_length: 200
jurisdictions:
  - Federal
  - US-CA
legal_domains:
  - contracts
min_precedent_strength: 0.4
max_concurrent_documents: 8
chunk_size: 50
timeout_per_document_seconds: 120
run_validation: true
validation_sample_size: 25
output_dir: /tmp/deonticrag-out
related_domains:
  securities:
    - corporate_governance
embedding_dimension: 256
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/data/caselaw/federal", "/data/caselaw/state"}, cfg.Bulk.Directories)
	assert.Equal(t, 200, cfg.Bulk.MinLength)
	assert.Equal(t, []string{"Federal", "US-CA"}, cfg.Bulk.Jurisdictions)
	assert.Equal(t, 8, cfg.Bulk.MaxConcurrentDocuments)
	assert.Equal(t, 120*time.Second, cfg.Bulk.TimeoutPerDocument)
	assert.True(t, cfg.Bulk.RunValidation)
	assert.Equal(t, 25, cfg.Bulk.ValidationSampleSize)
	assert.Equal(t, []string{"corporate_governance"}, cfg.Bulk.RelatedDomains["securities"])
	assert.Equal(t, 256, cfg.EmbeddingDimension)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}
