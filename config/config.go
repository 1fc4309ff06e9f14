// Package config loads a YAML file into the structures the bulk
// Processor and RAG Store need, so a deployment can describe a run
// declaratively instead of wiring Go structs by hand.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/endomorphosis/deonticrag/bulk"
)

// FileConfig mirrors the on-disk YAML shape. Every field is optional;
// zero values fall back to bulk.Config's own defaults.
type FileConfig struct {
	Directories            []string            `yaml:"directories"`
	MinLength              int                 `yaml:"min_length"`
	DateFrom               *time.Time          `yaml:"date_from"`
	DateTo                 *time.Time          `yaml:"date_to"`
	Jurisdictions          []string            `yaml:"jurisdictions"`
	LegalDomains           []string            `yaml:"legal_domains"`
	MinPrecedentStrength   float64             `yaml:"min_precedent_strength"`
	DeduplicateContent     bool                `yaml:"deduplicate_content"`
	MaxConcurrentDocuments int                 `yaml:"max_concurrent_documents"`
	ChunkSize              int                 `yaml:"chunk_size"`
	TimeoutPerDocumentSecs int                 `yaml:"timeout_per_document_seconds"`
	RunValidation          bool                `yaml:"run_validation"`
	ValidationSampleSize   int                 `yaml:"validation_sample_size"`
	OutputDir              string              `yaml:"output_dir"`
	RelatedDomains         map[string][]string `yaml:"related_domains"`
	EmbeddingDimension     int                 `yaml:"embedding_dimension"`
}

// AppConfig is the fully resolved configuration a CLI entry point
// needs: bulk.Config for the Processor plus the store-level embedding
// dimension, which bulk.Config has no business knowing about.
type AppConfig struct {
	Bulk               bulk.Config
	EmbeddingDimension int
}

// Load reads and parses a YAML file at path into an AppConfig.
func Load(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return AppConfig{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return fc.resolve(), nil
}

func (fc FileConfig) resolve() AppConfig {
	cfg := bulk.Config{
		Directories:            fc.Directories,
		MinLength:              fc.MinLength,
		DateFrom:               fc.DateFrom,
		DateTo:                 fc.DateTo,
		Jurisdictions:          fc.Jurisdictions,
		LegalDomains:           fc.LegalDomains,
		MinPrecedentStrength:   fc.MinPrecedentStrength,
		DeduplicateContent:     fc.DeduplicateContent,
		MaxConcurrentDocuments: fc.MaxConcurrentDocuments,
		ChunkSize:              fc.ChunkSize,
		RunValidation:          fc.RunValidation,
		ValidationSampleSize:   fc.ValidationSampleSize,
		OutputDir:              fc.OutputDir,
		RelatedDomains:         fc.RelatedDomains,
	}
	if fc.TimeoutPerDocumentSecs > 0 {
		cfg.TimeoutPerDocument = time.Duration(fc.TimeoutPerDocumentSecs) * time.Second
	}
	return AppConfig{Bulk: cfg, EmbeddingDimension: fc.EmbeddingDimension}
}
