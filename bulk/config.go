// Package bulk implements the caselaw ingestion pipeline: discovery,
// filtering, preprocessing/deduplication, extraction, unification into
// a RAG Store, optional validation, and export — run as a bounded,
// concurrent, cancellable, backpressured pipeline over a directory
// set.
package bulk

import "time"

// Config controls one Processor run. Zero-value fields fall back to
// the defaults applied by withDefaults.
type Config struct {
	Directories []string

	MinLength            int
	DateFrom             *time.Time
	DateTo               *time.Time
	Jurisdictions        []string
	LegalDomains         []string
	MinPrecedentStrength float64
	DeduplicateContent   bool

	MaxConcurrentDocuments int
	ChunkSize              int
	TimeoutPerDocument     time.Duration

	RunValidation        bool
	ValidationSampleSize int

	OutputDir      string
	RelatedDomains map[string][]string
}

const (
	defaultMaxConcurrentDocuments = 5
	defaultChunkSize              = 100
	defaultTimeoutPerDocument     = 300 * time.Second
	defaultValidationSampleSize   = 100
)

func (c Config) withDefaults() Config {
	if c.MaxConcurrentDocuments <= 0 {
		c.MaxConcurrentDocuments = defaultMaxConcurrentDocuments
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.TimeoutPerDocument <= 0 {
		c.TimeoutPerDocument = defaultTimeoutPerDocument
	}
	if c.ValidationSampleSize <= 0 {
		c.ValidationSampleSize = defaultValidationSampleSize
	}
	return c
}
