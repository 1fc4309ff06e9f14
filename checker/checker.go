// Package checker implements the Document Consistency Checker: the
// "legal debugger" that extracts deontic formulas from a document,
// evaluates them against a RAG Store, and renders a compiler-style
// diagnostic report.
package checker

import (
	"context"
	"log/slog"
	"time"

	"github.com/endomorphosis/deonticrag/deontic"
	"github.com/endomorphosis/deonticrag/llmanalyzer"
	"github.com/endomorphosis/deonticrag/ragstore"
)

// DocumentAnalysis is the result of running CheckDocument once.
type DocumentAnalysis struct {
	DocumentID        string
	ExtractedFormulas []deontic.Formula
	Consistency       ragstore.ConsistencyResult
	IssuesFound       int
	ConfidenceScore   float64
	ProcessingTime    time.Duration
	CorpusWasEmpty    bool
}

// Checker wires an Analyzer (LLM-backed or the deterministic pattern
// fallback) to a RAG Store to produce document analyses and debug
// reports.
type Checker struct {
	store    *ragstore.Store
	analyzer llmanalyzer.Analyzer
	logger   *slog.Logger
}

// Option configures a Checker at construction time.
type Option func(*Checker)

// WithAnalyzer overrides the default deterministic pattern extractor
// with a richer Analyzer (e.g. an LLM-backed implementation).
func WithAnalyzer(a llmanalyzer.Analyzer) Option {
	return func(c *Checker) { c.analyzer = a }
}

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// New constructs a Checker backed by store. Without WithAnalyzer, the
// deterministic PatternExtractor is used.
func New(store *ragstore.Store, opts ...Option) *Checker {
	c := &Checker{
		store:    store,
		analyzer: llmanalyzer.NewPatternExtractor(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckDocument extracts deontic formulas from documentText, checks
// them against the store under the supplied filters, and returns a
// single deterministic DocumentAnalysis. Extraction failures are
// logged and degrade to an empty formula set rather than aborting.
func (c *Checker) CheckDocument(ctx context.Context, documentText, documentID string, temporalContext time.Time,
	jurisdiction, legalDomain string) DocumentAnalysis {

	started := time.Now()

	props, err := c.analyzer.ExtractDeonticPropositions(ctx, documentText)
	if err != nil {
		c.logger.Warn("formula extraction failed for document", slog.String("document_id", documentID), slog.Any("err", err))
		props = nil
	}

	formulas := make([]deontic.Formula, 0, len(props))
	for _, p := range props {
		agent := deontic.NewAgent(p.AgentID, p.AgentID, p.AgentKind)
		formulas = append(formulas, deontic.New(p.Operator, p.Text,
			deontic.WithAgent(agent),
			deontic.WithConfidence(p.Confidence),
			deontic.WithSourceText(p.SourceText),
		))
	}

	corpusEmpty := c.store.GetStatistics().TotalTheorems == 0
	consistency := c.store.CheckDocumentConsistency(formulas, temporalContext, jurisdiction, legalDomain)

	criticalCount, highCount := countSeverities(consistency)
	confidence := scoreConfidence(formulas, criticalCount, highCount)

	return DocumentAnalysis{
		DocumentID:        documentID,
		ExtractedFormulas: formulas,
		Consistency:       consistency,
		IssuesFound:       len(consistency.Conflicts) + len(consistency.TemporalConflicts),
		ConfidenceScore:   confidence,
		ProcessingTime:    time.Since(started),
		CorpusWasEmpty:    corpusEmpty,
	}
}

func countSeverities(result ragstore.ConsistencyResult) (critical, high int) {
	for _, c := range result.Conflicts {
		switch c.Severity {
		case ragstore.SeverityCritical:
			critical++
		case ragstore.SeverityHigh:
			high++
		}
	}
	return critical, high
}

func scoreConfidence(formulas []deontic.Formula, criticalCount, highCount int) float64 {
	if len(formulas) == 0 {
		return 1.0
	}
	var sum float64
	for _, f := range formulas {
		sum += f.Confidence
	}
	mean := sum / float64(len(formulas))
	score := mean * (1.0 - 0.1*float64(criticalCount) - 0.05*float64(highCount))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
