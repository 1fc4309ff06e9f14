package bulk

import (
	"context"
	"sync"
	"time"

	"github.com/endomorphosis/deonticrag/checker"
	"github.com/endomorphosis/deonticrag/pkg/pool"
	"github.com/endomorphosis/deonticrag/ragstore"
)

// ValidationFinding is one cross-corpus conflict surfaced by the
// Validation phase: the sampled document re-checked against the
// now-fully-populated store.
type ValidationFinding struct {
	DocumentID        string
	Kind              ragstore.ConflictKind
	Severity          ragstore.Severity
	PrecedentCitation string
}

// ValidationReport is the optional output of sampling up to
// ValidationSampleSize documents and re-running the consistency check
// over each, once the whole corpus has been unified.
type ValidationReport struct {
	SampledDocuments int
	Findings         []ValidationFinding
}

// runValidation is non-fatal end to end: a failure evaluating one
// sampled document is skipped, not escalated, and the report is
// returned with whatever findings were collected from the rest. Each
// sampled document only reads the store, so the re-checks fan out
// behind a Limiter instead of running one at a time; results are
// written back into a pre-sized slice so the report stays ordered by
// sample position regardless of goroutine completion order.
func (p *Processor) runValidation(ctx context.Context, docs []Document, cfg Config) ValidationReport {
	sample := docs
	if len(sample) > cfg.ValidationSampleSize {
		sample = sample[:cfg.ValidationSampleSize]
	}

	c := checker.New(p.store, checker.WithAnalyzer(p.analyzer), checker.WithLogger(p.logger))
	perDoc := make([][]ValidationFinding, len(sample))

	limiter := pool.NewLimiter(cfg.MaxConcurrentDocuments)
	var wg sync.WaitGroup
	for i, doc := range sample {
		limiter.Acquire()
		wg.Add(1)
		go func(i int, doc Document) {
			defer wg.Done()
			defer limiter.Release()
			perDoc[i] = checkOneForValidation(ctx, c, doc)
		}(i, doc)
	}
	wg.Wait()

	report := ValidationReport{SampledDocuments: len(sample)}
	for _, findings := range perDoc {
		report.Findings = append(report.Findings, findings...)
	}
	return report
}

func checkOneForValidation(ctx context.Context, c *checker.Checker, doc Document) []ValidationFinding {
	temporalContext := doc.Date
	if temporalContext.IsZero() {
		temporalContext = time.Now()
	}
	analysis := c.CheckDocument(ctx, doc.Text, doc.ID, temporalContext, doc.Jurisdiction, doc.LegalDomain)

	findings := make([]ValidationFinding, 0, len(analysis.Consistency.Conflicts)+len(analysis.Consistency.TemporalConflicts))
	for _, conflict := range analysis.Consistency.Conflicts {
		findings = append(findings, ValidationFinding{
			DocumentID:        doc.ID,
			Kind:              conflict.Kind,
			Severity:          conflict.Severity,
			PrecedentCitation: conflict.Theorem.SourceCase,
		})
	}
	for _, conflict := range analysis.Consistency.TemporalConflicts {
		findings = append(findings, ValidationFinding{
			DocumentID:        doc.ID,
			Kind:              conflict.Kind,
			Severity:          conflict.Severity,
			PrecedentCitation: conflict.Theorem.SourceCase,
		})
	}
	return findings
}
