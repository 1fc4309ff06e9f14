package bulk

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/endomorphosis/deonticrag/deontic"
	"github.com/endomorphosis/deonticrag/llmanalyzer"
	"github.com/endomorphosis/deonticrag/pkg/pool"
	"github.com/endomorphosis/deonticrag/ragstore"
)

// Statistics is the processing-run contract persisted to
// processing_stats.json by the export phase.
type Statistics struct {
	TotalDocuments         int
	ProcessedDocuments     int
	ExtractedTheorems      int
	ProcessingErrors       int
	SuccessRate            float64
	ProcessingTime         time.Duration
	JurisdictionsProcessed []string
	LegalDomainsProcessed  []string
	TemporalRangeStart     *time.Time
	TemporalRangeEnd       *time.Time
}

// Result is the outcome of one Processor.Run.
type Result struct {
	RunID            string
	Statistics       Statistics
	ValidationReport *ValidationReport
}

// Processor discovers, filters, preprocesses, extracts, and unifies a
// directory set into a RAG Store, with a bounded worker pool and
// per-document timeouts.
type Processor struct {
	store    *ragstore.Store
	analyzer llmanalyzer.Analyzer
	logger   *slog.Logger
}

// Option configures a Processor at construction time.
type Option func(*Processor)

// WithAnalyzer overrides the default deterministic pattern extractor.
func WithAnalyzer(a llmanalyzer.Analyzer) Option {
	return func(p *Processor) { p.analyzer = a }
}

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// NewProcessor constructs a Processor backed by store.
func NewProcessor(store *ragstore.Store, opts ...Option) *Processor {
	p := &Processor{
		store:    store,
		analyzer: llmanalyzer.NewPatternExtractor(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type runAccumulator struct {
	mu            sync.Mutex
	jurisdictions map[string]bool
	domains       map[string]bool
	temporalStart *time.Time
	temporalEnd   *time.Time
	stats         Statistics
}

// Run executes the full pipeline: Discovery, Filtering, Preprocessing,
// Extraction, Unification, and (if enabled) Validation. A per-document
// failure is logged and counted in statistics; it never aborts the
// run. The returned error is the one DiscoverDocuments returns; a
// configured directory that cannot be walked is logged and skipped
// there, not reported as an error.
func (p *Processor) Run(ctx context.Context, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	started := time.Now()

	docs, err := DiscoverDocuments(cfg, p.logger)
	if err != nil {
		return Result{}, err
	}

	acc := &runAccumulator{
		jurisdictions: map[string]bool{},
		domains:       map[string]bool{},
		stats:         Statistics{TotalDocuments: len(docs)},
	}

	docs = FilterDocuments(docs, cfg)
	docs = PreprocessDocuments(docs, cfg)

	p.ingest(ctx, docs, cfg, acc)

	acc.stats.ProcessingTime = time.Since(started)
	if acc.stats.TotalDocuments > 0 {
		acc.stats.SuccessRate = float64(acc.stats.ProcessedDocuments) / float64(acc.stats.TotalDocuments)
	}
	acc.stats.JurisdictionsProcessed = sortedKeys(acc.jurisdictions)
	acc.stats.LegalDomainsProcessed = sortedKeys(acc.domains)
	acc.stats.TemporalRangeStart = acc.temporalStart
	acc.stats.TemporalRangeEnd = acc.temporalEnd

	result := Result{RunID: uuid.NewString(), Statistics: acc.stats}
	if cfg.RunValidation {
		report := p.runValidation(ctx, docs, cfg)
		result.ValidationReport = &report
	}

	if cfg.OutputDir != "" {
		if err := p.export(cfg, result); err != nil {
			p.logger.Warn("bulk: export failed", slog.Any("err", err))
		}
	}
	return result, nil
}

// export writes the run's statistics, validation report, and a
// snapshot of the store's current contents to cfg.OutputDir. Export
// failures are logged, not propagated — a run that ingested
// successfully should not be reported as failed just because its
// artifacts couldn't be written.
func (p *Processor) export(cfg Config, result Result) error {
	if err := Export(cfg, result); err != nil {
		return err
	}
	theorems := p.store.AllTheorems()
	formulas := make([]deontic.Formula, len(theorems))
	for i, th := range theorems {
		formulas[i] = th.Formula
	}
	ruleSet := deontic.NewRuleSet("bulk-ingest", deontic.WithVersion(result.RunID), deontic.WithFormulas(formulas...))
	return ExportStore(cfg, theorems, ruleSet.ID())
}

// ingest runs the bounded producer/consumer stage: documents are
// submitted to a pool of at most max_concurrent_documents workers, and
// Submit blocks once every worker is busy, so the dispatch loop stalls
// until a worker frees up. There is no separate queue: cfg.ChunkSize is
// not consulted. The pool
// backend is ants, the same library the RAG Store's retrieval fan-out
// would reach for if it ever needed one; OfGoroutines is the fallback
// if the pool fails to construct.
func (p *Processor) ingest(ctx context.Context, docs []Document, cfg Config, acc *runAccumulator) {
	workers := buildWorkerPool(cfg, p.logger)
	if closer, ok := workers.(interface{ Release() }); ok {
		defer closer.Release()
	}

	var wg sync.WaitGroup
	for _, doc := range docs {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		default:
		}

		doc := doc
		wg.Add(1)
		err := workers.Submit(func() {
			defer wg.Done()
			p.processOne(ctx, doc, cfg, acc)
		})
		if err != nil {
			wg.Done()
			p.logger.Warn("bulk: dispatch failed", slog.String("path", doc.Path), slog.Any("err", err))
			acc.mu.Lock()
			acc.stats.ProcessingErrors++
			acc.mu.Unlock()
		}
	}
	wg.Wait()
}

type releasingPool struct {
	pool.Pool
	release func()
}

func (r releasingPool) Release() { r.release() }

func buildWorkerPool(cfg Config, logger *slog.Logger) pool.Pool {
	antsPool, err := ants.NewPool(cfg.MaxConcurrentDocuments)
	if err != nil {
		logger.Warn("bulk: ants pool unavailable, falling back to unbounded dispatch", slog.Any("err", err))
		return pool.OfGoroutines()
	}
	return releasingPool{Pool: pool.OfAnts(antsPool), release: antsPool.Release}
}

// processOne extracts, enriches, and inserts the theorems for one
// document under its own timeout. Extraction runs against the
// document's own text only — it never touches the store's mutable
// state, which is only entered at AddTheorem.
func (p *Processor) processOne(ctx context.Context, doc Document, cfg Config, acc *runAccumulator) {
	docCtx, cancel := context.WithTimeout(ctx, cfg.TimeoutPerDocument)
	defer cancel()

	props, err := p.analyzer.ExtractDeonticPropositions(docCtx, doc.Text)
	if err == nil {
		err = docCtx.Err()
	}
	if err != nil {
		p.logger.Warn("bulk: extraction failed", slog.String("path", doc.Path), slog.Any("err", err))
		acc.mu.Lock()
		acc.stats.ProcessingErrors++
		acc.mu.Unlock()
		return
	}

	scopeStart := doc.Date
	if scopeStart.IsZero() {
		scopeStart = time.Now()
	}
	scope := deontic.TemporalScope{Start: scopeStart}

	extracted := 0
	errored := 0
	for _, prop := range props {
		formula := deontic.New(prop.Operator, prop.Text,
			deontic.WithAgent(deontic.NewAgent(prop.AgentID, prop.AgentID, prop.AgentKind)),
			deontic.WithConfidence(prop.Confidence),
			deontic.WithSourceText(prop.SourceText),
		)
		if _, err := p.store.AddTheorem(docCtx, formula, scope, doc.Jurisdiction, doc.LegalDomain, doc.SourceCase, doc.PrecedentStrength); err != nil {
			p.logger.Warn("bulk: theorem insertion failed", slog.String("path", doc.Path), slog.Any("err", err))
			errored++
			continue
		}
		extracted++
	}

	acc.mu.Lock()
	acc.stats.ProcessedDocuments++
	acc.stats.ExtractedTheorems += extracted
	acc.stats.ProcessingErrors += errored
	acc.jurisdictions[doc.Jurisdiction] = true
	acc.domains[doc.LegalDomain] = true
	if acc.temporalStart == nil || scopeStart.Before(*acc.temporalStart) {
		t := scopeStart
		acc.temporalStart = &t
	}
	if acc.temporalEnd == nil || scopeStart.After(*acc.temporalEnd) {
		t := scopeStart
		acc.temporalEnd = &t
	}
	acc.mu.Unlock()
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
