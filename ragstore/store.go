// Package ragstore implements the temporal/deontic RAG Store: the
// hybrid vector/lexical index that persists theorems and answers
// relevance-ranked retrieval and consistency questions about them.
//
// A Store keeps several indexes in sync on every write (primary map,
// operator index, temporal index, jurisdiction index, domain index,
// optional dense-vector index, lexical signature index). Writes are
// serialized behind a single mutex; reads proceed concurrently and
// always observe either all of a new theorem's index entries or none
// of them, since every index is updated while holding the write lock.
package ragstore

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/endomorphosis/deonticrag/deontic"
	"github.com/endomorphosis/deonticrag/embedprovider"
	"github.com/endomorphosis/deonticrag/xerrors"
)

// DefaultMaxTopK is the internal ceiling on top_k when the caller's
// Config doesn't set one explicitly.
const DefaultMaxTopK = 50

// Config configures a Store at construction time.
type Config struct {
	EmbeddingDimension int
	Provider           embedprovider.Provider
	Logger             *slog.Logger
	RelatedDomains     map[string][]string
	MaxTopK            int
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.MaxTopK <= 0 {
		c.MaxTopK = DefaultMaxTopK
	}
	if c.RelatedDomains == nil {
		c.RelatedDomains = map[string][]string{}
	}
	return c
}

// Store is the temporal/deontic RAG Store. The zero value is not
// usable; construct with New.
type Store struct {
	mu sync.RWMutex

	theorems       map[string]deontic.Theorem
	byOperator     map[deontic.Operator]map[string]struct{}
	byYearMonth    map[string]map[string]struct{}
	byJurisdiction map[string]map[string]struct{}
	byDomain       map[string]map[string]struct{}
	embeddings     map[string][]float32
	lexical        map[string]map[string]struct{}

	dim            int
	provider       embedprovider.Provider
	relatedDomains map[string][]string
	maxTopK        int
	logger         *slog.Logger

	embeddingFailures int
}

// New constructs an empty Store. EmbeddingDimension of 0 means the
// store runs lexical-only even if a Provider is configured.
func New(cfg Config) *Store {
	cfg = cfg.withDefaults()
	return &Store{
		theorems:       make(map[string]deontic.Theorem),
		byOperator:     make(map[deontic.Operator]map[string]struct{}),
		byYearMonth:    make(map[string]map[string]struct{}),
		byJurisdiction: make(map[string]map[string]struct{}),
		byDomain:       make(map[string]map[string]struct{}),
		embeddings:     make(map[string][]float32),
		lexical:        make(map[string]map[string]struct{}),
		dim:            cfg.EmbeddingDimension,
		provider:       cfg.Provider,
		relatedDomains: cfg.RelatedDomains,
		maxTopK:        cfg.MaxTopK,
		logger:         cfg.Logger,
	}
}

// AddTheorem constructs a Theorem from its parts, validates it,
// optionally embeds its proposition, and inserts it into every index
// atomically. Re-adding a Theorem that produces the same theorem_id
// is a no-op and returns the existing id.
func (s *Store) AddTheorem(ctx context.Context, formula deontic.Formula, scope deontic.TemporalScope,
	jurisdiction, legalDomain, sourceCase string, precedentStrength float64) (string, error) {

	th := deontic.NewTheorem(formula, scope, jurisdiction, legalDomain, sourceCase, precedentStrength)
	if errs := th.Validate(0); len(errs) > 0 {
		return "", xerrors.InvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.theorems[th.TheoremID()]; exists {
		return th.TheoremID(), nil
	}

	if s.provider != nil && s.dim > 0 {
		s.embedLocked(ctx, &th)
	}

	s.insertLocked(th)
	return th.TheoremID(), nil
}

// embedLocked calls the configured Provider for th's proposition text
// and attaches the resulting embedding, falling back to lexical-only
// storage (and a logged warning) on any failure or dimension
// mismatch. Called with the write lock held.
func (s *Store) embedLocked(ctx context.Context, th *deontic.Theorem) {
	vectors, err := s.provider.Embed(ctx, []string{th.Formula.Proposition})
	if err != nil || len(vectors) != 1 {
		s.embeddingFailures++
		s.logger.Warn("embedding provider failed, storing lexical-only",
			slog.String("theorem_id", th.TheoremID()), slog.Any("err", err))
		return
	}
	if len(vectors[0]) != s.dim {
		s.embeddingFailures++
		s.logger.Warn("embedding provider returned wrong dimension, storing lexical-only",
			slog.String("theorem_id", th.TheoremID()), slog.Int("got", len(vectors[0])), slog.Int("want", s.dim))
		return
	}
	th.Embedding = vectors[0]
}

func (s *Store) insertLocked(th deontic.Theorem) {
	id := th.TheoremID()
	s.theorems[id] = th

	indexAdd(s.byOperator, th.Formula.Operator, id)
	indexAdd(s.byJurisdiction, th.Jurisdiction, id)
	indexAdd(s.byDomain, th.LegalDomain, id)
	indexAdd(s.byYearMonth, yearMonthKey(th.TemporalScope.Start), id)

	s.lexical[id] = th.LexicalSignature()
	if th.Embedding != nil {
		s.embeddings[id] = th.Embedding
	}
}

func indexAdd[K comparable](idx map[K]map[string]struct{}, key K, id string) {
	set, ok := idx[key]
	if !ok {
		set = make(map[string]struct{})
		idx[key] = set
	}
	set[id] = struct{}{}
}

func yearMonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// Statistics is the snapshot returned by GetStatistics.
type Statistics struct {
	TotalTheorems        int
	Jurisdictions        []string
	LegalDomains         []string
	AvgPrecedentStrength float64
	EmbeddingBacked      int
}

// GetStatistics returns a point-in-time summary of the store's
// contents.
func (s *Store) GetStatistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{TotalTheorems: len(s.theorems)}
	jSet := map[string]struct{}{}
	dSet := map[string]struct{}{}
	var strengthSum float64

	for id, th := range s.theorems {
		jSet[th.Jurisdiction] = struct{}{}
		dSet[th.LegalDomain] = struct{}{}
		strengthSum += th.PrecedentStrength
		if _, ok := s.embeddings[id]; ok {
			stats.EmbeddingBacked++
		}
	}
	if len(s.theorems) > 0 {
		stats.AvgPrecedentStrength = strengthSum / float64(len(s.theorems))
	}
	stats.Jurisdictions = setKeys(jSet)
	stats.LegalDomains = setKeys(dSet)
	return stats
}

// AllTheorems returns a point-in-time snapshot of every stored
// theorem, sorted by theorem_id for a deterministic export order.
func (s *Store) AllTheorems() []deontic.Theorem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]deontic.Theorem, 0, len(s.theorems))
	for _, th := range s.theorems {
		out = append(out, th)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TheoremID() < out[j].TheoremID() })
	return out
}

func setKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
