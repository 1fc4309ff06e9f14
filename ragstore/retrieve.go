package ragstore

import (
	"math"
	"sort"
	"time"

	"github.com/endomorphosis/deonticrag/deontic"
	"github.com/endomorphosis/deonticrag/embedprovider"
	"github.com/endomorphosis/deonticrag/xerrors"
)

const (
	weightSemantic          = 0.35
	weightOperatorMatch     = 0.25
	weightAgentMatch        = 0.20
	weightPrecedent         = 0.10
	weightTemporalProximity = 0.10
)

// RetrieveRelevantTheorems ranks the store's theorems against
// queryFormula under the supplied filters and returns the top_k
// results in deterministic descending-score order. queryEmbedding may
// be nil, in which case scoring falls back to lexical (Jaccard)
// similarity for every candidate.
func (s *Store) RetrieveRelevantTheorems(queryFormula deontic.Formula, temporalContext time.Time,
	jurisdiction, legalDomain string, topK int, queryEmbedding []float32) ([]deontic.Theorem, error) {

	if topK <= 0 {
		return nil, xerrors.InvalidInput
	}
	if queryEmbedding != nil && s.dim > 0 && len(queryEmbedding) != s.dim {
		return nil, xerrors.DimensionMismatch
	}
	if topK > s.maxTopK {
		topK = s.maxTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	querySig := formulaLexicalSignature(queryFormula)

	type scored struct {
		theorem deontic.Theorem
		score   float64
	}
	var candidates []scored

	for id, th := range s.theorems {
		if !th.TemporalScope.Contains(temporalContext) {
			continue
		}
		if !jurisdictionMatches(th.Jurisdiction, jurisdiction) {
			continue
		}
		if !domainMatches(th.LegalDomain, legalDomain, s.relatedDomains) {
			continue
		}

		score := s.scoreTheorem(id, th, queryFormula, querySig, queryEmbedding, temporalContext)
		candidates = append(candidates, scored{theorem: th, score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.theorem.PrecedentStrength != b.theorem.PrecedentStrength {
			return a.theorem.PrecedentStrength > b.theorem.PrecedentStrength
		}
		if !a.theorem.TemporalScope.Start.Equal(b.theorem.TemporalScope.Start) {
			return a.theorem.TemporalScope.Start.After(b.theorem.TemporalScope.Start)
		}
		return a.theorem.TheoremID() < b.theorem.TheoremID()
	})

	if topK > len(candidates) {
		topK = len(candidates)
	}
	out := make([]deontic.Theorem, topK)
	for i := 0; i < topK; i++ {
		out[i] = candidates[i].theorem
	}
	return out, nil
}

func (s *Store) scoreTheorem(id string, th deontic.Theorem, query deontic.Formula, querySig map[string]struct{},
	queryEmbedding []float32, temporalContext time.Time) float64 {

	semantic := s.semanticScore(id, th, querySig, queryEmbedding)
	operatorMatch := operatorMatchScore(query.Operator, th.Formula.Operator)
	agentMatch := agentMatchScore(query.Agent, th.Formula.Agent)
	proximity := temporalProximityScore(th.TemporalScope.Midpoint(), temporalContext)

	return weightSemantic*semantic +
		weightOperatorMatch*operatorMatch +
		weightAgentMatch*agentMatch +
		weightPrecedent*th.PrecedentStrength +
		weightTemporalProximity*proximity
}

func (s *Store) semanticScore(id string, th deontic.Theorem, querySig map[string]struct{}, queryEmbedding []float32) float64 {
	if queryEmbedding != nil {
		if vec, ok := s.embeddings[id]; ok {
			return embedprovider.CosineSimilarity(queryEmbedding, vec)
		}
	}
	return deontic.JaccardSimilarity(querySig, th.LexicalSignature())
}

func formulaLexicalSignature(f deontic.Formula) map[string]struct{} {
	sig := make(map[string]struct{})
	for _, tok := range deontic.Tokenize(f.Proposition) {
		sig[tok] = struct{}{}
	}
	for _, tok := range deontic.Tokenize(f.SourceText) {
		sig[tok] = struct{}{}
	}
	return sig
}

func operatorMatchScore(a, b deontic.Operator) float64 {
	if a == b {
		return 1.0
	}
	if deontic.OperatorsRelated(a, b) {
		return 0.5
	}
	return 0.0
}

func agentMatchScore(a, b *deontic.Agent) float64 {
	if a == nil || b == nil {
		return 0.25
	}
	if a.Identifier != "" && a.Identifier == b.Identifier {
		return 1.0
	}
	if a.Kind == b.Kind {
		return 0.5
	}
	return 0.0
}

func temporalProximityScore(theoremMidpoint, context time.Time) float64 {
	delta := math.Abs(monthsBetween(theoremMidpoint, context))
	return math.Exp(-delta / 60.0)
}

func monthsBetween(a, b time.Time) float64 {
	ay, am, _ := a.Date()
	by, bm, _ := b.Date()
	return float64((by-ay)*12 + int(bm) - int(am))
}

// jurisdictionMatches implements the asymmetric widening rule: an
// empty filter matches everything; an exact match always passes; a
// theorem filed under "Federal" satisfies any filter, since federal
// precedent binds every subordinate jurisdiction; and a "Federal"
// filter is read as "any jurisdiction applies", widening the other
// way too.
func jurisdictionMatches(theoremJurisdiction, filter string) bool {
	if filter == "" {
		return true
	}
	if theoremJurisdiction == filter {
		return true
	}
	if theoremJurisdiction == "Federal" || filter == "Federal" {
		return true
	}
	return false
}

// domainMatches passes on an exact match or when the theorem's domain
// is listed as related to the filter in the store's configured
// related-domains map (a configuration concern, not a hardcoded set).
func domainMatches(theoremDomain, filter string, related map[string][]string) bool {
	if filter == "" {
		return true
	}
	if theoremDomain == filter {
		return true
	}
	for _, d := range related[filter] {
		if d == theoremDomain {
			return true
		}
	}
	return false
}
