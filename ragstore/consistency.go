package ragstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/endomorphosis/deonticrag/deontic"
)

// ConflictKind classifies a logical or temporal disagreement found
// between a document formula and a stored theorem.
type ConflictKind string

const (
	DirectContradiction        ConflictKind = "direct_contradiction"
	ExplicitConflict           ConflictKind = "explicit_conflict"
	PermissionProhibitionBroad ConflictKind = "permission_prohibition_broad"
	ScopeTension               ConflictKind = "scope_tension"
	TemporalConflict           ConflictKind = "temporal_conflict"
)

// Severity ranks how serious a Conflict is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Conflict is one disagreement between a document formula and a
// precedent theorem.
type Conflict struct {
	DocumentFormula deontic.Formula
	Theorem         deontic.Theorem
	Kind            ConflictKind
	Severity        Severity
}

// ConsistencyResult is the outcome of checking a set of document
// formulas against the store.
type ConsistencyResult struct {
	IsConsistent      bool
	Conflicts         []Conflict
	TemporalConflicts []Conflict
	RelevantTheorems  []deontic.Theorem
	Reasoning         string
}

// CheckDocumentConsistency retrieves the top-k relevant theorems for
// every document formula (k=10) and evaluates each pair for logical
// conflicts. Retrieval only returns theorems in force at
// temporalContext, so temporal conflicts come from a separate scan of
// the jurisdiction/domain-filtered theorems that are not in force then.
func (s *Store) CheckDocumentConsistency(documentFormulas []deontic.Formula, temporalContext time.Time,
	jurisdiction, legalDomain string) ConsistencyResult {

	const perFormulaTopK = 10

	var result ConsistencyResult
	seenTheorem := map[string]bool{}

	var outOfScope []deontic.Theorem
	for _, th := range s.AllTheorems() {
		if !th.TemporalScope.Contains(temporalContext) && jurisdictionMatches(th.Jurisdiction, jurisdiction) &&
			domainMatches(th.LegalDomain, legalDomain, s.relatedDomains) {
			outOfScope = append(outOfScope, th)
		}
	}

	for _, docFormula := range documentFormulas {
		theorems, err := s.RetrieveRelevantTheorems(docFormula, temporalContext, jurisdiction, legalDomain, perFormulaTopK, nil)
		if err != nil {
			continue
		}

		for _, th := range theorems {
			if !seenTheorem[th.TheoremID()] {
				seenTheorem[th.TheoremID()] = true
				result.RelevantTheorems = append(result.RelevantTheorems, th)
			}

			if kind, severity, ok := checkFormulaConflict(docFormula, th.Formula); ok {
				result.Conflicts = append(result.Conflicts, Conflict{
					DocumentFormula: docFormula,
					Theorem:         th,
					Kind:            kind,
					Severity:        severity,
				})
			}
		}
		for _, th := range outOfScope {
			if propositionsMatch(docFormula.Proposition, th.Formula.Proposition) {
				result.TemporalConflicts = append(result.TemporalConflicts, Conflict{
					DocumentFormula: docFormula,
					Theorem:         th,
					Kind:            TemporalConflict,
					Severity:        SeverityMedium,
				})
			}
		}
	}

	result.IsConsistent = len(result.Conflicts) == 0 && len(result.TemporalConflicts) == 0
	result.Reasoning = buildReasoning(result)
	return result
}

// checkFormulaConflict evaluates one (document formula, theorem
// formula) pair against the known conflict table. Agent match is
// required for every rule except permission_prohibition_broad, which
// exists precisely to flag a broad grant against a narrower
// prohibition that doesn't name the same agent.
func checkFormulaConflict(a, b deontic.Formula) (ConflictKind, Severity, bool) {
	if !propositionsMatch(a.Proposition, b.Proposition) {
		return "", "", false
	}

	agentMatch := agentsMatch(a, b)
	ops := map[deontic.Operator]bool{a.Operator: true, b.Operator: true}

	switch {
	case len(ops) == 2 && ops[deontic.Obligation] && ops[deontic.Prohibition]:
		if !agentMatch {
			return "", "", false
		}
		return DirectContradiction, SeverityCritical, true

	case len(ops) == 2 && ops[deontic.Permission] && ops[deontic.Prohibition]:
		if agentMatch {
			return ExplicitConflict, SeverityHigh, true
		}
		return PermissionProhibitionBroad, SeverityMedium, true

	case len(ops) == 2 && ops[deontic.Obligation] && ops[deontic.Permission]:
		if !agentMatch {
			return "", "", false
		}
		// Negation detection is a heuristic: treat a mismatch in
		// negation-marker presence between the two propositions as
		// weak evidence of tension, never as a hard contradiction.
		if negationMismatch(a.Proposition, b.Proposition) {
			return ScopeTension, SeverityLow, true
		}
		return "", "", false

	default:
		return "", "", false
	}
}

func agentsMatch(a, b deontic.Formula) bool {
	return a.Agent != nil && b.Agent != nil && a.Agent.SameIdentity(*b.Agent)
}

// propositionsMatch implements the substring-either-direction test
// augmented by a Jaccard-overlap threshold, both case-insensitive.
func propositionsMatch(a, b string) bool {
	al, bl := strings.ToLower(a), strings.ToLower(b)
	if al == "" || bl == "" {
		return false
	}
	if strings.Contains(al, bl) || strings.Contains(bl, al) {
		return true
	}
	return jaccard(al, bl) >= 0.6
}

func jaccard(a, b string) float64 {
	sigA := make(map[string]struct{})
	for _, tok := range deontic.Tokenize(a) {
		sigA[tok] = struct{}{}
	}
	sigB := make(map[string]struct{})
	for _, tok := range deontic.Tokenize(b) {
		sigB[tok] = struct{}{}
	}
	return deontic.JaccardSimilarity(sigA, sigB)
}

var negationMarkers = map[string]bool{"not": true, "no": true, "never": true, "without": true}

func negationMismatch(a, b string) bool {
	return hasNegation(a) != hasNegation(b)
}

func hasNegation(s string) bool {
	for _, tok := range deontic.Tokenize(s) {
		if negationMarkers[tok] {
			return true
		}
	}
	return false
}

func buildReasoning(r ConsistencyResult) string {
	if r.IsConsistent {
		return fmt.Sprintf("consistent: checked against %d relevant theorem(s), no conflicts found", len(r.RelevantTheorems))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "inconsistent: %d conflict(s), %d temporal conflict(s) across %d relevant theorem(s)",
		len(r.Conflicts), len(r.TemporalConflicts), len(r.RelevantTheorems))

	shown := 0
	for _, c := range r.Conflicts {
		if shown >= 3 {
			break
		}
		fmt.Fprintf(&b, "; %s (%s) vs precedent %q", c.Kind, c.Severity, c.Theorem.SourceCase)
		shown++
	}
	return b.String()
}
