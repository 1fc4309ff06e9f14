package deontic

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Theorem is what the RAG Store stores: a Formula plus the metadata
// that makes it a citable legal rule. Theorems are
// created once at ingestion time and never mutated; a later change in
// force is modeled as a brand-new Theorem with a new TemporalScope,
// never as an edit.
type Theorem struct {
	Formula           Formula
	TemporalScope     TemporalScope
	Jurisdiction      string
	LegalDomain       string
	SourceCase        string
	PrecedentStrength float64
	Embedding         []float32 // optional; nil means lexical-only

	theoremID string
}

// NewTheorem constructs a Theorem and computes its deterministic
// theorem_id. It performs no validation — see Validate, which callers
// (ragstore.Store.AddTheorem) must invoke explicitly, matching
// Formula's "constructors never fail" contract.
func NewTheorem(formula Formula, scope TemporalScope, jurisdiction, legalDomain, sourceCase string, precedentStrength float64) Theorem {
	t := Theorem{
		Formula:           formula,
		TemporalScope:     scope,
		Jurisdiction:      normalize(jurisdiction),
		LegalDomain:       normalize(legalDomain),
		SourceCase:        sourceCase,
		PrecedentStrength: precedentStrength,
	}
	t.theoremID = t.computeTheoremID()
	return t
}

func normalize(s string) string {
	return strings.TrimSpace(s)
}

func (t Theorem) computeTheoremID() string {
	endKey := "open"
	if t.TemporalScope.End != nil {
		endKey = t.TemporalScope.End.UTC().Format("2006-01-02")
	}
	content := fmt.Sprintf("%s:%s:%s:%s:%s", t.Formula.FormulaID(), t.Jurisdiction, t.LegalDomain,
		t.TemporalScope.Start.UTC().Format("2006-01-02"), endKey)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:16]
}

// TheoremID returns the theorem's stable short hash of (formula_id,
// jurisdiction, legal_domain, temporal scope).
func (t Theorem) TheoremID() string { return t.theoremID }

// Validate reports every invariant violation in t, combining Formula's
// own validation with the Theorem-level invariants: temporal scope
// correctness, non-empty jurisdiction/domain, and a precedent strength
// within [0,1].
func (t Theorem) Validate(embeddingDim int) []ValidationError {
	var errs []ValidationError

	for _, fe := range Validate(t.Formula) {
		errs = append(errs, fe)
	}
	if err := t.TemporalScope.Validate(); err != nil {
		errs = append(errs, ValidationError{"temporal_scope", err.Error()})
	}
	if t.Jurisdiction == "" {
		errs = append(errs, ValidationError{"jurisdiction", "must not be empty"})
	}
	if t.LegalDomain == "" {
		errs = append(errs, ValidationError{"legal_domain", "must not be empty"})
	}
	if t.PrecedentStrength < 0.0 || t.PrecedentStrength > 1.0 {
		errs = append(errs, ValidationError{"precedent_strength", "must be within [0,1]"})
	}
	if t.Embedding != nil && embeddingDim > 0 && len(t.Embedding) != embeddingDim {
		errs = append(errs, ValidationError{"embedding", fmt.Sprintf("dimension %d does not match store dimension %d", len(t.Embedding), embeddingDim)})
	}

	return errs
}

// LexicalSignature returns the token set over the formula's
// proposition and source text, used by the RAG Store for Jaccard-based
// semantic scoring when no embedding is present.
func (t Theorem) LexicalSignature() map[string]struct{} {
	sig := make(map[string]struct{})
	for _, tok := range tokenize(t.Formula.Proposition) {
		sig[tok] = struct{}{}
	}
	for _, tok := range tokenize(t.Formula.SourceText) {
		sig[tok] = struct{}{}
	}
	return sig
}

// tokenize lowercases and splits s on non-alphanumeric runes, dropping
// empty tokens. Shared by Theorem.LexicalSignature and, via Tokenize,
// packages ragstore and llmanalyzer.
func tokenize(s string) []string {
	lower := strings.ToLower(s)
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return out
}

// Tokenize exposes tokenize to other packages (ragstore, llmanalyzer) that
// need the exact same tokenization used for lexical signatures.
func Tokenize(s string) []string { return tokenize(s) }

// JaccardSimilarity computes set overlap |A∩B| / |A∪B|, returning 0
// when both sets are empty.
func JaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
