package deontic

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// RuleSet is a named, mutable collection of formulas.
// Unlike Formula and Theorem, a RuleSet is a container callers build
// up and tear down; it is never stored inside the RAG Store.
type RuleSet struct {
	Name           string
	Formulas       []Formula
	Description    string
	Version        string
	SourceDocument string
	LegalContext   *LegalContext

	ruleSetID         string
	creationTimestamp time.Time
}

// NewRuleSet constructs an empty, named RuleSet. Version is "1.0"
// unless WithVersion supplies another value.
func NewRuleSet(name string, opts ...RuleSetOption) *RuleSet {
	rs := &RuleSet{
		Name:    name,
		Version: "1.0",
	}
	for _, opt := range opts {
		opt(rs)
	}
	rs.creationTimestamp = time.Now()
	rs.ruleSetID = rs.computeID()
	return rs
}

// RuleSetOption configures optional RuleSet fields at construction.
type RuleSetOption func(*RuleSet)

func WithDescription(d string) RuleSetOption   { return func(rs *RuleSet) { rs.Description = d } }
func WithVersion(v string) RuleSetOption       { return func(rs *RuleSet) { rs.Version = v } }
func WithSourceDocument(s string) RuleSetOption {
	return func(rs *RuleSet) { rs.SourceDocument = s }
}
func WithRuleSetLegalContext(c LegalContext) RuleSetOption {
	return func(rs *RuleSet) { rs.LegalContext = &c }
}
func WithFormulas(formulas ...Formula) RuleSetOption {
	return func(rs *RuleSet) { rs.Formulas = formulas }
}

func (rs *RuleSet) computeID() string {
	sum := sha256.Sum256([]byte(rs.Name + ":" + rs.Version))
	return hex.EncodeToString(sum[:])[:10]
}

// ID returns the rule set's stable short hash of (name, version).
func (rs *RuleSet) ID() string { return rs.ruleSetID }

// CreationTimestamp returns when this RuleSet was constructed.
func (rs *RuleSet) CreationTimestamp() time.Time { return rs.creationTimestamp }

// Add appends a formula. RuleSets do not dedupe:
// callers may add the same formula twice and both copies are kept.
func (rs *RuleSet) Add(f Formula) {
	rs.Formulas = append(rs.Formulas, f)
}

// Remove deletes the first formula with the given formula_id, if any,
// reporting whether a formula was removed.
func (rs *RuleSet) Remove(formulaID string) bool {
	for i, f := range rs.Formulas {
		if f.FormulaID() == formulaID {
			rs.Formulas = append(rs.Formulas[:i], rs.Formulas[i+1:]...)
			return true
		}
	}
	return false
}

// ConflictKind classifies a RuleSet-internal conflict found by
// CheckConsistency.
type ConflictKind string

const (
	DirectConflict           ConflictKind = "direct conflict"
	PermissionVsProhibition  ConflictKind = "permission vs prohibition"
)

// Conflict is one pairwise conflict reported by CheckConsistency.
type Conflict struct {
	FormulaA    Formula
	FormulaB    Formula
	Description ConflictKind
}

// CheckConsistency returns every pair of formulas in the rule set that
// share an agent identifier and proposition and whose operators form
// one of two patterns:
//
//   - {Obligation, Prohibition}          → "direct conflict"
//   - {Permission, Prohibition}          → "permission vs prohibition"
//
// No other pair pattern is reported here; deeper conflict logic lives
// in package ragstore.
func (rs *RuleSet) CheckConsistency() []Conflict {
	var conflicts []Conflict

	for i := 0; i < len(rs.Formulas); i++ {
		for j := i + 1; j < len(rs.Formulas); j++ {
			a, b := rs.Formulas[i], rs.Formulas[j]

			if a.Agent == nil || b.Agent == nil || !a.Agent.SameIdentity(*b.Agent) {
				continue
			}
			if a.Proposition != b.Proposition {
				continue
			}

			kind, ok := conflictKind(a.Operator, b.Operator)
			if !ok {
				continue
			}

			conflicts = append(conflicts, Conflict{FormulaA: a, FormulaB: b, Description: kind})
		}
	}

	return conflicts
}

func conflictKind(opA, opB Operator) (ConflictKind, bool) {
	set := map[Operator]bool{opA: true, opB: true}
	switch {
	case len(set) == 2 && set[Obligation] && set[Prohibition]:
		return DirectConflict, true
	case len(set) == 2 && set[Permission] && set[Prohibition]:
		return PermissionVsProhibition, true
	default:
		return "", false
	}
}

// String implements fmt.Stringer for debugging/logging.
func (c Conflict) String() string {
	return fmt.Sprintf("%s: %s[%s] vs %s[%s] on %q",
		c.Description, c.FormulaA.Operator, c.FormulaA.FormulaID(),
		c.FormulaB.Operator, c.FormulaB.FormulaID(), c.FormulaA.Proposition)
}
