// Package deontic implements the immutable deontic-formula and
// rule-set value types and the construction, validation, and
// serialization utilities built on top of them.
package deontic

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// VariableBinding is one entry of a Formula's quantifier list:
// (Quantifier, Variable, Domain), e.g. (∀, "x", "contracts").
type VariableBinding struct {
	Quantifier Quantifier
	Variable   string
	Domain     string
}

// Formula is the core deontic first-order-logic record: an operator
// applied to a proposition, optionally scoped by agent, beneficiary,
// conditions, temporal conditions, legal context, and variable
// bindings. Formula is immutable after construction — every field is
// set once in a constructor and never mutated thereafter.
type Formula struct {
	Operator           Operator
	Proposition        string
	Agent              *Agent
	Beneficiary        *Agent
	Conditions         []string
	TemporalConditions []TemporalCondition
	LegalContext       *LegalContext
	Confidence         float64
	SourceText         string
	Variables          map[string]string
	Quantifiers        []VariableBinding

	formulaID         string
	creationTimestamp time.Time
}

// New constructs a Formula with the given operator and proposition,
// applying the supplied options. Proposition is not normalized here —
// callers extracting from text should normalize (snake_case, ASCII)
// before calling New; New only computes the derived formula_id and
// creation timestamp.
func New(operator Operator, proposition string, opts ...Option) Formula {
	f := Formula{
		Operator:    operator,
		Proposition: proposition,
		Confidence:  1.0,
	}
	for _, opt := range opts {
		opt(&f)
	}
	f.creationTimestamp = time.Now()
	f.formulaID = f.computeFormulaID()
	return f
}

// Option configures optional Formula fields at construction time.
type Option func(*Formula)

func WithAgent(a Agent) Option             { return func(f *Formula) { f.Agent = &a } }
func WithBeneficiary(a Agent) Option       { return func(f *Formula) { f.Beneficiary = &a } }
func WithConditions(c ...string) Option    { return func(f *Formula) { f.Conditions = c } }
func WithTemporalConditions(t ...TemporalCondition) Option {
	return func(f *Formula) { f.TemporalConditions = t }
}
func WithLegalContext(c LegalContext) Option { return func(f *Formula) { f.LegalContext = &c } }
func WithConfidence(c float64) Option         { return func(f *Formula) { f.Confidence = c } }
func WithSourceText(s string) Option          { return func(f *Formula) { f.SourceText = s } }
func WithVariables(v map[string]string) Option {
	return func(f *Formula) { f.Variables = v }
}
func WithQuantifiers(q ...VariableBinding) Option {
	return func(f *Formula) { f.Quantifiers = q }
}

// MakeObligation is a convenience constructor equivalent to
// New(Obligation, proposition, opts...).
func MakeObligation(proposition string, opts ...Option) Formula {
	return New(Obligation, proposition, opts...)
}

// MakePermission is a convenience constructor equivalent to
// New(Permission, proposition, opts...).
func MakePermission(proposition string, opts ...Option) Formula {
	return New(Permission, proposition, opts...)
}

// MakeProhibition is a convenience constructor equivalent to
// New(Prohibition, proposition, opts...).
func MakeProhibition(proposition string, opts ...Option) Formula {
	return New(Prohibition, proposition, opts...)
}

// FormulaID returns the formula's stable short hash, deterministic in
// (operator, proposition, agent identifier, conditions)
func (f Formula) FormulaID() string { return f.formulaID }

// CreationTimestamp returns when this Formula value was constructed.
func (f Formula) CreationTimestamp() time.Time { return f.creationTimestamp }

func (f Formula) computeFormulaID() string {
	agentID := ""
	if f.Agent != nil {
		agentID = f.Agent.Identifier
	}
	content := fmt.Sprintf("%s:%s:%s:%s", f.Operator, f.Proposition, agentID, strings.Join(f.Conditions, "|"))
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:12]
}

// FOLString renders the formula's deterministic first-order-logic
// textual serialization:
//
//   - prefix the operator symbol
//   - bracket the agent identifier, if present
//   - wrap the proposition in parentheses
//   - prepend quantifiers ∀v:D / ∃v:D, in declaration order
//   - if conditions exist, render as (c1 ∧ c2 ∧ …) → (proposition)
//   - wrap with each temporal operator, in declaration order,
//     outermost last
func (f Formula) FOLString() string {
	prop := f.Proposition

	for _, vb := range f.Quantifiers {
		prop = fmt.Sprintf("%s%s:%s (%s)", vb.Quantifier, vb.Variable, vb.Domain, prop)
	}

	if len(f.Conditions) > 0 {
		prop = fmt.Sprintf("(%s) → (%s)", strings.Join(f.Conditions, " ∧ "), prop)
	}

	for _, tc := range f.TemporalConditions {
		prop = fmt.Sprintf("%s(%s)", tc.Operator, prop)
	}

	var b strings.Builder
	b.WriteString(string(f.Operator))
	if f.Agent != nil {
		fmt.Fprintf(&b, "[%s]", f.Agent.Identifier)
	}
	fmt.Fprintf(&b, "(%s)", prop)
	return b.String()
}

// ValidationError is one failure reported by Validate.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate returns every invariant violation found in f. Constructors
// never fail; this is the explicit, separate validation step.
func Validate(f Formula) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(f.Proposition) == "" {
		errs = append(errs, ValidationError{"proposition", "must not be empty"})
	}
	if !f.Operator.Valid() {
		errs = append(errs, ValidationError{"operator", "unrecognized deontic operator"})
	}
	if f.Confidence < 0.0 || f.Confidence > 1.0 {
		errs = append(errs, ValidationError{"confidence", "must be within [0,1]"})
	}
	for i, tc := range f.TemporalConditions {
		if err := tc.Validate(); err != nil {
			errs = append(errs, ValidationError{fmt.Sprintf("temporal_conditions[%d]", i), err.Error()})
		}
	}
	for i, vb := range f.Quantifiers {
		if !vb.Quantifier.Valid() {
			errs = append(errs, ValidationError{fmt.Sprintf("quantifiers[%d].quantifier", i), "must be ∀ or ∃"})
		}
		if strings.TrimSpace(vb.Variable) == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("quantifiers[%d].variable", i), "must not be empty"})
		}
		if strings.TrimSpace(vb.Domain) == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("quantifiers[%d].domain", i), "must not be empty"})
		}
	}

	return errs
}
