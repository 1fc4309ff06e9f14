package deontic

import (
	"encoding/json"
	"fmt"
	"time"
)

// agentJSON, temporalConditionJSON, and formulaJSON mirror the shape
// used elsewhere in this ecosystem for deontic records, so that
// serialize → deserialize → serialize is field-for-field stable and
// FOLString travels as a derived, cached field rather than being
// recomputed silently on every read.
type agentJSON struct {
	Identifier string    `json:"identifier"`
	Name       string    `json:"name"`
	Kind       AgentKind `json:"kind"`
}

type temporalConditionJSON struct {
	Operator  TemporalOperator `json:"operator"`
	Condition string           `json:"condition"`
	StartTime *time.Time       `json:"start_time"`
	EndTime   *time.Time       `json:"end_time"`
	Duration  *string          `json:"duration"`
}

type legalContextJSON struct {
	Jurisdiction  string   `json:"jurisdiction,omitempty"`
	LegalDomain   string   `json:"legal_domain,omitempty"`
	ApplicableLaw string   `json:"applicable_law,omitempty"`
	Precedents    []string `json:"precedents,omitempty"`
	Exceptions    []string `json:"exceptions,omitempty"`
}

type variableBindingJSON struct {
	Quantifier Quantifier `json:"quantifier"`
	Variable   string     `json:"variable"`
	Domain     string     `json:"domain"`
}

type formulaJSON struct {
	FormulaID          string                  `json:"formula_id"`
	Operator           Operator                `json:"operator"`
	Proposition        string                  `json:"proposition"`
	Agent              *agentJSON              `json:"agent"`
	Beneficiary        *agentJSON              `json:"beneficiary"`
	Conditions         []string                `json:"conditions"`
	TemporalConditions []temporalConditionJSON `json:"temporal_conditions"`
	LegalContext       *legalContextJSON       `json:"legal_context"`
	Confidence         float64                 `json:"confidence"`
	SourceText         string                  `json:"source_text"`
	Variables          map[string]string       `json:"variables"`
	Quantifiers        []variableBindingJSON   `json:"quantifiers"`
	FOLString          string                  `json:"fol_string"`
	CreationTimestamp  time.Time               `json:"creation_timestamp"`
}

func agentToJSON(a *Agent) *agentJSON {
	if a == nil {
		return nil
	}
	return &agentJSON{Identifier: a.Identifier, Name: a.DisplayName, Kind: a.Kind}
}

func agentFromJSON(a *agentJSON) *Agent {
	if a == nil {
		return nil
	}
	agent := NewAgent(a.Identifier, a.Name, a.Kind)
	return &agent
}

// MarshalJSON renders f in the to_dict shape described above.
func (f Formula) MarshalJSON() ([]byte, error) {
	tcs := make([]temporalConditionJSON, len(f.TemporalConditions))
	for i, tc := range f.TemporalConditions {
		var durStr *string
		if tc.Duration != nil {
			s := tc.Duration.String()
			durStr = &s
		}
		tcs[i] = temporalConditionJSON{
			Operator:  tc.Operator,
			Condition: tc.Condition,
			StartTime: tc.Start,
			EndTime:   tc.End,
			Duration:  durStr,
		}
	}

	qs := make([]variableBindingJSON, len(f.Quantifiers))
	for i, q := range f.Quantifiers {
		qs[i] = variableBindingJSON{Quantifier: q.Quantifier, Variable: q.Variable, Domain: q.Domain}
	}

	var lc *legalContextJSON
	if f.LegalContext != nil {
		lc = &legalContextJSON{
			Jurisdiction:  f.LegalContext.Jurisdiction,
			LegalDomain:   f.LegalContext.LegalDomain,
			ApplicableLaw: f.LegalContext.ApplicableLaw,
			Precedents:    f.LegalContext.Precedents,
			Exceptions:    f.LegalContext.Exceptions,
		}
	}

	return json.Marshal(formulaJSON{
		FormulaID:          f.formulaID,
		Operator:           f.Operator,
		Proposition:        f.Proposition,
		Agent:              agentToJSON(f.Agent),
		Beneficiary:        agentToJSON(f.Beneficiary),
		Conditions:         f.Conditions,
		TemporalConditions: tcs,
		LegalContext:       lc,
		Confidence:         f.Confidence,
		SourceText:         f.SourceText,
		Variables:          f.Variables,
		Quantifiers:        qs,
		FOLString:          f.FOLString(),
		CreationTimestamp:  f.creationTimestamp,
	})
}

// UnmarshalJSON reconstructs a Formula from the to_dict shape,
// restoring the original formula_id and creation_timestamp rather than
// recomputing them, so serialize→deserialize→serialize is
// byte-identical even across a confidence or timestamp that would
// otherwise drift.
func (f *Formula) UnmarshalJSON(data []byte) error {
	var raw formulaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal formula: %w", err)
	}

	tcs := make([]TemporalCondition, len(raw.TemporalConditions))
	for i, tc := range raw.TemporalConditions {
		var dur *time.Duration
		if tc.Duration != nil {
			if parsed, err := time.ParseDuration(*tc.Duration); err == nil {
				dur = &parsed
			}
		}
		tcs[i] = TemporalCondition{
			Operator:  tc.Operator,
			Condition: tc.Condition,
			Start:     tc.StartTime,
			End:       tc.EndTime,
			Duration:  dur,
		}
	}

	qs := make([]VariableBinding, len(raw.Quantifiers))
	for i, q := range raw.Quantifiers {
		qs[i] = VariableBinding{Quantifier: q.Quantifier, Variable: q.Variable, Domain: q.Domain}
	}

	var lc *LegalContext
	if raw.LegalContext != nil {
		lc = &LegalContext{
			Jurisdiction:  raw.LegalContext.Jurisdiction,
			LegalDomain:   raw.LegalContext.LegalDomain,
			ApplicableLaw: raw.LegalContext.ApplicableLaw,
			Precedents:    raw.LegalContext.Precedents,
			Exceptions:    raw.LegalContext.Exceptions,
		}
	}

	*f = Formula{
		Operator:           raw.Operator,
		Proposition:        raw.Proposition,
		Agent:              agentFromJSON(raw.Agent),
		Beneficiary:        agentFromJSON(raw.Beneficiary),
		Conditions:         raw.Conditions,
		TemporalConditions: tcs,
		LegalContext:       lc,
		Confidence:         raw.Confidence,
		SourceText:         raw.SourceText,
		Variables:          raw.Variables,
		Quantifiers:        qs,
		formulaID:          raw.FormulaID,
		creationTimestamp:  raw.CreationTimestamp,
	}
	return nil
}

type theoremJSON struct {
	TheoremID         string   `json:"theorem_id"`
	Formula           Formula  `json:"formula"`
	Jurisdiction      string   `json:"jurisdiction"`
	LegalDomain       string   `json:"legal_domain"`
	SourceCase        string   `json:"source_case"`
	PrecedentStrength float64  `json:"precedent_strength"`
	TemporalScope     [2]*time.Time `json:"temporal_scope"`
	Embedding         []float32 `json:"embedding,omitempty"`
}

// MarshalJSON renders t's unified_rag_store.json shape:
// temporal_scope as a [start|null, end|null] pair.
func (t Theorem) MarshalJSON() ([]byte, error) {
	start := t.TemporalScope.Start
	return json.Marshal(theoremJSON{
		TheoremID:         t.theoremID,
		Formula:           t.Formula,
		Jurisdiction:      t.Jurisdiction,
		LegalDomain:       t.LegalDomain,
		SourceCase:        t.SourceCase,
		PrecedentStrength: t.PrecedentStrength,
		TemporalScope:     [2]*time.Time{&start, t.TemporalScope.End},
		Embedding:         t.Embedding,
	})
}

// UnmarshalJSON reconstructs a Theorem, preserving the original
// theorem_id rather than recomputing it.
func (t *Theorem) UnmarshalJSON(data []byte) error {
	var raw theoremJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal theorem: %w", err)
	}
	scope := TemporalScope{End: raw.TemporalScope[1]}
	if raw.TemporalScope[0] != nil {
		scope.Start = *raw.TemporalScope[0]
	}
	*t = Theorem{
		Formula:           raw.Formula,
		TemporalScope:     scope,
		Jurisdiction:      raw.Jurisdiction,
		LegalDomain:       raw.LegalDomain,
		SourceCase:        raw.SourceCase,
		PrecedentStrength: raw.PrecedentStrength,
		Embedding:         raw.Embedding,
		theoremID:         raw.TheoremID,
	}
	return nil
}
