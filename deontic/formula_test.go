package deontic

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormulaIDDeterministic(t *testing.T) {
	agent := NewAgent("acme-co", "Acme Co", AgentOrganization)
	a := MakeObligation("file_annual_report", WithAgent(agent), WithConditions("fiscal_year_end"))
	b := MakeObligation("file_annual_report", WithAgent(agent), WithConditions("fiscal_year_end"))

	assert.Equal(t, a.FormulaID(), b.FormulaID(), "equal structural fields must produce equal formula_id")
}

func TestFormulaIDDiffersOnProposition(t *testing.T) {
	a := MakeObligation("file_annual_report")
	b := MakeObligation("file_quarterly_report")

	assert.NotEqual(t, a.FormulaID(), b.FormulaID())
}

func TestValidateCatchesInvariantViolations(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour) // end before start: invalid

	f := New(Operator("bogus"), "", WithConfidence(1.5), WithTemporalConditions(TemporalCondition{
		Operator: Always,
		Start:    &start,
		End:      &end,
	}))

	errs := Validate(f)
	require.Len(t, errs, 4)
}

func TestValidatePassesForWellFormedFormula(t *testing.T) {
	f := MakeObligation("disclose_material_risk", WithConfidence(0.9))
	assert.Empty(t, Validate(f))
}

func TestFOLStringRendersDeterministically(t *testing.T) {
	agent := NewAgent("consultant-1", "Consultant", AgentRole)
	f := MakeProhibition(
		"disclose_confidential_information",
		WithAgent(agent),
		WithConditions("engagement_active"),
		WithTemporalConditions(TemporalCondition{Operator: Always, Condition: "during engagement"}),
		WithQuantifiers(VariableBinding{Quantifier: ForAll, Variable: "x", Domain: "clients"}),
	)

	got := f.FOLString()
	want := "F[consultant-1](□((engagement_active) → (∀x:clients (disclose_confidential_information))))"
	assert.Equal(t, want, got)
}

func TestFormulaJSONRoundTrip(t *testing.T) {
	agent := NewAgent("party-1", "Party One", AgentPerson)
	original := MakeObligation(
		"provide_written_notice",
		WithAgent(agent),
		WithConditions("termination_initiated"),
		WithConfidence(0.8),
		WithSourceText("the party shall provide written notice"),
	)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored Formula
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, original.FormulaID(), restored.FormulaID())
	assert.Equal(t, original.Operator, restored.Operator)
	assert.Equal(t, original.Proposition, restored.Proposition)
	assert.Equal(t, original.Agent.Identifier, restored.Agent.Identifier)
	assert.Equal(t, original.FOLString(), restored.FOLString())

	data2, err := json.Marshal(restored)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(data2))
}
