package ragstore

import (
	"context"
	"testing"
	"time"

	"github.com/endomorphosis/deonticrag/deontic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func professional() deontic.Agent {
	return deontic.NewAgent("professional", "Professional", deontic.AgentRole)
}

func TestCheckDocumentConsistencyCleanContract(t *testing.T) {
	s := New(Config{})
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	precedent := deontic.MakeProhibition("disclose confidential information to third parties", deontic.WithAgent(professional()))
	_, err := s.AddTheorem(context.Background(), precedent, scope(start, nil), "Federal", "confidentiality", "In re Smith", 0.95)
	require.NoError(t, err)

	docFormula := deontic.MakeProhibition("disclose confidential client information to unauthorized third parties",
		deontic.WithAgent(professional()))

	result := s.CheckDocumentConsistency([]deontic.Formula{docFormula},
		time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), "", "")

	assert.True(t, result.IsConsistent)
	assert.Empty(t, result.Conflicts)
}

func TestCheckDocumentConsistencyDirectConflict(t *testing.T) {
	s := New(Config{})
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	precedent := deontic.MakeProhibition("disclose confidential information to third parties", deontic.WithAgent(professional()))
	_, err := s.AddTheorem(context.Background(), precedent, scope(start, nil), "Federal", "confidentiality", "In re Smith", 0.95)
	require.NoError(t, err)

	employeeAgent := deontic.NewAgent("professional", "Employee", deontic.AgentRole)
	docFormula := deontic.MakePermission("disclose confidential information to third parties", deontic.WithAgent(employeeAgent))

	result := s.CheckDocumentConsistency([]deontic.Formula{docFormula},
		time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), "", "")

	require.NotEmpty(t, result.Conflicts)
	assert.False(t, result.IsConsistent)
	assert.Equal(t, SeverityHigh, result.Conflicts[0].Severity)
	assert.Equal(t, ExplicitConflict, result.Conflicts[0].Kind)
}

func TestCheckDocumentConsistencyTemporalConflict(t *testing.T) {
	s := New(Config{})
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	precedent := deontic.MakeObligation("provide written notice 30 days before termination")
	_, err := s.AddTheorem(context.Background(), precedent, scope(start, nil), "US", "employment", "In re Doe", 0.7)
	require.NoError(t, err)

	docFormula := deontic.MakeObligation("provide written notice 30 days before termination")
	result := s.CheckDocumentConsistency([]deontic.Formula{docFormula},
		time.Date(2016, 8, 1, 0, 0, 0, 0, time.UTC), "", "")

	require.Len(t, result.TemporalConflicts, 1)
	assert.Equal(t, SeverityMedium, result.TemporalConflicts[0].Severity)
}

func TestCheckFormulaConflictDirectContradictionRequiresAgentMatch(t *testing.T) {
	a := deontic.MakeObligation("file the report", deontic.WithAgent(professional()))
	b := deontic.MakeProhibition("file the report")

	_, _, ok := checkFormulaConflict(a, b)
	assert.False(t, ok, "agent match is required for direct_contradiction")
}

func TestCheckFormulaConflictPermissionProhibitionBroadIgnoresAgent(t *testing.T) {
	a := deontic.MakePermission("share company data externally")
	b := deontic.MakeProhibition("share company data externally")

	kind, severity, ok := checkFormulaConflict(a, b)
	require.True(t, ok)
	assert.Equal(t, PermissionProhibitionBroad, kind)
	assert.Equal(t, SeverityMedium, severity)
}

func TestPropositionsMatchSubstringAndJaccard(t *testing.T) {
	assert.True(t, propositionsMatch("disclose confidential information", "disclose confidential information to third parties"))
	assert.True(t, propositionsMatch("shall provide written notice of termination", "provide written notice of the termination event"))
	assert.False(t, propositionsMatch("file annual tax report", "attend quarterly board meeting"))
}
