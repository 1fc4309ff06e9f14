package deontic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConsistencyFindsDirectConflict(t *testing.T) {
	agent := NewAgent("employee-1", "Employee", AgentPerson)
	rs := NewRuleSet("employment-handbook")
	rs.Add(MakeObligation("report_to_office_daily", WithAgent(agent)))
	rs.Add(MakeProhibition("report_to_office_daily", WithAgent(agent)))

	conflicts := rs.CheckConsistency()
	require.Len(t, conflicts, 1)
	assert.Equal(t, DirectConflict, conflicts[0].Description)
}

func TestCheckConsistencyFindsPermissionVsProhibition(t *testing.T) {
	agent := NewAgent("employee-1", "Employee", AgentPerson)
	rs := NewRuleSet("employment-handbook")
	rs.Add(MakePermission("work_remotely", WithAgent(agent)))
	rs.Add(MakeProhibition("work_remotely", WithAgent(agent)))

	conflicts := rs.CheckConsistency()
	require.Len(t, conflicts, 1)
	assert.Equal(t, PermissionVsProhibition, conflicts[0].Description)
}

func TestCheckConsistencyIgnoresUnrelatedPairs(t *testing.T) {
	agent := NewAgent("employee-1", "Employee", AgentPerson)
	rs := NewRuleSet("employment-handbook")
	rs.Add(MakeObligation("work_remotely", WithAgent(agent)))
	rs.Add(MakePermission("work_remotely", WithAgent(agent)))

	assert.Empty(t, rs.CheckConsistency())
}

func TestCheckConsistencyRequiresSameAgentAndProposition(t *testing.T) {
	a1 := NewAgent("employee-1", "Employee One", AgentPerson)
	a2 := NewAgent("employee-2", "Employee Two", AgentPerson)
	rs := NewRuleSet("employment-handbook")
	rs.Add(MakeObligation("work_remotely", WithAgent(a1)))
	rs.Add(MakeProhibition("work_remotely", WithAgent(a2)))

	assert.Empty(t, rs.CheckConsistency())
}

func TestRuleSetDoesNotDedupe(t *testing.T) {
	rs := NewRuleSet("dupes")
	f := MakeObligation("do_a_thing")
	rs.Add(f)
	rs.Add(f)
	assert.Len(t, rs.Formulas, 2)
}
