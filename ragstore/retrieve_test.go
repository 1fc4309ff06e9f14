package ragstore

import (
	"context"
	"testing"
	"time"

	"github.com/endomorphosis/deonticrag/deontic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieveEmptyStoreAfterSingleInsertReturnsExactlyThatTheorem(t *testing.T) {
	s := New(Config{})
	f := deontic.MakeObligation("provide_written_notice")
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.AddTheorem(context.Background(), f, scope(start, nil), "US", "contracts", "In re Acme", 0.6)
	require.NoError(t, err)

	results, err := s.RetrieveRelevantTheorems(f, start, "US", "contracts", 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "provide_written_notice", results[0].Formula.Proposition)
}

func TestRetrieveExcludesTheoremsWithClosedScopeInThePast(t *testing.T) {
	s := New(Config{})
	f := deontic.MakeObligation("provide_written_notice")
	start := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.AddTheorem(context.Background(), f, scope(start, &end), "US", "contracts", "", 0.6)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	results, err := s.RetrieveRelevantTheorems(f, now, "US", "contracts", 10, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveRejectsNonPositiveTopK(t *testing.T) {
	s := New(Config{})
	_, err := s.RetrieveRelevantTheorems(deontic.MakeObligation("x"), time.Now(), "", "", 0, nil)
	assert.Error(t, err)
}

func TestRetrieveRejectsDimensionMismatch(t *testing.T) {
	s := New(Config{EmbeddingDimension: 8})
	_, err := s.RetrieveRelevantTheorems(deontic.MakeObligation("x"), time.Now(), "", "", 5, make([]float32, 4))
	assert.Error(t, err)
}

func TestRetrieveIsDeterministicAcrossCalls(t *testing.T) {
	s := New(Config{})
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, _ = s.AddTheorem(context.Background(), deontic.MakeObligation("disclose_material_risk"),
			scope(start, nil), "US", "securities", "", float64(i)/10+0.1)
	}

	query := deontic.MakeObligation("disclose_material_risk")
	first, err := s.RetrieveRelevantTheorems(query, start, "US", "securities", 10, nil)
	require.NoError(t, err)
	second, err := s.RetrieveRelevantTheorems(query, start, "US", "securities", 10, nil)
	require.NoError(t, err)

	require.Len(t, first, len(second))
	for i := range first {
		assert.Equal(t, first[i].TheoremID(), second[i].TheoremID())
	}
}

func TestRetrieveOrdersByPrecedentStrengthThenStartThenID(t *testing.T) {
	s := New(Config{})
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _ = s.AddTheorem(context.Background(), deontic.MakeObligation("disclose_material_risk", deontic.WithSourceText("a")),
		scope(base, nil), "US", "securities", "low", 0.3)
	_, _ = s.AddTheorem(context.Background(), deontic.MakeObligation("disclose_material_risk", deontic.WithSourceText("b")),
		scope(base.AddDate(1, 0, 0), nil), "US", "securities", "high", 0.9)

	query := deontic.MakeObligation("disclose_material_risk")
	results, err := s.RetrieveRelevantTheorems(query, base.AddDate(1, 0, 0), "US", "securities", 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "high", results[0].SourceCase, "higher precedent_strength must sort first when semantic scores tie")
}

func TestJurisdictionWideningRules(t *testing.T) {
	assert.True(t, jurisdictionMatches("Federal", "US-CA"), "a Federal theorem satisfies any specific jurisdiction filter")
	assert.True(t, jurisdictionMatches("US-NY", "Federal"), "a Federal filter is satisfied by any jurisdiction")
	assert.True(t, jurisdictionMatches("US-CA", "US-CA"))
	assert.False(t, jurisdictionMatches("US-NY", "US-CA"))
	assert.True(t, jurisdictionMatches("US-NY", ""))
}

func TestDomainMatchesRelatedDomainsMap(t *testing.T) {
	related := map[string][]string{"securities": {"corporate_governance"}}
	assert.True(t, domainMatches("corporate_governance", "securities", related))
	assert.False(t, domainMatches("tax", "securities", related))
	assert.True(t, domainMatches("securities", "securities", related))
}
