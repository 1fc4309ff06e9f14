package bulk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterDocumentsAppliesAllCriteria(t *testing.T) {
	old := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	docs := []Document{
		{ID: "a", Text: "short", Date: recent, Jurisdiction: "US", LegalDomain: "tax", PrecedentStrength: 0.9},
		{ID: "b", Text: "a sufficiently long document body", Date: old, Jurisdiction: "US", LegalDomain: "tax", PrecedentStrength: 0.9},
		{ID: "c", Text: "a sufficiently long document body", Date: recent, Jurisdiction: "Mars", LegalDomain: "tax", PrecedentStrength: 0.9},
		{ID: "d", Text: "a sufficiently long document body", Date: recent, Jurisdiction: "US", LegalDomain: "space_law", PrecedentStrength: 0.9},
		{ID: "e", Text: "a sufficiently long document body", Date: recent, Jurisdiction: "US", LegalDomain: "tax", PrecedentStrength: 0.1},
		{ID: "f", Text: "a sufficiently long document body", Date: recent, Jurisdiction: "US", LegalDomain: "tax", PrecedentStrength: 0.9},
	}

	from := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{
		MinLength:            10,
		DateFrom:             &from,
		Jurisdictions:        []string{"US"},
		LegalDomains:         []string{"tax"},
		MinPrecedentStrength: 0.5,
	}

	out := FilterDocuments(docs, cfg)
	assert.Len(t, out, 1)
	assert.Equal(t, "f", out[0].ID)
}
