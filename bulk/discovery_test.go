package bulk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestJurisdictionFromPath(t *testing.T) {
	assert.Equal(t, "Federal", jurisdictionFromPath("/corpus/federal/2019_smith.txt"))
	assert.Equal(t, "Federal", jurisdictionFromPath("/corpus/supreme-court/roe.txt"))
	assert.Equal(t, "State", jurisdictionFromPath("/corpus/california/2020_doe.txt"))
	assert.Equal(t, "Unknown", jurisdictionFromPath("/corpus/misc/case.txt"))
}

func TestYearFromPath(t *testing.T) {
	assert.Equal(t, 2019, yearFromPath("/corpus/2019_smith_v_jones.txt"))
	assert.Equal(t, 0, yearFromPath("/corpus/no_year_here.txt"))
}

func TestDiscoverDocumentsReadsTxtAndJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2020_federal_smith.txt", "The contractor must deliver the goods on time.")
	writeFile(t, dir, "doe.json", `{"id":"doe-1","text":"The tenant may sublease.","jurisdiction":"US-CA","legal_domains":["housing"],"precedent_strength":0.8,"date":"2021-05-01T00:00:00Z","citation":"Doe v. Roe"}`)
	writeFile(t, dir, "ignored.md", "not recognized")

	docs, err := DiscoverDocuments(Config{Directories: []string{dir}}, nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	var jsonDoc, txtDoc Document
	for _, d := range docs {
		if d.ID == "doe-1" {
			jsonDoc = d
		} else {
			txtDoc = d
		}
	}

	assert.Equal(t, "US-CA", jsonDoc.Jurisdiction)
	assert.Equal(t, "housing", jsonDoc.LegalDomain)
	assert.Equal(t, "Doe v. Roe", jsonDoc.SourceCase)
	assert.InDelta(t, 0.8, jsonDoc.PrecedentStrength, 1e-9)
	assert.Equal(t, 2021, jsonDoc.Date.Year())

	assert.Equal(t, "Federal", txtDoc.Jurisdiction)
	assert.Equal(t, 2020, txtDoc.Date.Year())
	assert.Contains(t, txtDoc.Text, "contractor")
}

func TestExtractXMLText(t *testing.T) {
	xml := `<case><title>Smith v. Jones</title><body>The party shall comply.</body></case>`
	text := extractXMLText([]byte(xml))
	assert.Contains(t, text, "Smith v. Jones")
	assert.Contains(t, text, "The party shall comply.")
}
