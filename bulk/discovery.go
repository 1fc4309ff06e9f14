package bulk

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/endomorphosis/deonticrag/pkg/resultx"
)

// recognizedExtensions is the Discovery phase's file whitelist.
var recognizedExtensions = map[string]bool{
	".txt": true, ".json": true, ".xml": true, ".pdf": true,
}

// Document is one caselaw file after Discovery, carrying whatever
// metadata could be recovered from its content or its path.
type Document struct {
	ID                string
	Path              string
	Text              string
	Date              time.Time
	Jurisdiction      string
	LegalDomain       string
	SourceCase        string
	PrecedentStrength float64
	ContentHash       string
}

var yearPattern = regexp.MustCompile(`\d{4}`)

var stateNames = map[string]bool{
	"alabama": true, "alaska": true, "arizona": true, "arkansas": true, "california": true,
	"colorado": true, "connecticut": true, "delaware": true, "florida": true, "georgia": true,
	"illinois": true, "indiana": true, "massachusetts": true, "michigan": true, "new york": true,
	"ohio": true, "pennsylvania": true, "texas": true, "virginia": true, "washington": true,
}

// jurisdictionFromPath applies the filename/path heuristics: "federal"
// or "supreme" anywhere in the path wins outright; otherwise a known
// state name anywhere in the path yields "State"; otherwise "Unknown".
func jurisdictionFromPath(path string) string {
	lower := strings.ToLower(path)
	if strings.Contains(lower, "federal") || strings.Contains(lower, "supreme") {
		return "Federal"
	}
	for name := range stateNames {
		if strings.Contains(lower, name) {
			return "State"
		}
	}
	return "Unknown"
}

// yearFromPath returns the first 4-digit run found in path's file name,
// or zero if none is present.
func yearFromPath(path string) int {
	m := yearPattern.FindString(filepath.Base(path))
	if m == "" {
		return 0
	}
	var year int
	fmt.Sscanf(m, "%d", &year)
	return year
}

// DiscoverDocuments walks every configured directory, loading every
// file whose extension is on the recognized whitelist. A file that
// cannot be read or parsed is logged and skipped; Discovery itself
// never aborts on a single bad file.
func DiscoverDocuments(cfg Config, logger *slog.Logger) ([]Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var docs []Document
	for _, dir := range cfg.Directories {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("discovery: walk error", slog.String("path", path), slog.Any("err", err))
				return nil
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if !recognizedExtensions[ext] {
				return nil
			}

			outcome := resultx.Of(loadDocument(path, ext))
			if !outcome.IsOk() {
				logger.Warn("discovery: failed to load document", slog.String("path", path), slog.Any("err", outcome.Error()))
				return nil
			}
			docs = append(docs, outcome.Value())
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("bulk: walking %q: %w", dir, err)
		}
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].Date.Equal(docs[j].Date) {
			return docs[i].Date.Before(docs[j].Date)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// jsonDocument mirrors the loose JSON shape a caselaw export might
// use: most fields are optional and some accept more than one
// representation.
type jsonDocument struct {
	ID                interface{}            `json:"id"`
	Title             string                 `json:"title"`
	Text              string                 `json:"text"`
	Content           string                 `json:"content"`
	Date              interface{}            `json:"date"`
	Jurisdiction      string                 `json:"jurisdiction"`
	Court             string                 `json:"court"`
	Citation          string                 `json:"citation"`
	LegalDomains      []string               `json:"legal_domains"`
	PrecedentStrength interface{}            `json:"precedent_strength"`
	Metadata          map[string]interface{} `json:"metadata"`
}

func loadDocument(path, ext string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		Path:              path,
		ID:                filepath.Base(path),
		PrecedentStrength: 0.5,
		Jurisdiction:      jurisdictionFromPath(path),
		LegalDomain:       "general",
	}
	if year := yearFromPath(path); year != 0 {
		doc.Date = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	switch ext {
	case ".json":
		var jd jsonDocument
		if err := json.Unmarshal(raw, &jd); err != nil {
			return Document{}, fmt.Errorf("parsing json metadata: %w", err)
		}
		applyJSONMetadata(&doc, jd)
	case ".xml":
		doc.Text = extractXMLText(raw)
	default: // .txt, .pdf: best-effort raw text
		doc.Text = string(raw)
	}

	if doc.SourceCase == "" {
		doc.SourceCase = doc.ID
	}
	return doc, nil
}

func applyJSONMetadata(doc *Document, jd jsonDocument) {
	if id := cast.ToString(jd.ID); id != "" {
		doc.ID = id
	}
	if jd.Text != "" {
		doc.Text = jd.Text
	} else if jd.Content != "" {
		doc.Text = jd.Content
	}
	if jd.Jurisdiction != "" {
		doc.Jurisdiction = jd.Jurisdiction
	} else if jd.Court != "" {
		doc.Jurisdiction = jd.Court
	}
	if len(jd.LegalDomains) > 0 {
		doc.LegalDomain = jd.LegalDomains[0]
	}
	if jd.Citation != "" {
		doc.SourceCase = jd.Citation
	} else if jd.Title != "" {
		doc.SourceCase = jd.Title
	}
	if jd.PrecedentStrength != nil {
		doc.PrecedentStrength = cast.ToFloat64(jd.PrecedentStrength)
	}
	if jd.Date != nil {
		if t, err := cast.ToTimeE(jd.Date); err == nil && !t.IsZero() {
			doc.Date = t
		}
	}
}

// extractXMLText reduces an XML document to its character data,
// concatenating every text node in document order and discarding
// markup. Malformed XML simply yields whatever was decoded before the
// parse error.
func extractXMLText(raw []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var b strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}
