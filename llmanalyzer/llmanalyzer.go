// Package llmanalyzer defines the LLM Analyzer collaborator: an
// optional, typically network-bound component that extracts deontic
// propositions from free text with more nuance than pattern matching.
// Every caller-facing operation also ships a deterministic fallback
// (PatternExtractor) so the Document Consistency Checker and Bulk
// Processor never depend on a live analyzer being present.
package llmanalyzer

import (
	"context"
	"regexp"
	"strings"

	"github.com/endomorphosis/deonticrag/deontic"
	"github.com/endomorphosis/deonticrag/xerrors"
)

// Proposition is one deontic claim lifted out of a document sentence,
// not yet assembled into a full Formula (that is the caller's job,
// once an Agent and any temporal scope are attached).
type Proposition struct {
	Operator   deontic.Operator
	Text       string
	AgentID    string
	AgentKind  deontic.AgentKind
	Confidence float64
	SourceText string
}

// AnalysisResult is the outcome of analyzing one whole document.
type AnalysisResult struct {
	Propositions []Proposition
}

// Analyzer extracts deontic content from document text. Both methods
// MUST be safe to call with no propositions found (empty slice, nil
// error) — extraction finding nothing is not itself a failure.
type Analyzer interface {
	AnalyzeDocument(ctx context.Context, text string) (AnalysisResult, error)
	ExtractDeonticPropositions(ctx context.Context, text string) ([]Proposition, error)
}

// marker is one phrase that signals a deontic operator, scanned
// longest-first within its operator class so multi-word markers (e.g.
// "required to") are not shadowed by a shorter prefix.
type marker struct {
	phrase     string
	confidence float64
}

// Prohibition markers are matched before obligation/permission markers
// in every sentence, so that "shall not" is never
// misclassified as an Obligation via its "shall" substring.
var prohibitionMarkers = []marker{
	{"must not", 0.8}, {"shall not", 0.8}, {"may not", 0.8},
	{"prohibited from", 0.8}, {"forbidden to", 0.8}, {"barred from", 0.8},
	{"cannot", 0.8},
}

var obligationMarkers = []marker{
	{"required to", 0.8}, {"obligated to", 0.8}, {"duty to", 0.8},
	{"must", 0.8}, {"shall", 0.8},
}

var permissionMarkers = []marker{
	{"has the right to", 0.7}, {"permitted to", 0.7}, {"allowed to", 0.7},
	{"authorized to", 0.7}, {"may", 0.7}, {"can", 0.7},
}

// legalRoles is the lexicon PatternExtractor searches backward through
// a sentence for when inferring the acting agent. Order does not
// matter; lookup is by membership.
var legalRoles = map[string]deontic.AgentKind{
	"contractor": deontic.AgentRole,
	"client":     deontic.AgentRole,
	"party":      deontic.AgentRole,
	"employee":   deontic.AgentRole,
	"employer":   deontic.AgentOrganization,
	"defendant":  deontic.AgentRole,
	"plaintiff":  deontic.AgentRole,
	"court":      deontic.AgentGovernment,
	"company":    deontic.AgentOrganization,
	"government": deontic.AgentGovernment,
	"consultant": deontic.AgentRole,
	"tenant":     deontic.AgentRole,
	"landlord":   deontic.AgentRole,
	"buyer":      deontic.AgentRole,
	"seller":     deontic.AgentRole,
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "on": true, "for": true, "is": true, "are": true,
	"it": true, "this": true, "that": true, "with": true, "by": true,
}

var sentenceSplitter = regexp.MustCompile(`(?:[.!?]+)(?:\s+|$)`)

// splitSentences breaks text into non-empty, trimmed sentences.
func splitSentences(text string) []string {
	parts := sentenceSplitter.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// PatternExtractor is the deterministic fallback Analyzer. It never
// errors on well-formed input and never consults any external
// service.
type PatternExtractor struct{}

// NewPatternExtractor constructs the deterministic fallback analyzer.
func NewPatternExtractor() *PatternExtractor { return &PatternExtractor{} }

func (p *PatternExtractor) AnalyzeDocument(ctx context.Context, text string) (AnalysisResult, error) {
	props, err := p.ExtractDeonticPropositions(ctx, text)
	if err != nil {
		return AnalysisResult{}, err
	}
	return AnalysisResult{Propositions: props}, nil
}

func (p *PatternExtractor) ExtractDeonticPropositions(ctx context.Context, text string) ([]Proposition, error) {
	if err := ctx.Err(); err != nil {
		return nil, xerrors.Timeout
	}

	var out []Proposition
	for _, sentence := range splitSentences(text) {
		prop, ok := extractFromSentence(sentence)
		if !ok {
			continue
		}
		out = append(out, prop)
	}
	return out, nil
}

// extractFromSentence runs the ordered marker scan — prohibition
// first — and returns at most one proposition per sentence, matching
// the original's "first marker wins" behavior for a single clause.
func extractFromSentence(sentence string) (Proposition, bool) {
	lower := strings.ToLower(sentence)

	for _, set := range []struct {
		op      deontic.Operator
		markers []marker
	}{
		{deontic.Prohibition, prohibitionMarkers},
		{deontic.Obligation, obligationMarkers},
		{deontic.Permission, permissionMarkers},
	} {
		if m, idx, found := firstMarker(lower, set.markers); found {
			return buildProposition(sentence, lower, set.op, m, idx)
		}
	}
	return Proposition{}, false
}

// firstMarker finds the marker phrase that occurs earliest in lower;
// ties are broken by longest phrase so multi-word markers win over
// shorter ones that happen to also match at the same position.
func firstMarker(lower string, markers []marker) (marker, int, bool) {
	bestIdx := -1
	var best marker
	for _, m := range markers {
		idx := strings.Index(lower, m.phrase)
		if idx < 0 {
			continue
		}
		if bestIdx == -1 || idx < bestIdx || (idx == bestIdx && len(m.phrase) > len(best.phrase)) {
			bestIdx = idx
			best = m
		}
	}
	return best, bestIdx, bestIdx >= 0
}

func buildProposition(sentence, lower string, op deontic.Operator, m marker, idx int) (Proposition, bool) {
	after := sentence[idx+len(m.phrase):]
	propText := normalizeProposition(after)
	if !passesFilters(propText) {
		return Proposition{}, false
	}

	before := sentence[:idx]
	agentID, agentKind := inferAgent(before)

	return Proposition{
		Operator:   op,
		Text:       propText,
		AgentID:    agentID,
		AgentKind:  agentKind,
		Confidence: m.confidence,
		SourceText: strings.TrimSpace(sentence),
	}, true
}

func normalizeProposition(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".,;: ")
	return strings.ToLower(s)
}

func passesFilters(propText string) bool {
	if len(propText) < 10 {
		return false
	}
	tokens := deontic.Tokenize(propText)
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !stopWords[tok] {
			return true
		}
	}
	return false
}

// inferAgent scans before, word by word from the end, for the nearest
// legal-role term; falls back to a generic "party" agent when none is
// found.
func inferAgent(before string) (string, deontic.AgentKind) {
	words := deontic.Tokenize(before)
	for i := len(words) - 1; i >= 0; i-- {
		word := strings.TrimSuffix(words[i], "s")
		if kind, ok := legalRoles[word]; ok {
			return words[i], kind
		}
		if kind, ok := legalRoles[words[i]]; ok {
			return words[i], kind
		}
	}
	return "party", deontic.AgentRole
}
