package checker

import (
	"fmt"

	"github.com/endomorphosis/deonticrag/ragstore"
)

// IssueCategory classifies one line item in a DebugReport.
type IssueCategory string

const (
	CategoryLogicalConflict         IssueCategory = "logical_conflict"
	CategoryTemporalConflict        IssueCategory = "temporal_conflict"
	CategoryLowConfidenceExtraction IssueCategory = "low_confidence_extraction"
	CategoryMissingPrecedent        IssueCategory = "missing_precedent"
	CategoryGeneral                 IssueCategory = "general"
)

// lowConfidenceThreshold is the extraction-confidence floor below
// which a formula earns its own low_confidence_extraction issue.
const lowConfidenceThreshold = 0.75

// Issue is a single finding surfaced by GenerateDebugReport. Details
// carries whatever structured data backs Message, so a caller can act
// on an issue programmatically instead of re-parsing its text.
type Issue struct {
	Severity   ragstore.Severity
	Category   IssueCategory
	Message    string
	Suggestion string
	Details    map[string]any
}

// DebugReport partitions a DocumentAnalysis into a compiler-style
// listing: critical_errors and warnings block a clean bill of health,
// suggestions do not. Issues is the same findings in discovery order,
// flattened across all three severity buckets, for a caller that wants
// the full list without walking each bucket itself.
type DebugReport struct {
	CriticalErrors []Issue
	Warnings       []Issue
	Suggestions    []Issue
	FixSuggestions []string
	TotalIssues    int
	Issues         []Issue
	Summary        string
}

// GenerateDebugReport renders a DocumentAnalysis into a structured,
// severity-partitioned report suitable for direct display.
func (c *Checker) GenerateDebugReport(analysis DocumentAnalysis) DebugReport {
	var report DebugReport

	for _, conflict := range analysis.Consistency.Conflicts {
		issue := Issue{
			Severity: conflict.Severity,
			Category: CategoryLogicalConflict,
			Message: fmt.Sprintf("%s: document asserts %s but precedent %s establishes %s",
				conflict.Kind, conflict.DocumentFormula.Operator, conflict.Theorem.SourceCase,
				conflict.Theorem.Formula.Operator),
			Suggestion: fixSuggestionFor(conflict),
			Details: map[string]any{
				"kind":                 conflict.Kind,
				"document_operator":    conflict.DocumentFormula.Operator,
				"precedent_case":       conflict.Theorem.SourceCase,
				"precedent_operator":   conflict.Theorem.Formula.Operator,
				"precedent_theorem_id": conflict.Theorem.TheoremID(),
			},
		}
		addIssue(&report, issue)
		report.FixSuggestions = append(report.FixSuggestions, issue.Suggestion)
	}

	for _, conflict := range analysis.Consistency.TemporalConflicts {
		issue := Issue{
			Severity: conflict.Severity,
			Category: CategoryTemporalConflict,
			Message: fmt.Sprintf("clause matches precedent %s outside its active window",
				conflict.Theorem.SourceCase),
			Suggestion: "confirm the clause is meant to apply outside the precedent's temporal scope, or update its effective dates",
			Details: map[string]any{
				"kind":                 conflict.Kind,
				"precedent_case":       conflict.Theorem.SourceCase,
				"precedent_theorem_id": conflict.Theorem.TheoremID(),
				"scope_start":          conflict.Theorem.TemporalScope.Start,
				"scope_end":            conflict.Theorem.TemporalScope.End,
			},
		}
		addIssue(&report, issue)
		report.FixSuggestions = append(report.FixSuggestions, issue.Suggestion)
	}

	for _, f := range analysis.ExtractedFormulas {
		if f.Confidence >= lowConfidenceThreshold {
			continue
		}
		issue := Issue{
			Severity:   ragstore.SeverityLow,
			Category:   CategoryLowConfidenceExtraction,
			Message:    fmt.Sprintf("extracted formula %q has low extraction confidence (%.2f)", f.Proposition, f.Confidence),
			Suggestion: "review the source clause manually; automatic extraction was not confident",
			Details: map[string]any{
				"proposition": f.Proposition,
				"operator":    f.Operator,
				"confidence":  f.Confidence,
			},
		}
		addIssue(&report, issue)
	}

	if analysis.CorpusWasEmpty {
		issue := Issue{
			Severity:   ragstore.SeverityLow,
			Category:   CategoryMissingPrecedent,
			Message:    "corpus empty; cannot validate against precedent",
			Suggestion: "ingest precedent theorems before relying on consistency results",
			Details: map[string]any{
				"corpus_empty": true,
			},
		}
		addIssue(&report, issue)
	}

	report.Summary = buildSummary(analysis, report)
	return report
}

func addIssue(report *DebugReport, issue Issue) {
	switch issue.Severity {
	case ragstore.SeverityCritical, ragstore.SeverityHigh:
		report.CriticalErrors = append(report.CriticalErrors, issue)
	case ragstore.SeverityMedium:
		report.Warnings = append(report.Warnings, issue)
	default:
		report.Suggestions = append(report.Suggestions, issue)
	}
	report.Issues = append(report.Issues, issue)
	report.TotalIssues++
}

func fixSuggestionFor(conflict ragstore.Conflict) string {
	switch conflict.Kind {
	case ragstore.DirectContradiction:
		return fmt.Sprintf("reconcile this clause with the obligation/prohibition established in %s before publishing", conflict.Theorem.SourceCase)
	case ragstore.ExplicitConflict:
		return fmt.Sprintf("narrow the permission or carve out the agent bound by %s", conflict.Theorem.SourceCase)
	case ragstore.PermissionProhibitionBroad:
		return fmt.Sprintf("scope the permission to exclude the conduct prohibited in %s", conflict.Theorem.SourceCase)
	case ragstore.ScopeTension:
		return "clarify whether this clause negates or extends the matching precedent obligation"
	default:
		return "review this clause against the cited precedent"
	}
}

func buildSummary(analysis DocumentAnalysis, report DebugReport) string {
	total := len(report.CriticalErrors) + len(report.Warnings) + len(report.Suggestions)
	verdict := "PASS"
	switch {
	case len(report.CriticalErrors) > 0:
		verdict = "FAIL"
	case len(report.Warnings) > 0:
		verdict = "PASS with warnings"
	}
	return fmt.Sprintf("document %s: %s — %d issue(s) (%d critical, %d warnings, %d suggestions), confidence %.2f",
		analysis.DocumentID, verdict, total, len(report.CriticalErrors), len(report.Warnings), len(report.Suggestions), analysis.ConfidenceScore)
}
