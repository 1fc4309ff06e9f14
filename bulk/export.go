package bulk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/endomorphosis/deonticrag/deontic"
)

// ruleSetExport is the unified_rule_set.json shape: every formula
// extracted across the run, independent of which theorem it ended up
// attached to.
type ruleSetExport struct {
	RuleSetID  string            `json:"rule_set_id"`
	Formulas   []deontic.Formula `json:"formulas"`
	ExportDate time.Time         `json:"export_date"`
}

// ragStoreExport is the unified_rag_store.json shape.
type ragStoreExport struct {
	Theorems      map[string]deontic.Theorem `json:"theorems"`
	ExportDate    time.Time                  `json:"export_date"`
	TotalTheorems int                        `json:"total_theorems"`
}

// Export writes processing_stats.json and (when present)
// validation_report.json to cfg.OutputDir. The unified_rule_set.json
// and unified_rag_store.json artifacts are written by ExportStore.
func Export(cfg Config, result Result) error {
	if cfg.OutputDir == "" {
		return fmt.Errorf("bulk: export requires a non-empty OutputDir")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("bulk: creating output dir: %w", err)
	}

	if err := writeJSON(filepath.Join(cfg.OutputDir, "processing_stats.json"), result.Statistics); err != nil {
		return err
	}

	if result.ValidationReport != nil {
		if err := writeJSON(filepath.Join(cfg.OutputDir, "validation_report.json"), result.ValidationReport); err != nil {
			return err
		}
	}

	return nil
}

// ExportStore additionally serializes the store's current contents as
// unified_rule_set.json and unified_rag_store.json. Kept separate from
// Export since it needs the store's theorems rather than only a
// Result, and bulk callers without direct store access (e.g. replaying
// a persisted Result) only need the statistics/validation artifacts.
func ExportStore(cfg Config, theorems []deontic.Theorem, ruleSetID string) error {
	if cfg.OutputDir == "" {
		return fmt.Errorf("bulk: export requires a non-empty OutputDir")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("bulk: creating output dir: %w", err)
	}

	now := exportTimestamp()

	formulas := make([]deontic.Formula, len(theorems))
	theoremMap := make(map[string]deontic.Theorem, len(theorems))
	for i, th := range theorems {
		formulas[i] = th.Formula
		theoremMap[th.TheoremID()] = th
	}

	ruleSet := ruleSetExport{RuleSetID: ruleSetID, Formulas: formulas, ExportDate: now}
	if err := writeJSON(filepath.Join(cfg.OutputDir, "unified_rule_set.json"), ruleSet); err != nil {
		return err
	}

	store := ragStoreExport{Theorems: theoremMap, ExportDate: now, TotalTheorems: len(theoremMap)}
	return writeJSON(filepath.Join(cfg.OutputDir, "unified_rag_store.json"), store)
}

// exportTimestamp is a seam so a future persisted-replay path can
// inject a fixed clock; today it's just time.Now().
func exportTimestamp() time.Time { return time.Now() }

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("bulk: marshaling %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}
