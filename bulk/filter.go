package bulk

import "github.com/samber/lo"

// FilterDocuments drops documents failing any configured filter:
// minimum length, date range, jurisdiction allowlist, legal-domain
// allowlist, minimum precedent strength.
func FilterDocuments(docs []Document, cfg Config) []Document {
	return lo.Filter(docs, func(doc Document, _ int) bool {
		return passesFilters(doc, cfg)
	})
}

func passesFilters(doc Document, cfg Config) bool {
	if cfg.MinLength > 0 && len(doc.Text) < cfg.MinLength {
		return false
	}
	if cfg.DateFrom != nil && doc.Date.Before(*cfg.DateFrom) {
		return false
	}
	if cfg.DateTo != nil && doc.Date.After(*cfg.DateTo) {
		return false
	}
	if len(cfg.Jurisdictions) > 0 && !lo.Contains(cfg.Jurisdictions, doc.Jurisdiction) {
		return false
	}
	if len(cfg.LegalDomains) > 0 && !lo.Contains(cfg.LegalDomains, doc.LegalDomain) {
		return false
	}
	if doc.PrecedentStrength < cfg.MinPrecedentStrength {
		return false
	}
	return true
}
