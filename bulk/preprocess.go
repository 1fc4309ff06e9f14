package bulk

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// PreprocessDocuments stably re-sorts by (date, id) — filtering may
// have reordered nothing, but this keeps the guarantee independent of
// how Discovery produced its slice — then, if enabled, drops later
// duplicates by content hash.
func PreprocessDocuments(docs []Document, cfg Config) []Document {
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].Date.Equal(docs[j].Date) {
			return docs[i].Date.Before(docs[j].Date)
		}
		return docs[i].ID < docs[j].ID
	})

	for i := range docs {
		docs[i].ContentHash = contentHash(docs[i].Text)
	}

	if !cfg.DeduplicateContent {
		return docs
	}

	seen := make(map[string]bool, len(docs))
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if seen[doc.ContentHash] {
			continue
		}
		seen[doc.ContentHash] = true
		out = append(out, doc)
	}
	return out
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
