// Command deonticrag is a thin CLI over the three library entry
// points: build a RAG Store, bulk-ingest a directory set into it, and
// check a single document against it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/endomorphosis/deonticrag/bulk"
	"github.com/endomorphosis/deonticrag/checker"
	"github.com/endomorphosis/deonticrag/config"
	"github.com/endomorphosis/deonticrag/deontic"
	"github.com/endomorphosis/deonticrag/embedprovider"
	"github.com/endomorphosis/deonticrag/ragstore"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "ingest":
		runIngest(os.Args[2:])
	case "check":
		runCheck(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: deonticrag <ingest|check> [flags]")
}

func runIngest(args []string) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML run configuration")
	fs.Parse(args)

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "ingest: -config is required")
		os.Exit(2)
	}

	app, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ingest:", err)
		os.Exit(1)
	}

	storeCfg := ragstore.Config{RelatedDomains: app.Bulk.RelatedDomains}
	if app.EmbeddingDimension > 0 {
		storeCfg.EmbeddingDimension = app.EmbeddingDimension
		storeCfg.Provider = embedprovider.NewDeterministic(app.EmbeddingDimension)
	}
	store := ragstore.New(storeCfg)
	processor := bulk.NewProcessor(store)

	result, err := processor.Run(context.Background(), app.Bulk)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ingest:", err)
		os.Exit(1)
	}

	fmt.Printf("run %s: %d/%d documents processed, %d theorems extracted, %d errors (%.1f%% success)\n",
		result.RunID, result.Statistics.ProcessedDocuments, result.Statistics.TotalDocuments,
		result.Statistics.ExtractedTheorems, result.Statistics.ProcessingErrors, result.Statistics.SuccessRate*100)
}

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	docPath := fs.String("file", "", "path to the document text to check")
	storePath := fs.String("store", "", "path to a previously exported unified_rag_store.json")
	jurisdiction := fs.String("jurisdiction", "", "jurisdiction filter")
	legalDomain := fs.String("legal-domain", "", "legal domain filter")
	fs.Parse(args)

	if *docPath == "" {
		fmt.Fprintln(os.Stderr, "check: -file is required")
		os.Exit(2)
	}

	text, err := os.ReadFile(*docPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "check:", err)
		os.Exit(1)
	}

	store := ragstore.New(ragstore.Config{})
	if *storePath != "" {
		if err := loadExportedStore(store, *storePath); err != nil {
			fmt.Fprintln(os.Stderr, "check:", err)
			os.Exit(1)
		}
	}

	c := checker.New(store)
	analysis := c.CheckDocument(context.Background(), string(text), *docPath, time.Now(), *jurisdiction, *legalDomain)
	report := c.GenerateDebugReport(analysis)

	fmt.Println(report.Summary)
	for _, issue := range report.CriticalErrors {
		fmt.Printf("  [critical] %s -- %s\n", issue.Message, issue.Suggestion)
	}
	for _, issue := range report.Warnings {
		fmt.Printf("  [warning]  %s -- %s\n", issue.Message, issue.Suggestion)
	}
	for _, issue := range report.Suggestions {
		fmt.Printf("  [note]     %s -- %s\n", issue.Message, issue.Suggestion)
	}
}

type exportedStore struct {
	Theorems map[string]deontic.Theorem `json:"theorems"`
}

func loadExportedStore(store *ragstore.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var exported exportedStore
	if err := json.Unmarshal(data, &exported); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, th := range exported.Theorems {
		_, err := store.AddTheorem(context.Background(), th.Formula, th.TemporalScope,
			th.Jurisdiction, th.LegalDomain, th.SourceCase, th.PrecedentStrength)
		if err != nil {
			return fmt.Errorf("re-inserting theorem: %w", err)
		}
	}
	return nil
}
