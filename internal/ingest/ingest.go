// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest walks a directory of PDFs, extracts metadata with a bounded
// worker pool, and merges the results into the persisted index. A single
// document's failure never aborts the batch.
package ingest

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/econsearch/internal/extract"
	"github.com/pdiddy/econsearch/internal/fts"
	"github.com/pdiddy/econsearch/internal/index"
	"github.com/pdiddy/econsearch/internal/pdfio"
	"github.com/pdiddy/econsearch/pkg/types"
)

// maxDefaultWorkers caps the default pool to avoid I/O contention.
const maxDefaultWorkers = 4

// Extractor produces a record for one PDF path. Implementations must be
// pure functions of the file so concurrent workers share no state.
type Extractor func(path string) (types.PaperRecord, error)

// ExtractPDF is the production extractor: bounded front-matter text plus
// embedded metadata through the heuristic field resolvers.
func ExtractPDF(path string) (types.PaperRecord, error) {
	preview, meta, err := pdfio.ReadFrontMatter(path)
	if err != nil {
		return types.PaperRecord{}, err
	}
	return extract.BuildRecord(path, preview, meta), nil
}

// Summary holds counts from one ingestion run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
}

// Total returns the number of candidate PDFs considered.
func (s Summary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

// HasFailures reports whether any documents failed extraction.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Run ingests cfg.PDFDir into cfg.IndexPath using extractor, writing
// progress lines to w. Already-indexed paths are skipped; new records are
// merged and the full index persisted sorted by title. When cfg.FTSPath is
// set, the keyword sidecar is rebuilt from the merged index after every
// run, including runs that found nothing new, so the sidecar never lags
// the index. The merged record set is returned alongside the summary.
func Run(cfg types.IngestConfig, extractor Extractor, w io.Writer) (Summary, []types.PaperRecord, error) {
	existing, err := index.LoadOrEmpty(cfg.IndexPath)
	if err != nil {
		return Summary{}, nil, err
	}

	candidates, err := DiscoverPDFs(cfg.PDFDir)
	if err != nil {
		return Summary{}, nil, err
	}

	fresh := index.SkipAlreadyIndexed(existing, candidates)
	summary := Summary{Skipped: len(candidates) - len(fresh)}

	if len(fresh) == 0 {
		fmt.Fprintln(w, "No new PDFs to process.")
		if err := rebuildSidecar(cfg.FTSPath, existing, w); err != nil {
			return summary, existing, err
		}
		return summary, existing, nil
	}

	records := extractAll(fresh, extractor, workerCount(cfg.Workers), w, &summary)

	merged := index.Merge(existing, records)
	if err := index.Save(cfg.IndexPath, merged); err != nil {
		return summary, nil, err
	}
	fmt.Fprintf(w, "\nprocessed: %d, skipped: %d, failed: %d\n",
		summary.Processed, summary.Skipped, summary.Failed)
	fmt.Fprintf(w, "wrote %d papers to %s\n", len(merged), cfg.IndexPath)

	if err := rebuildSidecar(cfg.FTSPath, merged, w); err != nil {
		return summary, merged, err
	}
	return summary, merged, nil
}

// rebuildSidecar refreshes the keyword sidecar at path from records. An
// empty path disables the sidecar.
func rebuildSidecar(path string, records []types.PaperRecord, w io.Writer) error {
	if path == "" {
		return nil
	}

	store, err := fts.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Rebuild(context.Background(), records); err != nil {
		return err
	}
	fmt.Fprintf(w, "rebuilt keyword index with %d papers: %s\n", len(records), path)
	return nil
}

// extractAll fans the paths out over a worker pool and collects results as
// they complete. No ordering guarantee is needed; Merge sorts afterwards.
func extractAll(paths []string, extractor Extractor, workers int, w io.Writer, summary *Summary) []types.PaperRecord {
	type outcome struct {
		path   string
		record types.PaperRecord
		err    error
	}

	jobs := make(chan string)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				rec, err := extractor(path)
				results <- outcome{path: path, record: rec, err: err}
			}
		}()
	}

	go func() {
		for _, p := range paths {
			jobs <- p
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var records []types.PaperRecord
	for out := range results {
		if out.err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", out.path, out.err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "processed %s\n", out.path)
		summary.Processed++
		records = append(records, out.record)
	}
	return records
}

// DiscoverPDFs returns all *.pdf paths under root, sorted.
func DiscoverPDFs(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning PDF directory %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func workerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	n := runtime.GOMAXPROCS(0)
	if n > maxDefaultWorkers {
		n = maxDefaultWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}
