// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists the extracted paper records as a JSON file sorted
// by title. The index behaves as an append-only cache keyed by PDF path:
// records already present are never re-processed or overwritten.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdiddy/econsearch/pkg/types"
)

// ErrMissing reports that no index file exists yet. For search this is an
// actionable condition ("run ingest first"); for ingestion it means start
// fresh.
var ErrMissing = errors.New("paper index not found")

// ErrCorrupt reports an index file that exists but cannot be parsed. It is
// surfaced rather than silently treated as empty, so real data loss is not
// masked behind an empty search corpus.
var ErrCorrupt = errors.New("paper index is corrupt")

// Load reads all records from the index file at path.
func Load(path string) ([]types.PaperRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s: run ingest first", ErrMissing, path)
		}
		return nil, fmt.Errorf("reading index %s: %w", path, err)
	}

	var records []types.PaperRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w at %s: %v", ErrCorrupt, path, err)
	}
	return records, nil
}

// LoadOrEmpty reads the index for ingestion: a missing file is a normal
// empty starting state. A corrupt file remains an error so ingestion never
// clobbers an index it cannot read.
func LoadOrEmpty(path string) ([]types.PaperRecord, error) {
	records, err := Load(path)
	if errors.Is(err, ErrMissing) {
		return nil, nil
	}
	return records, err
}

// Merge combines newly extracted records into the existing set. Existing
// paths always win; new records fill only absent paths. The result is
// sorted by raw title ascending (byte order, so uppercase sorts before
// lowercase), keeping re-persistence byte-identical run over run.
func Merge(existing, fresh []types.PaperRecord) []types.PaperRecord {
	byPath := make(map[string]bool, len(existing))
	merged := make([]types.PaperRecord, 0, len(existing)+len(fresh))
	for _, r := range existing {
		byPath[r.PDFPath] = true
		merged = append(merged, r)
	}
	for _, r := range fresh {
		if byPath[r.PDFPath] {
			continue
		}
		byPath[r.PDFPath] = true
		merged = append(merged, r)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Title < merged[j].Title
	})
	return merged
}

// Save writes the full record collection to path, creating parent
// directories as needed.
func Save(path string, records []types.PaperRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating index directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing index %s: %w", path, err)
	}
	return nil
}

// SkipAlreadyIndexed filters candidate PDF paths down to those not yet
// present in the records. This is the sole incremental-ingestion mechanism.
func SkipAlreadyIndexed(records []types.PaperRecord, candidates []string) []string {
	indexed := make(map[string]bool, len(records))
	for _, r := range records {
		indexed[r.PDFPath] = true
	}
	var fresh []string
	for _, p := range candidates {
		if !indexed[p] {
			fresh = append(fresh, p)
		}
	}
	return fresh
}
