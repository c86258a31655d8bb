// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine ranks indexed papers against free-text queries using
// term-weighted vectors and cosine similarity.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pdiddy/econsearch/internal/index"
	"github.com/pdiddy/econsearch/pkg/types"
)

// ErrIndexEmpty reports an index with zero records: vector-space
// construction is undefined over an empty corpus.
var ErrIndexEmpty = errors.New("paper index is empty: ingest PDFs before searching")

// vectorStore pairs the record list with its fitted vectorizer and the
// index-aligned document vectors. A store is immutable once built; Reload
// swaps in a complete replacement.
type vectorStore struct {
	records []types.PaperRecord
	vec     *vectorizer
	rows    []map[int]float64
}

// Engine answers ranked-similarity queries over the persisted index. An
// Engine is constructed explicitly and passed to its callers; reloads swap
// the whole store under a write lock, so queries never observe a
// half-rebuilt state. Queries may run concurrently.
type Engine struct {
	indexPath string

	mu    sync.RWMutex
	store *vectorStore
}

// New loads the index at indexPath and builds the vector store. It fails
// with index.ErrMissing when no index exists, index.ErrCorrupt when it
// cannot be parsed, and ErrIndexEmpty when it holds no records.
func New(indexPath string) (*Engine, error) {
	e := &Engine{indexPath: indexPath}
	if err := e.Reload(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload re-reads the backing index and rebuilds the vector store
// atomically from the caller's perspective.
func (e *Engine) Reload() error {
	records, err := index.Load(e.indexPath)
	if err != nil {
		return err
	}
	store, err := buildStore(records)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.store = store
	e.mu.Unlock()
	return nil
}

func buildStore(records []types.PaperRecord) (*vectorStore, error) {
	if len(records) == 0 {
		return nil, ErrIndexEmpty
	}

	corpus := make([]string, len(records))
	for i, r := range records {
		corpus[i] = r.SearchText()
	}

	vec := fitVectorizer(corpus, MaxVocabulary)
	rows := make([]map[int]float64, len(corpus))
	for i, doc := range corpus {
		rows[i] = vec.transform(doc)
	}

	return &vectorStore{records: records, vec: vec, rows: rows}, nil
}

// Search returns the topK records most similar to query, ordered by
// descending cosine score with ties kept in index order. topK <= 0 ranks
// the entire corpus. An empty query returns an empty result list.
func (e *Engine) Search(query string, topK int) []types.SearchResult {
	if query == "" {
		return []types.SearchResult{}
	}

	e.mu.RLock()
	store := e.store
	e.mu.RUnlock()

	qv := store.vec.transform(query)

	order := make([]int, len(store.rows))
	sims := make([]float64, len(store.rows))
	for i, row := range store.rows {
		order[i] = i
		sims[i] = dot(qv, row)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sims[order[a]] > sims[order[b]]
	})

	if topK <= 0 || topK > len(order) {
		topK = len(order)
	}

	results := make([]types.SearchResult, 0, topK)
	for _, i := range order[:topK] {
		results = append(results, types.SearchResult{
			PaperRecord: store.records[i],
			Score:       sims[i],
		})
	}
	return results
}

// Records returns the records the current store was built from.
func (e *Engine) Records() []types.PaperRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.records
}

// Len returns the number of indexed records.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.store.records)
}

// IndexPath returns the path of the backing index file.
func (e *Engine) IndexPath() string {
	return e.indexPath
}

// String describes the engine for logs.
func (e *Engine) String() string {
	return fmt.Sprintf("engine(%s, %d records)", e.indexPath, e.Len())
}
