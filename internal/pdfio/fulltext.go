// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfio

import (
	"container/list"
	"strings"
	"sync"
)

// DefaultFullTextCacheSize bounds the number of cached full-text loads.
const DefaultFullTextCacheSize = 128

// fulltextKey identifies one cached load. Different bounds for the same
// file are distinct entries.
type fulltextKey struct {
	path     string
	maxPages int
	maxChars int
}

type fulltextEntry struct {
	key  fulltextKey
	text string
}

// FullTextLoader extracts bounded document text with a fixed-capacity LRU
// cache, so repeated queries touching the same papers do not re-parse them.
// Safe for concurrent use.
type FullTextLoader struct {
	mu    sync.Mutex
	cap   int
	order *list.List // front = most recently used
	items map[fulltextKey]*list.Element

	// extract is swappable in tests.
	extract func(path string, maxPages, maxChars int) (string, error)
}

// NewFullTextLoader returns a loader with the given cache capacity.
// Non-positive capacity uses DefaultFullTextCacheSize.
func NewFullTextLoader(capacity int) *FullTextLoader {
	if capacity <= 0 {
		capacity = DefaultFullTextCacheSize
	}
	return &FullTextLoader{
		cap:     capacity,
		order:   list.New(),
		items:   make(map[fulltextKey]*list.Element),
		extract: extractFullText,
	}
}

// Load returns the document text at path, bounded to maxPages pages and
// maxChars characters (zero means unbounded). Page-level read failures are
// tolerated; only an unopenable document is an error. Successful loads are
// cached with least-recently-used eviction.
func (l *FullTextLoader) Load(path string, maxPages, maxChars int) (string, error) {
	key := fulltextKey{path: path, maxPages: maxPages, maxChars: maxChars}

	l.mu.Lock()
	if el, ok := l.items[key]; ok {
		l.order.MoveToFront(el)
		text := el.Value.(*fulltextEntry).text
		l.mu.Unlock()
		return text, nil
	}
	l.mu.Unlock()

	text, err := l.extract(path, maxPages, maxChars)
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if el, ok := l.items[key]; ok {
		// Concurrent loaders raced; the recomputation is idempotent.
		l.order.MoveToFront(el)
		return el.Value.(*fulltextEntry).text, nil
	}
	l.items[key] = l.order.PushFront(&fulltextEntry{key: key, text: text})
	for l.order.Len() > l.cap {
		oldest := l.order.Back()
		l.order.Remove(oldest)
		delete(l.items, oldest.Value.(*fulltextEntry).key)
	}
	return text, nil
}

// Len returns the number of cached entries.
func (l *FullTextLoader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}

func extractFullText(path string, maxPages, maxChars int) (string, error) {
	doc, err := Open(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	pages := doc.NumPages()
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}

	var parts []string
	total := 0
	for i := 1; i <= pages; i++ {
		txt := doc.PageText(i)
		if txt == "" {
			continue
		}
		parts = append(parts, txt)
		total += len(txt)
		if maxChars > 0 && total >= maxChars {
			break
		}
	}

	combined := strings.Join(parts, "\n")
	return truncateRunes(combined, maxChars), nil
}
