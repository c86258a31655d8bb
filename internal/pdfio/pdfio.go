// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfio reads page text and embedded metadata from PDF files. All
// extraction is best-effort: a page that cannot be decoded contributes an
// empty string, and only a document that cannot be opened at all is an error.
package pdfio

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// PreviewMaxPages bounds the front-matter extraction used by the
	// metadata heuristics.
	PreviewMaxPages = 4

	// PreviewMaxChars bounds the preview character budget.
	PreviewMaxChars = 5000
)

// metadataKeys are the Info-dictionary entries surfaced to extraction.
var metadataKeys = []string{
	"Title", "Author", "Subject", "Keywords", "Journal",
	"CreationDate", "ModDate", "Creator", "Producer",
}

// Document is an open PDF file.
type Document struct {
	f *os.File
	r *pdf.Reader
}

// Open opens a PDF for reading. The caller must Close it.
func Open(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	return &Document{f: f, r: r}, nil
}

// Close releases the underlying file.
func (d *Document) Close() error {
	return d.f.Close()
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.r.NumPage()
}

// PageText extracts the plain text of page n (1-based). Extraction failures,
// including parser panics on malformed content streams, yield an empty string.
func (d *Document) PageText(n int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := d.r.Page(n)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// Metadata returns the embedded Info-dictionary fields as a map with
// lower-cased keys. Absent or non-string entries are omitted.
func (d *Document) Metadata() (meta map[string]string) {
	defer func() {
		if recover() != nil {
			meta = map[string]string{}
		}
	}()

	meta = make(map[string]string)
	info := d.r.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}
	for _, key := range metadataKeys {
		v := info.Key(key)
		if v.IsNull() {
			continue
		}
		if s := strings.TrimSpace(v.RawString()); s != "" {
			meta[strings.ToLower(key)] = s
		}
	}
	return meta
}

// Preview extracts up to maxPages of text, stopping once maxChars have
// accumulated, and truncates the joined result to maxChars.
func (d *Document) Preview(maxPages, maxChars int) string {
	var parts []string
	total := 0
	pages := d.NumPages()
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}
	for i := 1; i <= pages; i++ {
		txt := d.PageText(i)
		if txt != "" {
			parts = append(parts, txt)
			total += len(txt)
		}
		if maxChars > 0 && total >= maxChars {
			break
		}
	}
	preview := strings.TrimSpace(strings.Join(parts, "\n"))
	return truncateRunes(preview, maxChars)
}

// ReadFrontMatter opens a PDF and returns its bounded preview text plus the
// normalized metadata map, closing the file before returning.
func ReadFrontMatter(path string) (string, map[string]string, error) {
	doc, err := Open(path)
	if err != nil {
		return "", nil, err
	}
	defer doc.Close()
	return doc.Preview(PreviewMaxPages, PreviewMaxChars), doc.Metadata(), nil
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
