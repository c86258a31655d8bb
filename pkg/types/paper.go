// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// MaxAbstractChars bounds the stored abstract length.
const MaxAbstractChars = 1500

// PaperRecord holds the bibliographic metadata extracted from one PDF.
// PDFPath is the unique key within the index.
type PaperRecord struct {
	// PDFPath is the absolute path to the source PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// Title is the paper title. Falls back to the filename stem when the
	// heuristics recover nothing.
	Title string `json:"title" yaml:"title"`

	// Abstract is the normalized abstract text, at most MaxAbstractChars long.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Year is the publication year in [1900,2099], or nil when unrecoverable.
	Year *int `json:"year" yaml:"year"`

	// Authors lists normalized author names in source order, deduplicated.
	Authors []string `json:"authors" yaml:"authors"`

	// Keywords lists short keyword phrases, possibly empty.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Journal is the title-cased journal name, empty when unknown.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`
}

// SearchText composes the text the retrieval layers index for this record:
// the whole-string fields followed by the list fields, space-joined.
func (p PaperRecord) SearchText() string {
	parts := make([]string, 0, 3+len(p.Authors)+len(p.Keywords))
	for _, s := range []string{p.Title, p.Abstract, p.Journal} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, p.Authors...)
	parts = append(parts, p.Keywords...)
	return strings.Join(parts, " ")
}

// SearchResult is a PaperRecord annotated with a cosine similarity score.
// Scores are in [0,1] and are never persisted.
type SearchResult struct {
	PaperRecord `yaml:",inline"`

	Score float64 `json:"score" yaml:"score"`
}
