// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer turns a natural-language question into a cited answer. It
// expands the question into keywords, aggregates vector-search hits across
// them, loads full texts for the winners and hands the assembled context to
// the generation model.
package answer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/econsearch/pkg/types"
)

const (
	// DefaultTopK is the number of papers fed to the model when the caller
	// does not specify one.
	DefaultTopK = 3

	// MaxTopK caps how many papers a single question may pull in.
	MaxTopK = 10

	// fullTextMaxPages bounds how deep into each PDF the context reaches.
	fullTextMaxPages = 12

	// contextTextChars bounds the full-text portion of each source block.
	contextTextChars = 4000
)

// Searcher ranks indexed papers against a query.
type Searcher interface {
	Search(query string, topK int) []types.SearchResult
}

// Generator produces keywords and answers. *llm.Client satisfies this.
type Generator interface {
	GenerateKeywords(ctx context.Context, question string, n int) []string
	AnswerWithContext(ctx context.Context, question string, contexts []string) string
}

// TextLoader retrieves document text by path. *pdfio.FullTextLoader
// satisfies this.
type TextLoader interface {
	Load(path string, maxPages, maxChars int) (string, error)
}

// Pipeline wires retrieval and generation together.
type Pipeline struct {
	searcher Searcher
	gen      Generator
	texts    TextLoader
}

// NewPipeline returns a ready pipeline.
func NewPipeline(searcher Searcher, gen Generator, texts TextLoader) *Pipeline {
	return &Pipeline{searcher: searcher, gen: gen, texts: texts}
}

// Response is the outcome of one question.
type Response struct {
	Answer   string               `json:"answer"`
	Keywords []string             `json:"keywords"`
	Sources  []types.SearchResult `json:"sources"`
}

// Ask answers a question from the indexed corpus. topK outside [1, MaxTopK]
// is clamped. When no paper matches any keyword the response carries the
// generated keywords and a fixed no-results answer.
func (p *Pipeline) Ask(ctx context.Context, question string, topK int) Response {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	keywords, sources := p.aggregateSearch(ctx, question, topK)
	if len(sources) == 0 {
		return Response{Answer: "No relevant documents found.", Keywords: keywords, Sources: []types.SearchResult{}}
	}

	contexts := make([]string, len(sources))
	for i, src := range sources {
		contexts[i] = p.buildContext(src.PaperRecord)
	}

	return Response{
		Answer:   p.gen.AnswerWithContext(ctx, question, contexts),
		Keywords: keywords,
		Sources:  sources,
	}
}

// aggregateSearch expands the question into keywords, searches each one and
// sums per-paper scores across keywords. Papers hit by several keywords rise
// above single-keyword matches. Ties keep first-seen order.
func (p *Pipeline) aggregateSearch(ctx context.Context, question string, topK int) ([]string, []types.SearchResult) {
	n := topK * 2
	if n < 4 {
		n = 4
	}
	keywords := p.gen.GenerateKeywords(ctx, question, n)

	byPath := make(map[string]int)
	var aggregated []types.SearchResult
	for _, keyword := range keywords {
		for _, hit := range p.searcher.Search(keyword, topK*3) {
			if hit.PDFPath == "" {
				continue
			}
			score := hit.Score
			i, ok := byPath[hit.PDFPath]
			if !ok {
				i = len(aggregated)
				byPath[hit.PDFPath] = i
				hit.Score = 0
				aggregated = append(aggregated, hit)
			}
			aggregated[i].Score += score
		}
	}

	sort.SliceStable(aggregated, func(i, j int) bool {
		return aggregated[i].Score > aggregated[j].Score
	})
	if len(aggregated) > topK {
		aggregated = aggregated[:topK]
	}
	return keywords, aggregated
}

// buildContext renders one paper as a source block: a metadata head, the
// abstract and the opening pages of the full text.
func (p *Pipeline) buildContext(rec types.PaperRecord) string {
	year := "Unknown"
	if rec.Year != nil {
		year = fmt.Sprintf("%d", *rec.Year)
	}
	authors := "Authors: Unknown"
	if len(rec.Authors) > 0 {
		authors = "Authors: " + strings.Join(rec.Authors, ", ")
	}
	keywords := "Keywords: None"
	if len(rec.Keywords) > 0 {
		keywords = "Keywords: " + strings.Join(rec.Keywords, ", ")
	}

	fullText := ""
	if p.texts != nil {
		// Extraction failures degrade to metadata-only context.
		if text, err := p.texts.Load(rec.PDFPath, fullTextMaxPages, 0); err == nil {
			fullText = truncateRunes(text, contextTextChars)
		}
	}

	return strings.Join([]string{
		"Title: " + rec.Title,
		"Year: " + year,
		authors,
		keywords,
		"",
		rec.Abstract,
		"",
		fullText,
	}, "\n")
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
