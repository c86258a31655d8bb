// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdiddy/econsearch/pkg/types"
)

const frontMatter = `Taxation and Growth: A New Look

Jane Doe, John Smith

Abstract
This paper studies the relationship between taxation and growth using panel data.

Introduction
We begin with a survey of the literature.
`

func TestBuildRecordFrontMatter(t *testing.T) {
	rec := BuildRecord("/papers/tax-growth.pdf", frontMatter, nil)

	if rec.Title != "Taxation and Growth: A New Look" {
		t.Errorf("Title = %q", rec.Title)
	}
	if want := []string{"Jane Doe", "John Smith"}; !reflect.DeepEqual(rec.Authors, want) {
		t.Errorf("Authors = %q, want %q", rec.Authors, want)
	}
	if !strings.HasPrefix(rec.Abstract, "This paper studies") {
		t.Errorf("Abstract = %q, want prefix %q", rec.Abstract, "This paper studies")
	}
	if strings.Contains(rec.Abstract, "survey of the literature") {
		t.Errorf("Abstract leaked past the Introduction heading: %q", rec.Abstract)
	}
	if rec.Journal != "" {
		t.Errorf("Journal = %q, want empty", rec.Journal)
	}
	if rec.PDFPath != "/papers/tax-growth.pdf" {
		t.Errorf("PDFPath = %q", rec.PDFPath)
	}
}

func TestBuildRecordSkipsNoiseAboveTitle(t *testing.T) {
	preview := "UNIVERSITY OF EXAMPLE, DEPARTMENT OF ECONOMICS\n" +
		"doi:10.1000/xyz\n\n" + frontMatter
	rec := BuildRecord("/papers/x.pdf", preview, nil)
	if rec.Title != "Taxation and Growth: A New Look" {
		t.Errorf("Title = %q", rec.Title)
	}
}

func TestBuildRecordJournalLine(t *testing.T) {
	preview := "Journal of Public Economics • Article in press\n\n" + frontMatter
	rec := BuildRecord("/papers/x.pdf", preview, nil)
	if rec.Journal != "Journal of Public Economics" {
		t.Errorf("Journal = %q", rec.Journal)
	}
	// A journal masthead is page furniture, so the title block must still
	// be found behind it.
	if rec.Title != "Taxation and Growth: A New Look" {
		t.Errorf("Title = %q", rec.Title)
	}
}

func TestBuildRecordMetadataFallbacks(t *testing.T) {
	meta := map[string]string{
		"title":        "A Fallback Title",
		"author":       "Doe, Jane; Smith, John",
		"keywords":     "taxation; growth / panel data",
		"creationdate": "D:20190402120000Z",
	}
	rec := BuildRecord("/papers/fallback.pdf", "", meta)

	if rec.Title != "A Fallback Title" {
		t.Errorf("Title = %q", rec.Title)
	}
	if len(rec.Authors) == 0 {
		t.Fatalf("Authors empty, want metadata fallback")
	}
	if want := []string{"taxation", "growth", "panel data"}; !reflect.DeepEqual(rec.Keywords, want) {
		t.Errorf("Keywords = %q, want %q", rec.Keywords, want)
	}
	if rec.Year == nil || *rec.Year != 2019 {
		t.Errorf("Year = %v, want 2019", rec.Year)
	}
}

func TestBuildRecordFilenameStemFallback(t *testing.T) {
	rec := BuildRecord("/papers/growth-survey-2003.pdf", "", nil)
	if rec.Title != "growth-survey-2003" {
		t.Errorf("Title = %q, want filename stem", rec.Title)
	}
	if rec.Year != nil {
		t.Errorf("Year = %v, want nil without metadata", rec.Year)
	}
}

func TestAbstractTruncation(t *testing.T) {
	long := strings.Repeat("growth and taxation interact in subtle ways. ", 80)
	preview := "A Long Winded Paper Title\n\nJane Doe\n\nAbstract\n" + long
	rec := BuildRecord("/papers/long.pdf", preview, nil)

	if got := utf8.RuneCountInString(rec.Abstract); got > types.MaxAbstractChars {
		t.Errorf("abstract length = %d, want <= %d", got, types.MaxAbstractChars)
	}
}

func TestAbstractShortSourceKeptWhole(t *testing.T) {
	rec := BuildRecord("/papers/short.pdf", frontMatter, nil)
	want := "This paper studies the relationship between taxation and growth using panel data."
	if rec.Abstract != want {
		t.Errorf("Abstract = %q, want %q", rec.Abstract, want)
	}
}

func TestAbstractFallbackWithoutMarker(t *testing.T) {
	preview := "Some Paper Title Here\n\nbody text without any marker at all"
	rec := BuildRecord("/papers/x.pdf", preview, nil)
	if !strings.HasPrefix(rec.Abstract, "Some Paper Title Here") {
		t.Errorf("Abstract = %q, want unfiltered preview head", rec.Abstract)
	}
}

func TestParseAuthors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"comma separated", "Jane Doe, John Smith", []string{"Jane Doe", "John Smith"}},
		{"and separator", "Jane Doe and John Smith", []string{"Jane Doe", "John Smith"}},
		{"ampersand separator", "Jane Doe & John Smith", []string{"Jane Doe", "John Smith"}},
		{"footnote markers", "Jane Doe*, John Smith†", []string{"Jane Doe", "John Smith"}},
		{"affiliation dropped", "Jane Doe, University of Example", []string{"Jane Doe"}},
		{"digits dropped", "Jane Doe, March 2020", []string{"Jane Doe"}},
		{"overlong fragment dropped", "Jane Doe, we thank participants of the annual meeting for comments", []string{"Jane Doe"}},
		{"duplicates collapsed", "Jane Doe, JANE DOE", []string{"Jane Doe"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAuthors(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAuthors(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractYearPriority(t *testing.T) {
	meta := map[string]string{
		"creationdate": "D:20050610",
		"moddate":      "D:20210101",
	}
	rec := BuildRecord("/papers/x.pdf", "", meta)
	if rec.Year == nil || *rec.Year != 2005 {
		t.Errorf("Year = %v, want creation date to win", rec.Year)
	}
}

func TestExtractKeywordsFromPreviewLine(t *testing.T) {
	preview := frontMatter + "\nKeywords: taxation, growth, panel data\n"
	rec := BuildRecord("/papers/x.pdf", preview, nil)
	want := []string{"taxation", "growth", "panel data"}
	if !reflect.DeepEqual(rec.Keywords, want) {
		t.Errorf("Keywords = %q, want %q", rec.Keywords, want)
	}
}
