// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"reflect"
	"testing"
)

func TestIsNoiseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"affiliation all caps", "UNIVERSITY OF EXAMPLE, DEPARTMENT OF ECONOMICS", true},
		{"affiliation mixed case", "Department of Economics, Example University", true},
		{"content sentence", "We study the effect of taxation on growth.", false},
		{"footnote line", "* Corresponding author.", true},
		{"dagger footnote", "† We thank seminar participants.", true},
		{"doi line", "doi:10.1016/j.jpubeco.2020.104123", true},
		{"url line", "https://example.org/papers/123", true},
		{"page number", "42", true},
		{"page range", "101-118", true},
		{"masthead caps with digits", "JOURNAL OF PUBLIC ECONOMICS 2020", true},
		{"stopword plus month", "Journal of Finance, Vol. 12, May", true},
		{"title line", "Taxation and Growth: A New Look", false},
		{"author line", "Jane Doe, John Smith", false},
		{"blank line", "   ", false},
		{"all caps without furniture", "WE STUDY TAXATION", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNoiseLine(tt.line); got != tt.want {
				t.Errorf("IsNoiseLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestFilterLinesDropsNoise(t *testing.T) {
	text := "A Study of Growth\n\n42\nJane Doe\nUNIVERSITY OF EXAMPLE\n\nBody text here."
	got := FilterLines(text)
	want := []string{"A Study of Growth", "", "Jane Doe", "", "Body text here."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterLines() = %q, want %q", got, want)
	}
}

func TestBlocks(t *testing.T) {
	lines := []string{"", "title line", "second line", "", "", "author line", ""}
	got := blocks(lines)
	want := [][]string{{"title line", "second line"}, {"author line"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("blocks() = %q, want %q", got, want)
	}
}
