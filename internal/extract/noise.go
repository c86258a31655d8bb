// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"
	"unicode"
)

// affiliationKeywords mark institutional-affiliation lines and author-line
// fragments that are not names.
var affiliationKeywords = map[string]bool{
	"university": true, "college": true, "school": true, "department": true,
	"institute": true, "laboratory": true, "lab": true,
	"centre": true, "center": true, "academy": true,
	"research": true, "programme": true, "program": true,
}

// headerStopwords mark page-furniture lines: journal mastheads, volume and
// issue banners, copyright notices, and similar front-matter noise.
var headerStopwords = map[string]bool{
	"journal": true, "volume": true, "vol": true, "issue": true, "no": true,
	"issn": true, "isbn": true, "doi": true, "pp": true,
	"copyright": true, "rights": true, "reserved": true,
	"press": true, "association": true, "conference": true,
	"proceedings": true, "published": true, "publisher": true,
	"elsevier": true, "springer": true, "wiley": true,
}

var monthNames = map[string]bool{
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
}

const footnoteMarkers = "*†‡§¶"

// IsNoiseLine classifies one line of extracted PDF text as structural noise:
// footnote lines, links, bare page numbers, affiliation lines, and
// upper-case page furniture. Blank lines are not noise; they delimit blocks.
func IsNoiseLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	if strings.ContainsRune(footnoteMarkers, []rune(trimmed)[0]) {
		return true
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "doi") || strings.HasPrefix(lower, "http") {
		return true
	}

	if isPageFurnitureDigits(trimmed) {
		return true
	}

	hasStopword, hasMonth := false, false
	for _, tok := range strings.Fields(lower) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if affiliationKeywords[tok] {
			return true
		}
		if headerStopwords[tok] {
			hasStopword = true
		}
		if monthNames[tok] {
			hasMonth = true
		}
	}

	if hasStopword && hasMonth {
		return true
	}

	upper, letters, hasDigit := 0, 0, false
	for _, r := range trimmed {
		switch {
		case unicode.IsUpper(r):
			upper++
			letters++
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if letters > 0 && float64(upper) > 0.8*float64(letters) {
		if hasStopword || hasMonth || hasDigit {
			return true
		}
	}

	return false
}

// isPageFurnitureDigits reports lines that are nothing but digits, hyphens,
// and whitespace (page numbers, page ranges).
func isPageFurnitureDigits(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '-' || unicode.IsSpace(r):
		default:
			return false
		}
	}
	return digits > 0
}

// FilterLines drops noise lines from preview text and trims the rest,
// preserving blank lines as block separators.
func FilterLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if IsNoiseLine(line) {
			continue
		}
		out = append(out, strings.TrimSpace(line))
	}
	return out
}

// blocks groups consecutive non-blank lines; blank lines separate blocks.
func blocks(lines []string) [][]string {
	var out [][]string
	var cur []string
	for _, line := range lines {
		if line == "" {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
