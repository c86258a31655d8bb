// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm provides the casing and name normalization rules shared
// by metadata extraction and metadata formatting. All functions are pure.
package textnorm

import (
	"strings"
	"unicode"
)

// acronyms are tokens rendered fully upper-case regardless of source casing.
// Domain abbreviations and short institutional acronyms common in economics
// and finance papers.
var acronyms = map[string]bool{
	"GDP": true, "GNP": true, "CPI": true, "PPP": true, "FDI": true,
	"VAR": true, "OLS": true, "GMM": true, "DSGE": true, "IV": true,
	"OECD": true, "IMF": true, "ECB": true, "WTO": true, "EU": true,
	"US": true, "USA": true, "UK": true, "UN": true,
	"NBER": true, "CEPR": true, "IZA": true, "BIS": true,
	"MIT": true, "LSE": true, "UCLA": true, "NYU": true,
}

// romanNumerals covers i through x, rendered upper-case in titles and names.
var romanNumerals = map[string]bool{
	"i": true, "ii": true, "iii": true, "iv": true, "v": true,
	"vi": true, "vii": true, "viii": true, "ix": true, "x": true,
}

// smallWords are not capitalized by TitleCase unless they open the text.
var smallWords = map[string]bool{
	"of": true, "and": true, "the": true, "in": true, "on": true,
	"for": true, "to": true, "a": true, "an": true, "at": true,
	"by": true, "with": true, "or": true, "from": true, "per": true,
}

// footnoteMarkers are the reference-mark characters stripped from names
// and used by the noise filter to spot footnote lines.
const footnoteMarkers = "*†‡§¶"

// NormalizeToken strips characters outside the letter/apostrophe set from a
// token and title-cases it. Whitelisted acronyms and Roman numerals i..x
// come out fully upper-case. Hyphenated tokens are normalized segment by
// segment and rejoined with hyphens.
func NormalizeToken(token string) string {
	segments := strings.Split(token, "-")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		var b strings.Builder
		for _, r := range seg {
			if unicode.IsLetter(r) || r == '\'' {
				b.WriteRune(r)
			}
		}
		cleaned := b.String()
		if cleaned == "" {
			continue
		}
		switch {
		case acronyms[strings.ToUpper(cleaned)]:
			out = append(out, strings.ToUpper(cleaned))
		case romanNumerals[strings.ToLower(cleaned)]:
			out = append(out, strings.ToUpper(cleaned))
		default:
			out = append(out, capitalize(strings.ToLower(cleaned)))
		}
	}
	return strings.Join(out, "-")
}

// NormalizeName cleans a single author name: footnote markers stripped,
// dash variants unified, whitespace collapsed, each word token-normalized.
// The second return value is false when nothing survives cleaning.
func NormalizeName(name string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(footnoteMarkers, r) {
			return -1
		}
		if r == '–' || r == '—' || r == '−' {
			return '-'
		}
		return r
	}, name)

	words := strings.Fields(cleaned)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if t := NormalizeToken(w); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return "", false
	}
	return strings.Join(out, " "), true
}

// TitleCase lower-cases text and capitalizes every word except a closed set
// of short function words. The first word is always capitalized. Hyphenated
// compounds are title-cased segment by segment. Idempotent.
func TitleCase(text string) string {
	words := strings.Fields(strings.ToLower(text))
	for i, w := range words {
		segments := strings.Split(w, "-")
		for j, seg := range segments {
			first := i == 0 && j == 0
			if seg == "" || (!first && smallWords[seg]) {
				continue
			}
			segments[j] = capitalize(seg)
		}
		words[i] = strings.Join(segments, "-")
	}
	return strings.Join(words, " ")
}

// NormalizeAbstract repairs the casing of abstract text lifted from PDF
// layers: whitespace runs collapse to single spaces, words of four or more
// letters that are entirely upper-case are treated as shouting body text
// and down-cased to capitalized form, and the first letter of the text and
// of every sentence is capitalized.
func NormalizeAbstract(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = softenShouting(w)
	}
	return capitalizeSentences(strings.Join(words, " "))
}

// softenShouting converts the letter core of a word from all-caps to
// capitalized form when it is four or more letters long. Short all-caps
// runs are left alone as probable acronyms.
func softenShouting(word string) string {
	core := strings.TrimFunc(word, func(r rune) bool { return !unicode.IsLetter(r) })
	if core == "" {
		return word
	}
	runes := []rune(core)
	if len(runes) < 4 {
		return word
	}
	for _, r := range runes {
		if !unicode.IsUpper(r) {
			return word
		}
	}
	return strings.Replace(word, core, capitalize(strings.ToLower(core)), 1)
}

// capitalizeSentences upper-cases the first letter of the text and the
// first letter following sentence-ending punctuation plus whitespace.
func capitalizeSentences(text string) string {
	runes := []rune(text)
	capNext := true
	for i, r := range runes {
		switch {
		case capNext && unicode.IsLetter(r):
			runes[i] = unicode.ToUpper(r)
			capNext = false
		case r == '.' || r == '!' || r == '?':
			if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				capNext = true
			}
		}
	}
	return string(runes)
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
