// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract recovers structured bibliographic metadata from the noisy
// front-matter text of academic PDFs. Every field resolves through a layered
// strategy: embedded PDF metadata first, then layout heuristics over the
// filtered preview text, then a filename- or empty-value fallback. No field
// failure is fatal.
package extract

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/econsearch/internal/textnorm"
	"github.com/pdiddy/econsearch/pkg/types"
)

// titleScanWindow bounds the title search when no abstract marker exists.
const titleScanWindow = 40

// journalScanWindow is the number of leading non-empty lines scanned for a
// journal masthead.
const journalScanWindow = 12

// journalIndicators flag a line as a probable journal name. Generic
// periodical words plus fragments of well-known economics venues.
var journalIndicators = []string{
	"journal", "review", "quarterly", "economics", "finance", "studies",
	"letters", "magazine", "bulletin", "papers",
	"econometrica", "american economic", "economic policy",
}

// sectionHeadings end abstract collection when they appear on their own line.
var sectionHeadings = map[string]bool{
	"introduction": true, "background": true, "methods": true, "data": true,
	"results": true, "conclusion": true, "conclusions": true,
	"discussion": true, "literature review": true, "related literature": true,
	"model": true, "theory": true,
}

var (
	yearPattern    = regexp.MustCompile(`(19|20)\d{2}`)
	keywordPattern = regexp.MustCompile(`(?i)keywords?[:\-]\s*(.+)`)
	partSplitter   = regexp.MustCompile(`[;,/]`)
)

// yearMetaKeys is the priority order for embedded date-like fields.
var yearMetaKeys = []string{"creationdate", "moddate", "created", "modified"}

// BuildRecord assembles a PaperRecord from the preview text of a PDF's first
// pages and its normalized embedded metadata map (lower-cased keys, no
// leading slash). The preview may be empty; every preview-dependent field
// then falls back to metadata or filename defaults.
func BuildRecord(path, preview string, meta map[string]string) types.PaperRecord {
	filtered := FilterLines(preview)

	title, authors := extractTitleAuthors(filtered, meta, path)

	return types.PaperRecord{
		PDFPath:  path,
		Title:    title,
		Authors:  authors,
		Abstract: extractAbstract(filtered, preview),
		Journal:  extractJournal(filtered, meta),
		Keywords: extractKeywords(preview, meta),
		Year:     extractYear(meta),
	}
}

// --- journal ---

func extractJournal(filtered []string, meta map[string]string) string {
	for _, key := range []string{"journal", "subject"} {
		if v := strings.TrimSpace(meta[key]); v != "" {
			return v
		}
	}

	// A journal masthead lives in the front furniture, never inside the
	// abstract, where words like "studies" are common body text.
	if idx := abstractMarkerIndex(filtered); idx >= 0 {
		filtered = filtered[:idx]
	}

	seen := 0
	for _, line := range filtered {
		if line == "" {
			continue
		}
		seen++
		if seen > journalScanWindow {
			break
		}
		lower := strings.ToLower(line)
		for _, ind := range journalIndicators {
			if strings.Contains(lower, ind) {
				if i := strings.IndexRune(line, '•'); i >= 0 {
					line = line[:i]
				}
				return textnorm.TitleCase(strings.TrimSpace(line))
			}
		}
	}
	return ""
}

// --- title and authors ---

// extractTitleAuthors locates the title block before the abstract marker and
// reads the author names anchored immediately after it.
func extractTitleAuthors(filtered []string, meta map[string]string, path string) (string, []string) {
	region := filtered
	if idx := abstractMarkerIndex(filtered); idx >= 0 {
		region = filtered[:idx]
	} else if len(region) > titleScanWindow {
		region = region[:titleScanWindow]
	}

	title := ""
	var authorLines []string

	bs := blocks(region)
	for i, b := range bs {
		if !isTitleBlock(b) {
			continue
		}
		title = b[0]
		authorLines = append(authorLines, b[1:]...)

		// Accumulate following blocks as author candidates until one
		// mentions the abstract or parsing already succeeds.
		for _, next := range bs[i+1:] {
			if blockMentionsAbstract(next) {
				break
			}
			authorLines = append(authorLines, next...)
			if names := ParseAuthors(strings.Join(authorLines, " ")); len(names) > 0 {
				break
			}
		}
		break
	}

	authors := ParseAuthors(strings.Join(authorLines, " "))

	if title == "" {
		title = strings.TrimSpace(meta["title"])
	}
	if title == "" {
		title = filenameStem(path)
	}
	if len(authors) == 0 {
		authors = metadataAuthors(meta)
	}
	return title, authors
}

// abstractMarkerIndex returns the index of the line that is exactly
// "abstract" (optional trailing colon) or starts with "abstract ", or -1.
func abstractMarkerIndex(lines []string) int {
	for i, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		if lower == "abstract" || lower == "abstract:" || strings.HasPrefix(lower, "abstract ") {
			return i
		}
	}
	return -1
}

// isTitleBlock accepts a block with at least three tokens, none of them a
// header stopword, that does not open with a digit.
func isTitleBlock(b []string) bool {
	tokens := strings.Fields(strings.Join(b, " "))
	if len(tokens) < 3 {
		return false
	}
	first := []rune(b[0])
	if len(first) > 0 && unicode.IsDigit(first[0]) {
		return false
	}
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if headerStopwords[tok] {
			return false
		}
	}
	return true
}

func blockMentionsAbstract(b []string) bool {
	for _, line := range b {
		if strings.Contains(strings.ToLower(line), "abstract") {
			return true
		}
	}
	return false
}

// ParseAuthors splits free text into normalized author names. Fragments
// containing affiliation keywords or digits, and fragments longer than
// seven words, are discarded. Order is preserved; duplicates are dropped.
func ParseAuthors(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(footnoteMarkers, r) {
			return -1
		}
		return r
	}, text)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = strings.ReplaceAll(cleaned, " and ", ",")
	cleaned = strings.ReplaceAll(cleaned, "&", ",")

	var names []string
	seen := make(map[string]bool)
	for _, frag := range strings.Split(cleaned, ",") {
		frag = strings.TrimSpace(frag)
		if frag == "" || !plausibleName(frag) {
			continue
		}
		name, ok := textnorm.NormalizeName(frag)
		if !ok {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}

func plausibleName(frag string) bool {
	if strings.ContainsFunc(frag, unicode.IsDigit) {
		return false
	}
	words := strings.Fields(frag)
	if len(words) > 7 {
		return false
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) }))
		if affiliationKeywords[w] {
			return false
		}
	}
	return true
}

func metadataAuthors(meta map[string]string) []string {
	raw := meta["author"]
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	for _, part := range partSplitter.Split(raw, -1) {
		name, ok := textnorm.NormalizeName(part)
		if !ok {
			continue
		}
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
	}
	return names
}

// --- abstract ---

// extractAbstract collects the lines after the abstract marker until a blank
// line, a section heading, or the character budget. Without a marker it
// falls back to the head of the unfiltered preview.
func extractAbstract(filtered []string, preview string) string {
	idx := abstractMarkerIndex(filtered)
	if idx < 0 {
		return textnorm.NormalizeAbstract(truncateRunes(preview, types.MaxAbstractChars))
	}

	var parts []string
	total := 0

	// The marker line itself may carry the opening sentence
	// ("Abstract This paper...").
	if rest := strings.TrimLeft(strings.TrimSpace(filtered[idx][len("abstract"):]), ": \t"); rest != "" {
		parts = append(parts, rest)
		total += len(rest)
	}

	for _, line := range filtered[idx+1:] {
		if line == "" {
			if len(parts) > 0 {
				break
			}
			continue
		}
		if isSectionHeading(line) {
			break
		}
		parts = append(parts, line)
		total += len(line)
		if total >= types.MaxAbstractChars {
			break
		}
	}

	joined := truncateRunes(strings.Join(parts, " "), types.MaxAbstractChars)
	return textnorm.NormalizeAbstract(joined)
}

// isSectionHeading accepts the closed set of section names, colon-tolerant,
// and short lines that are almost entirely upper-case.
func isSectionHeading(line string) bool {
	lower := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	if sectionHeadings[lower] {
		return true
	}

	if len(strings.Fields(line)) > 12 {
		return false
	}
	upper, letters := 0, 0
	for _, r := range line {
		if unicode.IsUpper(r) {
			upper++
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters > 0 && float64(upper) > 0.85*float64(letters)
}

// --- keywords ---

func extractKeywords(preview string, meta map[string]string) []string {
	for _, key := range []string{"keywords", "subject"} {
		if parts := cleanParts(meta[key]); len(parts) > 0 {
			return parts
		}
	}
	for _, line := range strings.Split(preview, "\n") {
		if m := keywordPattern.FindStringSubmatch(line); m != nil {
			if parts := cleanParts(m[1]); len(parts) > 0 {
				return parts
			}
		}
	}
	return nil
}

// cleanParts splits on semicolons, commas, and slashes, trimming each part
// and dropping empties and literal "none" placeholders.
func cleanParts(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range partSplitter.Split(raw, -1) {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "none") {
			continue
		}
		out = append(out, part)
	}
	return out
}

// --- year ---

func extractYear(meta map[string]string) *int {
	for _, key := range yearMetaKeys {
		raw := meta[key]
		if raw == "" {
			continue
		}
		if m := yearPattern.FindString(raw); m != "" {
			if y, err := strconv.Atoi(m); err == nil {
				return &y
			}
		}
	}
	return nil
}

// --- helpers ---

func filenameStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
