// Package segment splits raw statute text into ordered articles.
//
// Article boundaries follow the Korean statute convention "제N조": a marker
// of 제 + digits + 조, optionally extended with a 의N sub-number ("제5조의2"),
// optionally followed by a bracketed short heading, followed by body text up
// to the next marker or end of input.
//
// Segmentation is an explicit single-pass scan rather than a regular
// expression, so worst-case behavior is linear in the input length and
// independent of any pattern engine's backtracking semantics.
package segment

import (
	"strings"

	"github.com/hanbeop/lawdex/internal/models"
)

// Bracket variants accepted around article headings. Statute text from the
// national law database mixes half-width and full-width forms.
const (
	openBrackets  = "([（"
	closeBrackets = ")]）"
)

// Segment splits fullText into articles in order of appearance. Text before
// the first marker is discarded. Zero markers yield a nil slice. Articles are
// emitted in scan order; parsed numbers are never re-sorted even when the
// source numbering is irregular or duplicated.
func Segment(fullText string) []models.Article {
	runes := []rune(fullText)
	var articles []models.Article

	i := 0
	for i < len(runes) {
		number, afterMarker, ok := matchMarker(runes, i)
		if !ok {
			i++
			continue
		}

		heading, bodyStart := parseHeading(runes, afterMarker)

		// Body extends to the next marker or end of input.
		bodyEnd := bodyStart
		for bodyEnd < len(runes) {
			if _, _, isMarker := matchMarker(runes, bodyEnd); isMarker {
				break
			}
			bodyEnd++
		}

		articles = append(articles, models.Article{
			Number:  number,
			Heading: heading,
			Body:    strings.TrimSpace(string(runes[bodyStart:bodyEnd])),
		})
		i = bodyEnd
	}
	return articles
}

// matchMarker reports whether runes[i:] starts with an article marker.
// On success it returns the article number (digits, plus a 의N suffix when
// present, e.g. "5의2") and the index just past the marker.
func matchMarker(runes []rune, i int) (number string, next int, ok bool) {
	if i >= len(runes) || runes[i] != '제' {
		return "", 0, false
	}
	j := i + 1
	start := j
	for j < len(runes) && isDigit(runes[j]) {
		j++
	}
	if j == start || j >= len(runes) || runes[j] != '조' {
		return "", 0, false
	}
	number = string(runes[start:j])
	j++ // consume 조

	// Optional 의N sub-number: 제5조의2.
	if j+1 < len(runes) && runes[j] == '의' && isDigit(runes[j+1]) {
		k := j + 1
		for k < len(runes) && isDigit(runes[k]) {
			k++
		}
		number += "의" + string(runes[j+1:k])
		j = k
	}
	return number, j, true
}

// parseHeading reads an optional bracketed heading starting at i (whitespace
// before the bracket is skipped). Returns the heading and the body start
// index. With no bracket the heading is empty and the body starts at i.
// An unterminated bracket yields whatever text remains; the scan is bounded
// by the input length and cannot hang.
func parseHeading(runes []rune, i int) (heading string, bodyStart int) {
	j := i
	for j < len(runes) && isSpace(runes[j]) {
		j++
	}
	if j >= len(runes) || !strings.ContainsRune(openBrackets, runes[j]) {
		return "", i
	}
	j++ // consume opening bracket
	start := j
	for j < len(runes) && !strings.ContainsRune(closeBrackets, runes[j]) {
		j++
	}
	if j >= len(runes) {
		// Unterminated at end of text: yield what is present.
		return strings.TrimSpace(string(runes[start:])), len(runes)
	}
	return strings.TrimSpace(string(runes[start:j])), j + 1
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ' '
}

// CountMarkers returns the number of article marker occurrences in text.
// Used to check that segmentation neither invents nor destroys markers.
func CountMarkers(text string) int {
	runes := []rune(text)
	n := 0
	for i := 0; i < len(runes); i++ {
		if _, _, ok := matchMarker(runes, i); ok {
			n++
		}
	}
	return n
}
