package index

import (
	"regexp"
	"strings"
)

// tokenPattern matches runs of letters and digits of length two or more,
// which drops single-character particles and punctuation. Hangul words are
// whitespace-delimited in statute text, so no morphological analysis is
// attempted.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]{2,}`)

// tokenize lowercases text and returns its terms.
func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
