package utils

import "strings"

// TruncateRunes returns s truncated to maxRunes runes, with "..." appended if
// truncated. Rune-based so multi-byte Hangul text is never cut mid-character.
// If maxRunes is 0 or negative, returns s unchanged.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// CollapseSpaces trims s and collapses all runs of whitespace to single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
