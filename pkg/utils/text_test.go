package utils

import "testing"

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than limit", "abc", 10, "abc"},
		{"exact limit", "abcde", 5, "abcde"},
		{"truncated", "abcdef", 3, "abc..."},
		{"zero limit returns unchanged", "abc", 0, "abc"},
		{"hangul not cut mid-character", "하도급거래", 3, "하도급..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateRunes(tt.in, tt.max); got != tt.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestCollapseSpaces(t *testing.T) {
	if got := CollapseSpaces("  제1조   목적 \n 내용  "); got != "제1조 목적 내용" {
		t.Errorf("CollapseSpaces = %q", got)
	}
}
