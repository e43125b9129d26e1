package extract

import (
	"strings"
	"unicode/utf8"
)

// plainText returns content as a string. Invalid UTF-8 sequences are replaced
// with the replacement character rather than failing the ingestion.
func plainText(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return strings.ToValidUTF8(string(content), "�"), nil
	}
	return string(content), nil
}
