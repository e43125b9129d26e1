// Package models defines core data structures for statutes, retrievable
// documents, and ranked search results.
package models

import "strings"

// Statute is a single law's full text plus metadata. Identity is the title,
// assumed unique within a corpus. Statutes are immutable once stored and
// replaced wholesale on re-collection.
//
// The JSON field names match the on-disk corpus snapshot format, which is
// also the wire format produced by the collection client.
type Statute struct {
	Title    string    `json:"title"`
	URL      string    `json:"url,omitempty"`
	Content  string    `json:"content"`
	Articles []Article `json:"articles"`
	// Keyword is the search term that discovered this statute.
	Keyword string `json:"keyword,omitempty"`
}

// Article is a numbered subdivision of a statute ("제N조"). Number preserves
// the original numbering as a string, including non-numeric suffixes such as
// "5의2". Ordering within a statute is the order of appearance in the source
// text, never numeric order.
type Article struct {
	Number  string `json:"number"`
	Heading string `json:"title,omitempty"`
	Body    string `json:"content"`
}

// Marker returns the article's canonical marker form. Sub-numbers render in
// source order: "5의2" becomes "제5조의2", not "제5의2조".
func (a Article) Marker() string {
	if base, sub, ok := strings.Cut(a.Number, "의"); ok {
		return "제" + base + "조의" + sub
	}
	return "제" + a.Number + "조"
}

// Citation returns the human-readable citation for the article within the
// given statute, e.g. "하도급법 제5조".
func (a Article) Citation(statuteTitle string) string {
	return statuteTitle + " " + a.Marker()
}
