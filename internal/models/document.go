package models

// DocumentKind distinguishes full-statute documents from per-article documents.
type DocumentKind string

const (
	// KindFullStatute is a document covering a statute's entire text.
	KindFullStatute DocumentKind = "full_statute"
	// KindArticle is a document covering a single article.
	KindArticle DocumentKind = "article"
)

// Document is the unit actually indexed and scored for similarity: one per
// full statute and one per article. Documents are derived from statutes and
// rebuilt whenever the corpus changes, never mutated in place.
type Document struct {
	// ID is deterministic per corpus build; the index never contains duplicates.
	ID string `json:"id"`
	// Text is the searchable surface form, prefixed with the statute/article
	// identifying text.
	Text string `json:"text"`
	// Label is the human-readable citation, e.g. "하도급법 제5조".
	Label string `json:"label"`
	Kind  DocumentKind `json:"kind"`
	// StatuteTitle references the originating statute (lookup only, no ownership).
	StatuteTitle string `json:"statute_title"`
	// ArticleNumber is set for KindArticle documents.
	ArticleNumber string `json:"article_number,omitempty"`
}

// RankedResult is a single similarity hit. Ephemeral, produced per query,
// never persisted. Rank is the 0-based position in the returned ordering.
type RankedResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
	Rank     int      `json:"rank"`
}
