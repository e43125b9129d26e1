package index

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// chunk is one embedding unit: a word window of a document's text.
type chunk struct {
	id     string
	docPos int
	text   string
}

// chunker splits document text into overlapping word windows for the
// semantic profile. Statute articles are short; the full-statute documents
// are the ones that need windowing so a single embedding is not asked to
// represent an entire law.
type chunker struct {
	size    int
	overlap int
}

func newChunker(size, overlap int) *chunker {
	if size <= 0 {
		size = 200
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return &chunker{size: size, overlap: overlap}
}

// split returns the word windows of text for the document at docPos.
// Empty text yields no chunks.
func (c *chunker) split(docID string, docPos int, text string) []chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	step := c.size - c.overlap
	var chunks []chunk
	for start := 0; start < len(words); start += step {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, chunk{
			id:     fmt.Sprintf("%s_%s", docID, uuid.New().String()[:8]),
			docPos: docPos,
			text:   strings.Join(words[start:end], " "),
		})
		if end >= len(words) {
			break
		}
	}
	return chunks
}
