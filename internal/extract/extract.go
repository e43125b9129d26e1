// Package extract reads statute text out of local files so statutes can be
// ingested into the corpus without the portal collector. Plain text, PDF,
// DOCX and Excel sources are supported.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hanbeop/lawdex/internal/models"
	"github.com/hanbeop/lawdex/internal/segment"
)

// Text reads the file at path and returns its plain-text content. The format
// is chosen by extension; unknown extensions are treated as plain text.
func Text(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return TextBytes(content, strings.ToLower(filepath.Ext(path)))
}

// TextBytes extracts text from content for the given extension (with leading
// dot, e.g. ".pdf").
func TextBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return pdfText(content)
	case ".docx":
		return docxText(content)
	case ".xlsx":
		return excelText(content)
	default:
		return plainText(content)
	}
}

// Statute builds a statute record from a local file: the file name (without
// extension) becomes the title, the extracted text the content, and the
// content is segmented into articles.
func Statute(path, keyword string) (models.Statute, error) {
	text, err := Text(path)
	if err != nil {
		return models.Statute{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Statute{}, fmt.Errorf("no text extracted from %s", path)
	}
	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	return models.Statute{
		Title:    title,
		Content:  text,
		Articles: segment.Segment(text),
		Keyword:  keyword,
	}, nil
}
