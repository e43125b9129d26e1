package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const docxDocumentPath = "word/document.xml"

// wtText matches <w:t> text nodes including ones carrying attributes such as
// xml:space="preserve"; matching runs instead of paragraphs keeps text from
// documents whose <w:p> elements have revision attributes.
var wtText = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// docxText pulls the text runs out of the main document part of a .docx zip.
func docxText(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open DOCX: not a zip: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != docxDocumentPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open DOCX part %s: %w", f.Name, err)
		}
		docXML, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("read DOCX part %s: %w", f.Name, err)
		}
		var b strings.Builder
		for _, m := range wtText.FindAllStringSubmatch(string(docXML), -1) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strings.TrimSpace(m[1]))
		}
		return strings.TrimSpace(b.String()), nil
	}
	return "", fmt.Errorf("DOCX: %s not found", docxDocumentPath)
}
