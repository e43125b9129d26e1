// Package corpus converts statutes into the flat sequence of retrievable
// documents the relevance index is built from.
package corpus

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hanbeop/lawdex/internal/models"
)

// Builder derives retrievable documents from statutes. Build is a pure
// function of its input: the same statutes always yield structurally
// identical output, in the same order.
type Builder struct {
	logger *zap.Logger // optional; when set, logs skipped statutes
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a logger for warnings about skipped statutes.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a corpus builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build emits, for each statute in input order, one full-statute document
// (when the statute has content) followed by one document per article in
// segmentation order. Malformed statutes are skipped with a warning and
// never abort the build.
func (b *Builder) Build(statutes []models.Statute) []models.Document {
	var docs []models.Document
	for si, st := range statutes {
		if st.Title == "" {
			b.warn("skipping statute without title", st)
			continue
		}
		if st.Content == "" && len(st.Articles) == 0 {
			b.warn("skipping statute with no content and no articles", st)
			continue
		}
		// IDs are keyed by position, not title: overlapping collection
		// keywords return the same law more than once, and a repeated title
		// must not collapse two documents into one index entry.
		if st.Content != "" {
			docs = append(docs, models.Document{
				ID:           fmt.Sprintf("s%d#full", si),
				Text:         st.Title + " " + st.Content,
				Label:        st.Title,
				Kind:         models.KindFullStatute,
				StatuteTitle: st.Title,
			})
		}
		for i, a := range st.Articles {
			// Heading may be empty, yielding a double space in the surface
			// form; that is acceptable and kept for determinism.
			docs = append(docs, models.Document{
				ID:            fmt.Sprintf("s%d#a%d", si, i),
				Text:          fmt.Sprintf("%s %s %s %s", st.Title, a.Marker(), a.Heading, a.Body),
				Label:         a.Citation(st.Title),
				Kind:          models.KindArticle,
				StatuteTitle:  st.Title,
				ArticleNumber: a.Number,
			})
		}
	}
	return docs
}

func (b *Builder) warn(msg string, st models.Statute) {
	if b.logger != nil {
		b.logger.Warn(msg, zap.String("title", st.Title), zap.String("keyword", st.Keyword))
	}
}
